package main

import (
	"context"
	"flag"
	"log"
	"time"

	"paperScout/business/bandit"
	psqlRepo "paperScout/internal/repository/postgres"
	"paperScout/pkg/config"
	"paperScout/pkg/database"
	"paperScout/pkg/logger"
)

// Offline training job: reads the exposure log, fits the reward model and
// writes a new policy artifact. Meant to run from cron.
func main() {
	limit := flag.Int("limit", 0, "max exposure samples to load (0 = all)")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall job deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting trainer", "model_dir", cfg.Model.Dir)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo := psqlRepo.NewInteractionRepository(db)

	ds, err := bandit.BuildDataset(ctx, repo, *limit)
	if err != nil {
		logger.Fatal("Failed to build dataset", "error", err)
	}

	logger.Info("Dataset built", "samples", ds.Len())

	trainCfg := bandit.DefaultTrainConfig()
	trainCfg.Epochs = cfg.Trainer.Epochs
	trainCfg.BatchSize = cfg.Trainer.BatchSize
	trainCfg.LearningRate = cfg.Trainer.LearningRate
	trainCfg.HiddenDim = cfg.Trainer.HiddenDim

	start := time.Now()
	params, err := bandit.Train(ds, trainCfg)
	if err != nil {
		logger.Fatal("Training failed", "error", err)
	}

	path, err := bandit.SaveModel(cfg.Model.Dir, params)
	if err != nil {
		logger.Fatal("Failed to save model", "error", err)
	}

	logger.Info("Training complete",
		"version", params.Version,
		"artifact", path,
		"samples", ds.Len(),
		"duration", time.Since(start).String(),
	)
}
