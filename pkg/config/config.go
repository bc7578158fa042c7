package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Model     ModelConfig
	Recommend RecommendConfig
	Trainer   TrainerConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type JWTConfig struct {
	SecretKey string
}

// ModelConfig locates the bandit policy artifacts on disk.
type ModelConfig struct {
	Dir string
}

// RecommendConfig carries serving-time defaults. These are deployment
// policy: stable within a deployment, tunable between them.
type RecommendConfig struct {
	DefaultTopK       int
	DefaultCandidateK int
	ProfileCacheTTLs  int // seconds; 0 disables the cache
}

type TrainerConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	HiddenDim    int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "paperScout"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8090"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "paper_platform"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Model: ModelConfig{
			Dir: getEnv("MODEL_DIR", "models/bandit"),
		},
		Recommend: RecommendConfig{
			DefaultTopK:       getEnvInt("RECOMMEND_TOP_K", 6),
			DefaultCandidateK: getEnvInt("RECOMMEND_CANDIDATE_K", 100),
			ProfileCacheTTLs:  getEnvInt("PROFILE_CACHE_TTL_SECONDS", 600),
		},
		Trainer: TrainerConfig{
			Epochs:       getEnvInt("TRAINER_EPOCHS", 80),
			BatchSize:    getEnvInt("TRAINER_BATCH_SIZE", 256),
			LearningRate: getEnvFloat("TRAINER_LEARNING_RATE", 0.01),
			HiddenDim:    getEnvInt("TRAINER_HIDDEN_DIM", 32),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}
