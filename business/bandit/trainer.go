package bandit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"paperScout/domain"
	"paperScout/pkg/logger"
)

// ExposureSample is one historical exposure: the feature vector persisted at
// scoring time plus the interaction that followed it, if any.
type ExposureSample struct {
	UserID      uint
	PaperID     string
	Features    []float64
	Interaction *domain.Interaction
}

// ExposureRepository is the slice of the data layer the trainer consumes.
type ExposureRepository interface {
	ListExposureSamples(ctx context.Context, limit int) ([]ExposureSample, error)
}

// Dataset is the labeled training set: features per exposure and the reward
// observed for it (zero when the exposure drew no interaction).
type Dataset struct {
	X        [][]float64
	Y        []float64
	UserIDs  []uint
	PaperIDs []string
}

func (d Dataset) Len() int {
	return len(d.X)
}

// TrainConfig bounds the gradient-descent fit. HiddenDim 0 trains the pure
// linear model.
type TrainConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	HiddenDim    int
	Seed         int64
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:       80,
		BatchSize:    256,
		LearningRate: 0.01,
		HiddenDim:    32,
		Seed:         42,
	}
}

// BuildDataset pairs each historical exposure with its reward. A positive
// limit caps the number of samples. Exposures whose stored features do not
// match the current schema are skipped: they were logged under a different
// feature contract.
func BuildDataset(ctx context.Context, repo ExposureRepository, limit int) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, fmt.Errorf("context error: %w", err)
	}

	samples, err := repo.ListExposureSamples(ctx, limit)
	if err != nil {
		return Dataset{}, fmt.Errorf("load exposure samples: %w", err)
	}

	// repositories may bound the query at event granularity, so the sample
	// cap is enforced here
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}

	ds := Dataset{
		X:        make([][]float64, 0, len(samples)),
		Y:        make([]float64, 0, len(samples)),
		UserIDs:  make([]uint, 0, len(samples)),
		PaperIDs: make([]string, 0, len(samples)),
	}

	skipped := 0
	for _, s := range samples {
		if len(s.Features) != FeatureDim {
			skipped++
			continue
		}

		reward := 0.0
		if s.Interaction != nil {
			reward = ComputeReward(*s.Interaction)
		}

		ds.X = append(ds.X, s.Features)
		ds.Y = append(ds.Y, reward)
		ds.UserIDs = append(ds.UserIDs, s.UserID)
		ds.PaperIDs = append(ds.PaperIDs, s.PaperID)
	}

	if skipped > 0 {
		logger.Warn("skipped exposures with stale feature schema", "count", skipped)
	}

	return ds, nil
}

// Train fits model parameters by minimizing mean-squared error between the
// predicted score and the observed reward with mini-batch gradient descent.
// An empty dataset is a hard failure: the caller must never end up with a
// degenerate artifact.
func Train(ds Dataset, cfg TrainConfig) (*ModelParams, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("training set is empty")
	}

	inputDim := len(ds.X[0])
	for i, row := range ds.X {
		if len(row) != inputDim {
			return nil, fmt.Errorf("inconsistent feature dim at row %d: %d != %d", i, len(row), inputDim)
		}
	}

	if cfg.Epochs <= 0 || cfg.BatchSize <= 0 || cfg.LearningRate <= 0 {
		return nil, fmt.Errorf("invalid train config: epochs=%d batch=%d lr=%g", cfg.Epochs, cfg.BatchSize, cfg.LearningRate)
	}

	m := initParams(inputDim, cfg.HiddenDim, cfg.Seed)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		epochLoss := 0.0

		for start := 0; start < ds.Len(); start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, ds.Len())
			epochLoss += trainBatch(m, ds.X[start:end], ds.Y[start:end], cfg.LearningRate)
		}

		epochLoss /= float64(ds.Len())
		if !isFinite(epochLoss) {
			return nil, fmt.Errorf("training diverged at epoch %d", epoch+1)
		}

		logger.Debug("trainer epoch", "epoch", epoch+1, "epochs", cfg.Epochs, "loss", epochLoss)
	}

	m.Version = time.Now().UTC().Format("20060102T150405Z")
	return m, nil
}

func initParams(inputDim, hiddenDim int, seed int64) *ModelParams {
	rng := rand.New(rand.NewSource(seed))

	rows := 1
	if hiddenDim > 0 {
		rows = hiddenDim
	}

	m := &ModelParams{
		InputDim:  inputDim,
		HiddenDim: hiddenDim,
		W1:        make([][]float64, rows),
		B1:        make([]float64, rows),
	}
	for i := range m.W1 {
		m.W1[i] = make([]float64, inputDim)
		for j := range m.W1[i] {
			m.W1[i][j] = (rng.Float64()*2 - 1) * 0.1
		}
	}

	if hiddenDim > 0 {
		m.W2 = make([]float64, hiddenDim)
		for i := range m.W2 {
			m.W2[i] = (rng.Float64()*2 - 1) * 0.1
		}
	}

	return m
}

// trainBatch runs one gradient step over the batch and returns the summed
// squared error before the update.
func trainBatch(m *ModelParams, X [][]float64, Y []float64, lr float64) float64 {
	n := float64(len(X))

	gradW1 := zerosLike(m.W1)
	gradB1 := make([]float64, len(m.B1))
	var gradW2 []float64
	gradB2 := 0.0
	if m.HiddenDim > 0 {
		gradW2 = make([]float64, m.HiddenDim)
	}

	loss := 0.0

	for i, x := range X {
		if m.HiddenDim == 0 {
			pred := dot(m.W1[0], x) + m.B1[0]
			diff := pred - Y[i]
			loss += diff * diff

			d := 2 * diff
			addScaled(gradW1[0], x, d)
			gradB1[0] += d
			continue
		}

		// forward, keeping the pre-activation for the ReLU mask
		z := matVecMul(m.W1, x)
		addScaled(z, m.B1, 1.0)
		h := relu(z)
		pred := dot(m.W2, h) + m.B2

		diff := pred - Y[i]
		loss += diff * diff
		d := 2 * diff

		gradB2 += d
		addScaled(gradW2, h, d)

		for j := 0; j < m.HiddenDim; j++ {
			if z[j] <= 0 {
				continue
			}
			dh := d * m.W2[j]
			addScaled(gradW1[j], x, dh)
			gradB1[j] += dh
		}
	}

	step := lr / n
	for i := range m.W1 {
		addScaled(m.W1[i], gradW1[i], -step)
	}
	addScaled(m.B1, gradB1, -step)
	if m.HiddenDim > 0 {
		addScaled(m.W2, gradW2, -step)
		m.B2 -= step * gradB2
	}

	return loss
}
