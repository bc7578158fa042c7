package bandit

import (
	"context"
	"math/rand"
	"testing"

	"paperScout/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticExposureRepo struct {
	samples []ExposureSample
	err     error
}

func (r *staticExposureRepo) ListExposureSamples(ctx context.Context, limit int) ([]ExposureSample, error) {
	return r.samples, r.err
}

func TestBuildDataset(t *testing.T) {
	click := domain.Interaction{ActionType: domain.ActionClick}

	repo := &staticExposureRepo{samples: []ExposureSample{
		{UserID: 1, PaperID: "a", Features: []float64{0.1, 0.2, 0.3, 0.4, 0.5}, Interaction: &click},
		{UserID: 1, PaperID: "b", Features: []float64{0.5, 0.4, 0.3, 0.2, 0.1}}, // no interaction
		{UserID: 2, PaperID: "c", Features: []float64{0.1, 0.2}},                // stale schema, skipped
	}}

	ds, err := BuildDataset(context.Background(), repo, 0)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []float64{1.0, 0.0}, ds.Y)
	assert.Equal(t, []string{"a", "b"}, ds.PaperIDs)
}

func TestBuildDatasetLimitCapsSamples(t *testing.T) {
	// three samples from one event; the limit counts samples, not events
	repo := &staticExposureRepo{samples: []ExposureSample{
		{UserID: 1, PaperID: "a", Features: []float64{0, 0, 0, 0, 0.1}},
		{UserID: 1, PaperID: "b", Features: []float64{0, 0, 0, 0, 0.2}},
		{UserID: 1, PaperID: "c", Features: []float64{0, 0, 0, 0, 0.3}},
	}}

	ds, err := BuildDataset(context.Background(), repo, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"a", "b"}, ds.PaperIDs)
}

func TestTrainEmptyDatasetFails(t *testing.T) {
	_, err := Train(Dataset{}, DefaultTrainConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestTrainRejectsInconsistentRows(t *testing.T) {
	ds := Dataset{
		X: [][]float64{{1, 2, 3}, {1, 2}},
		Y: []float64{1, 0},
	}

	_, err := Train(ds, DefaultTrainConfig())
	require.Error(t, err)
}

func TestTrainRejectsInvalidConfig(t *testing.T) {
	ds := Dataset{X: [][]float64{{1}}, Y: []float64{1}}

	for _, cfg := range []TrainConfig{
		{Epochs: 0, BatchSize: 1, LearningRate: 0.1},
		{Epochs: 1, BatchSize: 0, LearningRate: 0.1},
		{Epochs: 1, BatchSize: 1, LearningRate: 0},
	} {
		_, err := Train(ds, cfg)
		assert.Error(t, err)
	}
}

// synthetic dataset whose reward is a fixed linear function of the features
func syntheticLinearDataset(n int, seed int64) Dataset {
	rng := rand.New(rand.NewSource(seed))

	ds := Dataset{
		X: make([][]float64, 0, n),
		Y: make([]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		x := make([]float64, FeatureDim)
		for j := range x {
			x[j] = rng.Float64()
		}
		y := 0.5*x[ColKeyword] + 1.5*x[ColRuleTotal] + 0.2
		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, y)
	}
	return ds
}

func TestTrainLinearConverges(t *testing.T) {
	ds := syntheticLinearDataset(512, 7)

	cfg := TrainConfig{Epochs: 400, BatchSize: 64, LearningRate: 0.05, HiddenDim: 0, Seed: 42}
	m, err := Train(ds, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, m.Version)
	require.NoError(t, m.Validate(FeatureDim))

	mse := 0.0
	for i, x := range ds.X {
		diff := m.Forward(x) - ds.Y[i]
		mse += diff * diff
	}
	mse /= float64(ds.Len())

	assert.Less(t, mse, 0.01)
}

func TestTrainHiddenLayerFitsTrainingSet(t *testing.T) {
	ds := syntheticLinearDataset(512, 11)

	cfg := TrainConfig{Epochs: 400, BatchSize: 64, LearningRate: 0.05, HiddenDim: 16, Seed: 42}
	m, err := Train(ds, cfg)
	require.NoError(t, err)
	require.NoError(t, m.Validate(FeatureDim))

	mse := 0.0
	for i, x := range ds.X {
		diff := m.Forward(x) - ds.Y[i]
		mse += diff * diff
	}
	mse /= float64(ds.Len())

	assert.Less(t, mse, 0.05)
}

func TestTrainDeterministicGivenSeed(t *testing.T) {
	ds := syntheticLinearDataset(128, 3)
	cfg := TrainConfig{Epochs: 20, BatchSize: 32, LearningRate: 0.05, Seed: 42}

	m1, err := Train(ds, cfg)
	require.NoError(t, err)
	m2, err := Train(ds, cfg)
	require.NoError(t, err)

	assert.Equal(t, m1.W1, m2.W1)
	assert.Equal(t, m1.B1, m2.B1)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := &ModelParams{
		Version:   "20260301T000000Z",
		InputDim:  FeatureDim,
		HiddenDim: 2,
		W1:        [][]float64{{1, 2, 3, 4, 5}, {5, 4, 3, 2, 1}},
		B1:        []float64{0.1, -0.1},
		W2:        []float64{0.5, 0.5},
		B2:        0.25,
	}

	path, err := SaveModel(dir, m)
	require.NoError(t, err)
	assert.Contains(t, path, m.Version)

	got, err := LoadLatestModel(dir)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	x := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	assert.InDelta(t, m.Forward(x), got.Forward(x), 1e-12)
}

func TestSaveModelRequiresVersion(t *testing.T) {
	_, err := SaveModel(t.TempDir(), &ModelParams{InputDim: 1, W1: [][]float64{{1}}, B1: []float64{0}})
	require.Error(t, err)
}

func TestLoadLatestModelMissing(t *testing.T) {
	_, err := LoadLatestModel(t.TempDir())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	linear := &ModelParams{InputDim: 5, W1: [][]float64{{1, 2, 3, 4, 5}}, B1: []float64{0}}
	require.NoError(t, linear.Validate(5))
	assert.Error(t, linear.Validate(4))

	badRow := &ModelParams{InputDim: 5, W1: [][]float64{{1, 2}}, B1: []float64{0}}
	assert.Error(t, badRow.Validate(5))

	missingW2 := &ModelParams{
		InputDim:  5,
		HiddenDim: 2,
		W1:        [][]float64{{1, 2, 3, 4, 5}, {1, 2, 3, 4, 5}},
		B1:        []float64{0, 0},
	}
	assert.Error(t, missingW2.Validate(5))
}
