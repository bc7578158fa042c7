package bandit

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"paperScout/pkg/logger"
	"paperScout/pkg/metrics"
)

// Predictor scores a feature matrix, one scalar per row.
type Predictor interface {
	Predict(X [][]float64) []float64
	Name() string
}

// trainedScorer runs the loaded model's forward pass over the batch.
type trainedScorer struct {
	params *ModelParams
}

func (t *trainedScorer) Predict(X [][]float64) []float64 {
	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = t.params.Forward(row)
	}
	return scores
}

func (t *trainedScorer) Name() string {
	return "trained:" + t.params.Version
}

// fallbackScorer returns the last column, which is the rule-based total by
// the feature schema contract. Its output ordering is indistinguishable from
// bypassing the policy entirely, so callers never special-case it.
type fallbackScorer struct{}

func (fallbackScorer) Predict(X [][]float64) []float64 {
	scores := make([]float64, len(X))
	for i, row := range X {
		scores[i] = row[len(row)-1]
	}
	return scores
}

func (fallbackScorer) Name() string {
	return "fallback"
}

// Policy is the serving-side bandit. The predictor is chosen exactly once
// per process, lazily on the first prediction, keyed by the observed input
// dimensionality: a usable artifact yields the trained scorer, anything else
// the deterministic fallback. Reload swaps in a freshly loaded parameter set
// atomically, so in-flight predictions never observe a half-updated model.
type Policy struct {
	modelDir string

	mu     sync.Mutex
	active atomic.Pointer[Predictor]
}

func NewPolicy(modelDir string) *Policy {
	return &Policy{modelDir: modelDir}
}

// Predict scores the feature matrix. An empty matrix yields an empty score
// vector, never an error.
func (p *Policy) Predict(X [][]float64) []float64 {
	if len(X) == 0 {
		return []float64{}
	}

	return (*p.load(len(X[0]))).Predict(X)
}

// SelectTopK returns row indices ordered by score descending, truncated to
// min(k, N). Ties keep the original candidate order.
func (p *Policy) SelectTopK(X [][]float64, k int) []int {
	scores := p.Predict(X)
	if len(scores) == 0 || k <= 0 {
		return []int{}
	}

	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})

	if k > len(indices) {
		k = len(indices)
	}
	return indices[:k]
}

// ModelVersion reports the loaded artifact version, or "" when serving the
// fallback or not yet loaded.
func (p *Policy) ModelVersion() string {
	active := p.active.Load()
	if active == nil {
		return ""
	}
	if t, ok := (*active).(*trainedScorer); ok {
		return t.params.Version
	}
	return ""
}

// Loaded reports whether the one-shot predictor selection has happened.
func (p *Policy) Loaded() bool {
	return p.active.Load() != nil
}

// Reload loads the current artifact and swaps it in. Unlike the lazy load,
// failure here is surfaced: the caller asked for a specific transition. The
// previous predictor keeps serving on failure.
func (p *Policy) Reload(inputDim int) error {
	params, err := LoadLatestModel(p.modelDir)
	if err != nil {
		return fmt.Errorf("reload bandit model: %w", err)
	}
	if err := params.Validate(inputDim); err != nil {
		return fmt.Errorf("reload bandit model: %w", err)
	}

	var pred Predictor = &trainedScorer{params: params}
	p.active.Store(&pred)
	metrics.FallbackServing.Set(0)

	logger.Info("bandit model reloaded", "version", params.Version, "input_dim", params.InputDim)
	return nil
}

func (p *Policy) load(inputDim int) *Predictor {
	if active := p.active.Load(); active != nil {
		return active
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if active := p.active.Load(); active != nil {
		return active
	}

	var pred Predictor

	params, err := LoadLatestModel(p.modelDir)
	if err == nil {
		err = params.Validate(inputDim)
	}
	if err != nil {
		// expected steady state before the first training run
		logger.Info("bandit model unavailable, serving rule-based fallback", "reason", err)
		pred = fallbackScorer{}
		metrics.FallbackServing.Set(1)
	} else {
		logger.Info("bandit model loaded", "version", params.Version, "input_dim", params.InputDim)
		pred = &trainedScorer{params: params}
		metrics.FallbackServing.Set(0)
	}

	p.active.Store(&pred)
	return &pred
}
