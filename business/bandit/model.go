package bandit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const latestArtifactName = "bandit_policy_latest.json"

// ModelParams are the learned bandit policy parameters: a single linear map
// to a scalar, optionally preceded by one ReLU hidden layer. Immutable once
// loaded; a retrain produces a new value that is swapped in whole.
//
// Linear form: HiddenDim == 0, W1 is 1×InputDim, B1 has one entry.
// MLP form: W1 is HiddenDim×InputDim, B1 has HiddenDim entries, W2 maps the
// hidden activations to the scalar output.
type ModelParams struct {
	Version   string      `json:"version"`
	InputDim  int         `json:"input_dim"`
	HiddenDim int         `json:"hidden_dim"`
	W1        [][]float64 `json:"w1"`
	B1        []float64   `json:"b1"`
	W2        []float64   `json:"w2,omitempty"`
	B2        float64     `json:"b2,omitempty"`
}

// Validate checks internal consistency and that the parameters accept
// inputDim-wide rows. A mismatch is a configuration error for the trainer
// but merely "no model available" for the serving loader.
func (m *ModelParams) Validate(inputDim int) error {
	if m.InputDim != inputDim {
		return fmt.Errorf("model expects input dim %d, got %d", m.InputDim, inputDim)
	}

	rows := 1
	if m.HiddenDim > 0 {
		rows = m.HiddenDim
	}

	if len(m.W1) != rows || len(m.B1) != rows {
		return fmt.Errorf("malformed first layer: want %d rows, have w1=%d b1=%d", rows, len(m.W1), len(m.B1))
	}
	for i, row := range m.W1 {
		if len(row) != m.InputDim {
			return fmt.Errorf("malformed first layer: row %d has width %d, want %d", i, len(row), m.InputDim)
		}
	}

	if m.HiddenDim > 0 && len(m.W2) != m.HiddenDim {
		return fmt.Errorf("malformed output layer: w2 has width %d, want %d", len(m.W2), m.HiddenDim)
	}

	return nil
}

// Forward runs one row through the network and returns the predicted score.
func (m *ModelParams) Forward(x []float64) float64 {
	if m.HiddenDim == 0 {
		return dot(m.W1[0], x) + m.B1[0]
	}

	h := matVecMul(m.W1, x)
	addScaled(h, m.B1, 1.0)
	h = relu(h)
	return dot(m.W2, h) + m.B2
}

// SaveModel persists the parameters as a versioned JSON artifact and then
// rewrites the "latest" pointer file, so a torn write of the versioned file
// never corrupts what lazy loaders pick up.
func SaveModel(dir string, m *ModelParams) (string, error) {
	if m.Version == "" {
		return "", fmt.Errorf("model version is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model dir: %w", err)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model: %w", err)
	}

	versioned := filepath.Join(dir, fmt.Sprintf("bandit_policy_%s.json", m.Version))
	if err := os.WriteFile(versioned, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write model artifact: %w", err)
	}

	latest := filepath.Join(dir, latestArtifactName)
	tmp := latest + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write latest artifact: %w", err)
	}
	if err := os.Rename(tmp, latest); err != nil {
		return "", fmt.Errorf("failed to publish latest artifact: %w", err)
	}

	return versioned, nil
}

// LoadLatestModel reads the current artifact. Callers treat any error as
// "no model available", not as a crash.
func LoadLatestModel(dir string) (*ModelParams, error) {
	raw, err := os.ReadFile(filepath.Join(dir, latestArtifactName))
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var m ModelParams
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model artifact: %w", err)
	}

	return &m, nil
}
