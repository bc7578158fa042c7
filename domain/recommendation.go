package domain

// Named score components carried on every scored paper for explainability.
const (
	ScoreKeyword         = "keyword"
	ScoreCategory        = "category"
	ScorePopularity      = "popularity"
	ScoreRecency         = "recency"
	ScoreRuleTotal       = "rule_total"
	ScoreSimilarityBonus = "similarity_bonus"
	ScoreBandit          = "bandit"
)

type ScoreComponent struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ScoredPaper pairs a candidate with its current ranking score and the
// ordered list of components that produced it. Components are appended,
// never overwritten, so the full provenance survives reranking.
type ScoredPaper struct {
	Paper      Paper            `json:"paper"`
	Score      float64          `json:"score"`
	Components []ScoreComponent `json:"components"`
}

// Append returns a copy with the component recorded. The active score is
// untouched.
func (s ScoredPaper) Append(name string, value float64) ScoredPaper {
	out := s
	out.Components = make([]ScoreComponent, 0, len(s.Components)+1)
	out.Components = append(out.Components, s.Components...)
	out.Components = append(out.Components, ScoreComponent{Name: name, Value: value})
	return out
}

// Rescored returns a copy with the component recorded and the active score
// replaced by its value.
func (s ScoredPaper) Rescored(name string, value float64) ScoredPaper {
	out := s.Append(name, value)
	out.Score = value
	return out
}

// Component returns the value of the named component, if present. Later
// entries win, matching append order.
func (s ScoredPaper) Component(name string) (float64, bool) {
	for i := len(s.Components) - 1; i >= 0; i-- {
		if s.Components[i].Name == name {
			return s.Components[i].Value, true
		}
	}
	return 0, false
}

// ComponentMap flattens the component list for JSON consumers that want a
// breakdown object rather than an ordered list.
func (s ScoredPaper) ComponentMap() map[string]float64 {
	out := make(map[string]float64, len(s.Components))
	for _, c := range s.Components {
		out[c.Name] = c.Value
	}
	return out
}
