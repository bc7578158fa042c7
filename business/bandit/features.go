package bandit

import (
	"paperScout/business/scoring"
	"paperScout/domain"
	"time"
)

// Frozen feature schema. Column order is part of the serving/training
// contract: a trained model is only valid against the exact layout it was
// trained on, and the fallback predictor reads ColRuleTotal by position.
const (
	ColKeyword = iota
	ColCategory
	ColPopularity
	ColRecency
	ColRuleTotal

	FeatureDim = 5
)

// BuildFeatures turns candidates into an N×5 feature matrix by invoking the
// rule scorer per paper. Returns the matrix, the external paper ids in row
// order, and the sub-scores per row. No candidates is a valid state: the
// result is a 0×5 matrix, not an error.
func BuildFeatures(
	profile domain.UserProfile,
	candidates []domain.Paper,
	now time.Time,
) ([][]float64, []string, []scoring.Subscores) {

	X := make([][]float64, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	subs := make([]scoring.Subscores, 0, len(candidates))

	for _, p := range candidates {
		total, s := scoring.Score(p, profile, now)

		row := make([]float64, FeatureDim)
		row[ColKeyword] = s.Keyword
		row[ColCategory] = s.Category
		row[ColPopularity] = s.Popularity
		row[ColRecency] = s.Recency
		row[ColRuleTotal] = total

		X = append(X, row)
		ids = append(ids, p.ExternalID())
		subs = append(subs, s)
	}

	return X, ids, subs
}
