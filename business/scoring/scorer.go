package scoring

import (
	"math"
	"paperScout/domain"
	"time"
)

// Scoring weights. Keyword and category dominate; popularity and recency are
// minor terms. These are deployment policy: stable within a deployment,
// tunable between them.
const (
	WeightKeyword    = 1.0
	WeightCategory   = 1.0
	WeightPopularity = 0.05
	WeightRecency    = 0.05

	// keyword interests: bookmark-derived vs search-derived split
	bookmarkKeywordWeight = 0.7
	searchKeywordWeight   = 0.3

	// category interests: explicitly selected vs inferred from bookmarks
	explicitCategoryWeight = 1.0
	inferredCategoryWeight = 0.5

	// popularity: (log1p(bookmarks)+log1p(views))/2 is normalized against
	// this ceiling before clipping to [0,1]
	popularityCeiling = 10.0

	recencyHalfLifeDays = 730.0
)

// Subscores holds the named rule sub-scores, each in [0,1].
type Subscores struct {
	Keyword    float64 `json:"keyword"`
	Category   float64 `json:"category"`
	Popularity float64 `json:"popularity"`
	Recency    float64 `json:"recency"`
}

// Score computes the rule-based relevance of a paper for a profile. Pure:
// same inputs always produce the same total and sub-scores, and missing
// optional fields simply contribute zero.
func Score(p domain.Paper, profile domain.UserProfile, now time.Time) (float64, Subscores) {
	subs := Subscores{
		Keyword:    keywordScore(p, profile),
		Category:   categoryScore(p, profile),
		Popularity: popularityScore(p),
		Recency:    recencyScore(p, now),
	}

	total := WeightKeyword*subs.Keyword +
		WeightCategory*subs.Category +
		WeightPopularity*subs.Popularity +
		WeightRecency*subs.Recency

	return total, subs
}

// keywordScore blends the overlap of the paper's keyword surface (tags plus
// title/abstract tokens) against the bookmark-derived and search-derived
// interest sets. An empty side contributes nothing.
func keywordScore(p domain.Paper, profile domain.UserProfile) float64 {
	paperKW := make(map[string]struct{}, len(p.Keywords))
	for _, k := range p.Keywords {
		paperKW[normalizeText(k)] = struct{}{}
	}
	for _, t := range TokenizeKeywords(p.Title) {
		paperKW[t] = struct{}{}
	}
	for _, t := range TokenizeKeywords(p.Abstract) {
		paperKW[t] = struct{}{}
	}
	delete(paperKW, "")

	if len(paperKW) == 0 {
		return 0.0
	}

	score := 0.0
	if frac, ok := overlapFraction(profile.InterestsKeywords, paperKW); ok {
		score += bookmarkKeywordWeight * frac
	}
	if frac, ok := overlapFraction(profile.SearchKeywords, paperKW); ok {
		score += searchKeywordWeight * frac
	}

	return clip01(score)
}

// categoryScore weights explicitly selected categories above the ones merely
// inferred from bookmarks. When an explicit set exists the inferred set is
// redefined as the complement, so no category is counted twice.
func categoryScore(p domain.Paper, profile domain.UserProfile) float64 {
	paperCats := make(map[string]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		paperCats[normalizeText(c)] = struct{}{}
	}

	if len(profile.ExplicitCategories) == 0 {
		frac, ok := overlapFraction(profile.InterestsCategories, paperCats)
		if !ok {
			return 0.0
		}
		return clip01(frac)
	}

	explicit := make(map[string]struct{}, len(profile.ExplicitCategories))
	for _, c := range profile.ExplicitCategories {
		explicit[c] = struct{}{}
	}

	inferred := make([]string, 0, len(profile.InterestsCategories))
	for _, c := range profile.InterestsCategories {
		if _, ok := explicit[c]; !ok {
			inferred = append(inferred, c)
		}
	}

	score := 0.0
	if frac, ok := overlapFraction(profile.ExplicitCategories, paperCats); ok {
		score += explicitCategoryWeight * frac
	}
	if frac, ok := overlapFraction(inferred, paperCats); ok {
		score += inferredCategoryWeight * frac
	}

	return clip01(score)
}

// popularityScore damps outliers with log1p before normalizing.
func popularityScore(p domain.Paper) float64 {
	b := float64(max(p.BookmarkCount, 0))
	v := float64(max(p.ViewCount, 0))

	raw := (math.Log1p(b) + math.Log1p(v)) / 2.0
	return clip01(raw / popularityCeiling)
}

// recencyScore decays exponentially with a two-year half-life. Papers
// without an update timestamp score zero.
func recencyScore(p domain.Paper, now time.Time) float64 {
	if p.UpdateDate == nil {
		return 0.0
	}

	days := now.Sub(*p.UpdateDate).Hours() / 24.0
	if days < 0 {
		days = 0
	}

	return math.Pow(0.5, days/recencyHalfLifeDays)
}

// overlapFraction returns |interests ∩ candidate| / |interests|. The second
// return is false when either side is empty.
func overlapFraction(interests []string, candidate map[string]struct{}) (float64, bool) {
	if len(interests) == 0 || len(candidate) == 0 {
		return 0.0, false
	}

	seen := make(map[string]struct{}, len(interests))
	hits := 0
	for _, raw := range interests {
		k := normalizeText(raw)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := candidate[k]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(seen)), true
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
