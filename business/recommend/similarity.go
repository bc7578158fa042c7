package recommend

import (
	"paperScout/business/scoring"
	"paperScout/domain"
)

// Tiered "more like this" bonuses, added to a candidate's rule score when a
// base paper is part of the request. Category and keyword overlap count
// independently. Tunable policy, stable within a deployment.
const (
	categoryBonusTier3 = 0.30 // 3+ shared categories
	categoryBonusTier2 = 0.20
	categoryBonusTier1 = 0.10

	keywordBonusTier3 = 0.15 // 3+ shared keywords
	keywordBonusTier2 = 0.10
	keywordBonusTier1 = 0.05
)

// similarityBonus scores how close a candidate sits to the base paper by
// shared-tag cardinality alone. Zero when nothing overlaps.
func similarityBonus(base, candidate domain.Paper) float64 {
	sharedCats := sharedCount(base.Categories, candidate.Categories)
	sharedKWs := sharedCount(base.Keywords, candidate.Keywords)

	bonus := 0.0

	switch {
	case sharedCats >= 3:
		bonus += categoryBonusTier3
	case sharedCats == 2:
		bonus += categoryBonusTier2
	case sharedCats == 1:
		bonus += categoryBonusTier1
	}

	switch {
	case sharedKWs >= 3:
		bonus += keywordBonusTier3
	case sharedKWs == 2:
		bonus += keywordBonusTier2
	case sharedKWs == 1:
		bonus += keywordBonusTier1
	}

	return bonus
}

func sharedCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, raw := range a {
		if k := normalize(raw); k != "" {
			set[k] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(b))
	count := 0
	for _, raw := range b {
		k := normalize(raw)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := set[k]; ok {
			count++
		}
	}

	return count
}

func normalize(s string) string {
	tokens := scoring.TokenizeKeywords(s)
	if len(tokens) == 0 {
		return ""
	}

	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}
