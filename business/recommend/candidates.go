package recommend

import (
	"context"
	"fmt"

	"paperScout/domain"
)

// How many papers each candidate source may contribute before dedup.
const candidatePerSourceLimit = 200

// candidatePool assembles the user's candidate set: papers in their interest
// categories first, recent papers as filler, minus everything they already
// bookmarked and minus the base paper when one is given.
func (s *Service) candidatePool(
	ctx context.Context,
	profile domain.UserProfile,
	excludeExternalID string,
) ([]domain.Paper, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	bookmarked := make(map[uint]struct{}, len(profile.BookmarkedPaperIDs))
	for _, id := range profile.BookmarkedPaperIDs {
		bookmarked[id] = struct{}{}
	}

	seen := make(map[uint]struct{})
	pool := make([]domain.Paper, 0, candidatePerSourceLimit)

	appendPapers := func(papers []domain.Paper) {
		for _, p := range papers {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}

			if _, ok := bookmarked[p.ID]; ok {
				continue
			}
			if excludeExternalID != "" && p.ExternalID() == excludeExternalID {
				continue
			}

			pool = append(pool, p)
		}
	}

	if len(profile.InterestsCategories) > 0 {
		byCategory, err := s.papers.GetByCategories(ctx, profile.InterestsCategories, candidatePerSourceLimit)
		if err != nil {
			return nil, fmt.Errorf("load category candidates: %w", err)
		}
		appendPapers(byCategory)
	}

	recent, err := s.papers.GetRecent(ctx, candidatePerSourceLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent candidates: %w", err)
	}
	appendPapers(recent)

	return pool, nil
}
