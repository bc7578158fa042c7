package postgres

import (
	"context"
	"fmt"
	"sort"

	"paperScout/business/scoring"
	"paperScout/domain"

	"gorm.io/gorm"
)

// How many recent queries feed the search-derived keyword set.
const searchQueryLimit = 20

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		DB: db,
	}
}

// BuildUserProfile aggregates one user's interest signals: categories and
// keywords from bookmarked papers, keywords tokenized from recent search
// queries, and the categories they selected explicitly.
func (r *ProfileRepository) BuildUserProfile(ctx context.Context, userID uint) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("context error: %w", err)
	}

	var bookmarks []domain.Bookmark
	if err := r.DB.WithContext(ctx).Find(&bookmarks, "user_id = ?", userID).Error; err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	bookmarkedIDs := make([]uint, 0, len(bookmarks))
	for _, b := range bookmarks {
		bookmarkedIDs = append(bookmarkedIDs, b.PaperID)
	}

	var bookmarkedPapers []domain.Paper
	if len(bookmarkedIDs) > 0 {
		if err := r.DB.WithContext(ctx).Find(&bookmarkedPapers, "id IN ?", bookmarkedIDs).Error; err != nil {
			return domain.UserProfile{}, fmt.Errorf("failed to load bookmarked papers: %w", err)
		}
	}

	catSet := make(map[string]struct{})
	kwSet := make(map[string]struct{})
	for _, p := range bookmarkedPapers {
		for _, c := range p.Categories {
			catSet[c] = struct{}{}
		}
		for _, k := range p.Keywords {
			kwSet[k] = struct{}{}
		}
	}

	var history []domain.SearchHistory
	err := r.DB.WithContext(ctx).
		Order("searched_at DESC").
		Limit(searchQueryLimit).
		Find(&history, "user_id = ?", userID).Error
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to load search history: %w", err)
	}

	queries := make([]string, 0, len(history))
	searchKWSet := make(map[string]struct{})
	for _, h := range history {
		if h.Query == "" {
			continue
		}
		queries = append(queries, h.Query)
		for _, t := range scoring.TokenizeKeywords(h.Query) {
			searchKWSet[t] = struct{}{}
		}
	}

	var interests []domain.UserInterest
	if err := r.DB.WithContext(ctx).Find(&interests, "user_id = ?", userID).Error; err != nil {
		return domain.UserProfile{}, fmt.Errorf("failed to load user interests: %w", err)
	}

	explicit := make([]string, 0, len(interests))
	for _, it := range interests {
		explicit = append(explicit, it.Category)
		catSet[it.Category] = struct{}{}
	}
	sort.Strings(explicit)

	return domain.UserProfile{
		UserID:              userID,
		InterestsKeywords:   sortedKeys(kwSet),
		SearchKeywords:      sortedKeys(searchKWSet),
		InterestsCategories: sortedKeys(catSet),
		ExplicitCategories:  explicit,
		BookmarkedPaperIDs:  bookmarkedIDs,
		SearchQueries:       queries,
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
