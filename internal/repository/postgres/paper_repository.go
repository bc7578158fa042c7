package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"paperScout/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaperRepository struct {
	DB *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{
		DB: db,
	}
}

// GetByExternalID resolves by arXiv id first, falling back to the storage
// id. Not found is (nil, nil): the caller decides whether that matters.
func (r *PaperRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var paper domain.Paper

	err := r.DB.WithContext(ctx).First(&paper, "arxiv_id = ?", externalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the storage-id fallback only makes sense for numeric ids; an
		// arXiv-style id would fail the bigint cast inside Postgres
		id, ok := numericID(externalID)
		if !ok {
			return nil, nil
		}
		err = r.DB.WithContext(ctx).First(&paper, "id = ?", id).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find paper: %w", err)
	}

	return &paper, nil
}

// numericID reports whether an external id can double as a storage id.
func numericID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil
}

func (r *PaperRepository) GetRecent(ctx context.Context, limit int) ([]domain.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var papers []domain.Paper
	err := r.DB.WithContext(ctx).
		Order("update_date DESC NULLS LAST").
		Limit(limit).
		Find(&papers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent papers: %w", err)
	}

	return papers, nil
}

// GetByCategories matches papers whose jsonb categories array contains any
// of the given categories, newest first.
func (r *PaperRepository) GetByCategories(ctx context.Context, categories []string, limit int) ([]domain.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(categories) == 0 {
		return []domain.Paper{}, nil
	}

	cond := r.DB.Where(datatypes.JSONArrayQuery("categories").Contains(categories[0]))
	for _, c := range categories[1:] {
		cond = cond.Or(datatypes.JSONArrayQuery("categories").Contains(c))
	}

	var papers []domain.Paper
	err := r.DB.WithContext(ctx).
		Where(cond).
		Order("update_date DESC NULLS LAST").
		Limit(limit).
		Find(&papers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find papers by categories: %w", err)
	}

	return papers, nil
}
