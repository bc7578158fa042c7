package postgres

import (
	"context"
	"fmt"

	"paperScout/business/bandit"
	"paperScout/domain"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{
		DB: db,
	}
}

func (r *InteractionRepository) SaveInteraction(ctx context.Context, in *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(in).Error; err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}

	return nil
}

// SaveExposure writes the event and its items atomically.
func (r *InteractionRepository) SaveExposure(ctx context.Context, event domain.RecommendationEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save recommendation event: %w", err)
	}

	return nil
}

// ListExposureSamples joins exposure items with the interaction logged for
// the same (recommendation, paper) pair, if any. Items with no interaction
// come back with a nil Interaction: the trainer treats them as implicit
// negatives. The limit bounds the events read, so more samples than limit
// can come back; the trainer applies the exact sample cap.
func (r *InteractionRepository) ListExposureSamples(ctx context.Context, limit int) ([]bandit.ExposureSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.RecommendationEvent
	q := r.DB.WithContext(ctx).Preload("Items").Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load recommendation events: %w", err)
	}

	if len(events) == 0 {
		return []bandit.ExposureSample{}, nil
	}

	eventIDs := make([]string, 0, len(events))
	for _, ev := range events {
		eventIDs = append(eventIDs, ev.ID)
	}

	var interactions []domain.Interaction
	err := r.DB.WithContext(ctx).
		Find(&interactions, "recommendation_id IN ?", eventIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	type key struct {
		eventID string
		paperID string
	}

	byItem := make(map[key]*domain.Interaction, len(interactions))
	for i := range interactions {
		in := &interactions[i]
		if in.RecommendationID == nil {
			continue
		}
		byItem[key{eventID: *in.RecommendationID, paperID: in.PaperID}] = in
	}

	samples := make([]bandit.ExposureSample, 0, len(events)*4)
	for _, ev := range events {
		for _, item := range ev.Items {
			samples = append(samples, bandit.ExposureSample{
				UserID:      ev.UserID,
				PaperID:     item.PaperID,
				Features:    item.Features,
				Interaction: byItem[key{eventID: ev.ID, paperID: item.PaperID}],
			})
		}
	}

	return samples, nil
}
