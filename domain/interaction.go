package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Closed set of interaction kinds the platform frontend reports. Unknown
// kinds are still stored; they just contribute no base reward.
const (
	ActionView     = "view"
	ActionClick    = "click"
	ActionBookmark = "bookmark"
	ActionClose    = "close"
)

// Interaction is one logged user action against a recommended paper.
// Written once, never updated; consumed by the reward model and the trainer.
type Interaction struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	UserID           uint              `gorm:"column:user_id;index;not null" json:"user_id"`
	PaperID          string            `gorm:"column:paper_id;not null" json:"paper_id"`
	ActionType       string            `gorm:"column:action_type;not null" json:"action_type"`
	DwellTime        *float64          `gorm:"column:dwell_time" json:"dwell_time,omitempty"` // seconds
	RecommendationID *string           `gorm:"column:recommendation_id;index" json:"recommendation_id,omitempty"`
	Position         *int              `gorm:"column:position" json:"position,omitempty"`
	Reward           float64           `gorm:"column:reward" json:"reward"`
	Meta             datatypes.JSONMap `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Interaction) TableName() string {
	return "recommendation_interactions"
}
