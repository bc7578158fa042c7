package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation modes recorded on exposure events.
const (
	ModeRuleBased = "rule_based"
	ModeHybrid    = "rule_based+bandit"
)

// RecommendationEvent is one exposure: a ranked batch actually shown to a
// user. The trainer later attributes rewards to its items.
type RecommendationEvent struct {
	ID        string                    `gorm:"primaryKey" json:"id"` // uuid
	UserID    uint                      `gorm:"column:user_id;index;not null" json:"user_id"`
	Mode      string                    `gorm:"column:mode;not null" json:"mode"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Items     []RecommendationEventItem `gorm:"foreignKey:EventID" json:"items"`
}

func (RecommendationEvent) TableName() string {
	return "recommendation_events"
}

// RecommendationEventItem stores the feature vector used at scoring time so
// the offline trainer never has to reconstruct historical profiles.
type RecommendationEventItem struct {
	ID       uint                         `gorm:"primaryKey" json:"id"`
	EventID  string                       `gorm:"column:event_id;index;not null" json:"event_id"`
	PaperID  string                       `gorm:"column:paper_id;not null" json:"paper_id"`
	Position int                          `gorm:"column:position;not null" json:"position"`
	Score    float64                      `gorm:"column:score" json:"score"`
	Features datatypes.JSONSlice[float64] `gorm:"column:features;type:jsonb" json:"features"`
}

func (RecommendationEventItem) TableName() string {
	return "recommendation_event_items"
}
