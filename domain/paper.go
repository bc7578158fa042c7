package domain

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Paper is a read-only row from the platform's papers table. Loaded once per
// scoring pass and never mutated by the recommendation core.
type Paper struct {
	ID            uint                         `gorm:"primaryKey" json:"id"`
	ArxivID       string                       `gorm:"column:arxiv_id;uniqueIndex" json:"arxiv_id"`
	Title         string                       `gorm:"column:title" json:"title"`
	Abstract      string                       `gorm:"column:abstract" json:"abstract"`
	Authors       string                       `gorm:"column:authors" json:"authors"`
	Categories    datatypes.JSONSlice[string]  `gorm:"column:categories;type:jsonb" json:"categories"`
	Keywords      datatypes.JSONSlice[string]  `gorm:"column:keywords;type:jsonb" json:"keywords"`
	UpdateDate    *time.Time                   `gorm:"column:update_date" json:"update_date,omitempty"`
	BookmarkCount int                          `gorm:"column:bookmark_count" json:"bookmark_count"`
	ViewCount     int                          `gorm:"column:view_count" json:"view_count"`
	Summary       datatypes.JSONMap            `gorm:"column:summary;type:jsonb" json:"summary,omitempty"`
	Embedding     datatypes.JSONSlice[float64] `gorm:"column:embedding_vector;type:jsonb" json:"-"`
}

func (Paper) TableName() string {
	return "papers"
}

// ExternalID prefers the public arXiv id over the storage id.
func (p Paper) ExternalID() string {
	if p.ArxivID != "" {
		return p.ArxivID
	}
	return strconv.FormatUint(uint64(p.ID), 10)
}
