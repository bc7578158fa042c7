package domain

import "time"

// UserProfile aggregates a user's interest signals. Built once per
// recommendation request; the core only ever reads it.
//
// InterestsCategories is the full category interest set. ExplicitCategories
// is the subset the user picked directly; the remainder is inferred from
// bookmarks and weighted lower by the scorer.
type UserProfile struct {
	UserID              uint     `json:"user_id"`
	InterestsKeywords   []string `json:"interests_keywords"` // bookmark-derived
	SearchKeywords      []string `json:"search_keywords"`    // tokenized from recent queries
	InterestsCategories []string `json:"interests_categories"`
	ExplicitCategories  []string `json:"explicit_categories,omitempty"`
	BookmarkedPaperIDs  []uint   `json:"bookmarked_paper_ids"`
	SearchQueries       []string `json:"search_queries"`
}

type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	PaperID   uint      `gorm:"column:paper_id;not null" json:"paper_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

type SearchHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	Query      string    `gorm:"column:query;not null" json:"query"`
	SearchedAt time.Time `gorm:"column:searched_at" json:"searched_at"`
}

func (SearchHistory) TableName() string {
	return "search_histories"
}

// UserInterest is a category the user selected directly in their settings.
type UserInterest struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	Category string `gorm:"column:category;not null" json:"category"`
}

func (UserInterest) TableName() string {
	return "user_interests"
}
