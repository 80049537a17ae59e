package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Valid question categories
var Categories = []string{
	"world", "politics", "business", "technology",
	"sports", "science", "entertainment", "health", "general",
}

// Question represents a news-driven prediction poll
type Question struct {
	ID                  uint                `gorm:"primaryKey" json:"id"`
	Title               string              `gorm:"size:500;not null" json:"title"`
	ArticleURL          string              `gorm:"size:1000;not null" json:"articleUrl"`
	Category            string              `gorm:"size:50;not null;index" json:"category"`
	ResolvingOptionName *string             `gorm:"size:255" json:"resolvingOptionName"`
	Options             []Option            `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
	PriceHistory        []PriceHistoryEntry `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"priceHistory"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// TableName specifies the table name for Question model
func (Question) TableName() string {
	return "questions"
}

// Resolved reports whether the market outcome has been finalized.
// No betting or rebalancing happens after that.
func (q *Question) Resolved() bool {
	return q.ResolvingOptionName != nil && *q.ResolvingOptionName != ""
}

// FindOption returns the option with the given name, or nil
func (q *Question) FindOption(name string) *Option {
	for i := range q.Options {
		if q.Options[i].Name == name {
			return &q.Options[i]
		}
	}
	return nil
}

// Snapshot captures the current (name, price) pairs in option order
func (q *Question) Snapshot() PriceSnapshots {
	prices := make(PriceSnapshots, 0, len(q.Options))
	for _, opt := range q.Options {
		prices = append(prices, PriceSnapshot{Name: opt.Name, Price: opt.Price})
	}
	return prices
}

// BeforeCreate seeds the initial price history entry for a new question
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if len(q.PriceHistory) == 0 && len(q.Options) > 0 {
		q.PriceHistory = []PriceHistoryEntry{{
			Timestamp: time.Now(),
			Prices:    q.Snapshot(),
		}}
	}
	return nil
}

// Option represents one selectable outcome of a question.
// Price is in cents of implied probability; all of a question's
// option prices sum to 100.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	QuestionID uint   `gorm:"not null;index" json:"-"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Price      int    `gorm:"not null;default:50" json:"price"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"-"`
}

// TableName specifies the table name for Option model
func (Option) TableName() string {
	return "options"
}

// PriceSnapshot is a single (option, price) pair inside a history entry
type PriceSnapshot struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// PriceSnapshots stores the full price vector as a JSON column
type PriceSnapshots []PriceSnapshot

func (p PriceSnapshots) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PriceSnapshots) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, p)
}

// PriceHistoryEntry is an append-only snapshot of all option prices
// at one moment, kept for charting. Never mutated after insertion.
type PriceHistoryEntry struct {
	ID         uint           `gorm:"primaryKey" json:"-"`
	QuestionID uint           `gorm:"not null;index" json:"-"`
	Timestamp  time.Time      `gorm:"not null" json:"timestamp"`
	Prices     PriceSnapshots `gorm:"type:jsonb" json:"prices"`
}

// TableName specifies the table name for PriceHistoryEntry model
func (PriceHistoryEntry) TableName() string {
	return "price_history_entries"
}
