package models

import (
	"time"
)

// Bet represents a wager of points on one option of a question.
// Immutable once created.
type Bet struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"userId"`
	User               *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	QuestionID         uint      `gorm:"not null;index" json:"questionId"`
	Question           *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	SelectedOptionName string    `gorm:"size:255;not null" json:"selectedOptionName"`
	BetAmount          int       `gorm:"not null" json:"betAmount"`
	// Price of the selected option at the time the bet was placed,
	// never recomputed later.
	PriceAtBet int       `gorm:"not null" json:"priceAtBet"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for Bet model
func (Bet) TableName() string {
	return "bets"
}
