package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"paperboy/internal/market"
	"paperboy/internal/models"
)

// PricingService applies post-bet price rebalancing to questions and
// records the resulting price history.
type PricingService struct {
	db *gorm.DB
}

// NewPricingService creates a new PricingService
func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// UpdateMarketPrices loads the question, runs the rebalancer for the
// wager and persists the new price vector plus one history snapshot.
//
// Resolved markets and questions with fewer than two options are left
// untouched. Load/save failures are returned so the caller can log
// them; the caller never rolls back the bet that triggered the update.
func (s *PricingService) UpdateMarketPrices(questionID uint, boughtOptionName string, betAmount int) error {
	var question models.Question
	err := s.db.Preload("Options").First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	if question.Resolved() {
		return nil
	}

	if !market.Rebalance(question.Options, boughtOptionName, betAmount) {
		return nil
	}

	entry := models.PriceHistoryEntry{
		QuestionID: question.ID,
		Timestamp:  time.Now(),
		Prices:     question.Snapshot(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range question.Options {
			if err := tx.Save(&question.Options[i]).Error; err != nil {
				return fmt.Errorf("failed to save option %q: %w", question.Options[i].Name, err)
			}
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("failed to persist rebalanced prices for question %d: %w", questionID, err)
	}

	log.Printf("Prices updated for question %d: %s", questionID, formatPrices(question.Options))
	return nil
}

func formatPrices(options []models.Option) string {
	out := ""
	for i, opt := range options {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %d¢", opt.Name, opt.Price)
	}
	return out
}
