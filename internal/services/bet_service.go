package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"paperboy/internal/models"
)

// Sentinel errors the bet handler maps to client responses
var (
	ErrMarketResolved     = errors.New("market has already resolved")
	ErrOptionNotFound     = errors.New("selected option not found")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// BetService sequences wager placement: validation, balance debit,
// bet persistence and the price rebalance.
type BetService struct {
	db      *gorm.DB
	pricing *PricingService
}

// NewBetService creates a new BetService
func NewBetService(db *gorm.DB, pricing *PricingService) *BetService {
	return &BetService{db: db, pricing: pricing}
}

// PlaceBet validates and records a wager, debits the user's points
// and rebalances the question's prices. Returns the created bet and
// the user's new balance.
//
// The user/question loads and the bet/user saves are concurrent pairs
// for latency only; no lock spans the read-check-debit-write chain,
// so near-simultaneous bets can race. A rebalancing failure after the
// bet has committed is logged and swallowed, leaving the bet recorded
// and the prices unchanged.
func (s *BetService) PlaceBet(userID, questionID uint, selectedOptionName string, betAmount int) (*models.Bet, int, error) {
	var (
		user        models.User
		question    models.Question
		userErr     error
		questionErr error
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		userErr = s.db.First(&user, userID).Error
	}()
	go func() {
		defer wg.Done()
		questionErr = s.db.Preload("Options").First(&question, questionID).Error
	}()
	wg.Wait()

	if userErr != nil {
		if errors.Is(userErr, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to load user: %w", userErr)
	}
	if questionErr != nil {
		if errors.Is(questionErr, gorm.ErrRecordNotFound) {
			return nil, 0, ErrQuestionNotFound
		}
		return nil, 0, fmt.Errorf("failed to load question: %w", questionErr)
	}

	if question.Resolved() {
		return nil, 0, ErrMarketResolved
	}

	selected := question.FindOption(selectedOptionName)
	if selected == nil {
		return nil, 0, ErrOptionNotFound
	}

	if user.Points < betAmount {
		return nil, user.Points, ErrInsufficientPoints
	}

	// Snapshot the price before rebalancing moves it
	priceAtBet := selected.Price

	user.Points -= betAmount

	bet := models.Bet{
		UserID:             userID,
		QuestionID:         questionID,
		SelectedOptionName: selectedOptionName,
		BetAmount:          betAmount,
		PriceAtBet:         priceAtBet,
	}

	var betErr, saveErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		betErr = s.db.Create(&bet).Error
	}()
	go func() {
		defer wg.Done()
		saveErr = s.db.Save(&user).Error
	}()
	wg.Wait()

	if betErr != nil {
		return nil, 0, fmt.Errorf("failed to save bet: %w", betErr)
	}
	if saveErr != nil {
		return nil, 0, fmt.Errorf("failed to save user balance: %w", saveErr)
	}

	// The bet and debit are already committed; a rebalancing failure
	// is an accepted inconsistency, not a rollback trigger.
	if err := s.pricing.UpdateMarketPrices(questionID, selectedOptionName, betAmount); err != nil {
		log.Printf("Error updating market prices for question %d: %v", questionID, err)
	}

	log.Printf("Bet placed: user %d bet %d on %q. New balance: %d", userID, betAmount, selectedOptionName, user.Points)
	return &bet, user.Points, nil
}
