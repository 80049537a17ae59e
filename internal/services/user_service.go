package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paperboy/internal/models"
)

// UserService handles profile, stats and leaderboard logic
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// LeaderboardEntry is one row of the accuracy leaderboard
type LeaderboardEntry struct {
	Username string          `json:"username"`
	Accuracy decimal.Decimal `json:"accuracy"`
}

// Profile bundles everything the profile page shows
type Profile struct {
	User        *models.User       `json:"user"`
	Stats       models.UserStats   `json:"stats"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	UserRank    int                `json:"userRank"`
}

// GetProfile returns the user's profile, quiz stats, the full
// accuracy leaderboard and the user's rank within it.
func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var stats models.UserStats
	if err := s.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load stats: %w", err)
		}
		stats = models.UserStats{UserID: userID}
	}

	leaderboard, err := s.Leaderboard()
	if err != nil {
		return nil, err
	}

	userRank := 0
	for i, entry := range leaderboard {
		if entry.Username == user.Username {
			userRank = i + 1
			break
		}
	}

	return &Profile{
		User:        &user,
		Stats:       stats,
		Leaderboard: leaderboard,
		UserRank:    userRank,
	}, nil
}

// Leaderboard ranks all users with stats by answer accuracy, descending
func (s *UserService) Leaderboard() ([]LeaderboardEntry, error) {
	var allStats []models.UserStats
	if err := s.db.Preload("User").Find(&allStats).Error; err != nil {
		return nil, fmt.Errorf("failed to load leaderboard stats: %w", err)
	}

	leaderboard := make([]LeaderboardEntry, 0, len(allStats))
	for _, st := range allStats {
		username := "Unknown User"
		if st.User != nil {
			username = st.User.Username
		}

		accuracy := decimal.Zero
		if st.Attempted > 0 {
			accuracy = decimal.NewFromInt(int64(st.Correct)).
				Div(decimal.NewFromInt(int64(st.Attempted))).
				Mul(decimal.NewFromInt(100))
		}

		leaderboard = append(leaderboard, LeaderboardEntry{
			Username: username,
			Accuracy: accuracy,
		})
	}

	sort.SliceStable(leaderboard, func(i, j int) bool {
		return leaderboard[i].Accuracy.GreaterThan(leaderboard[j].Accuracy)
	})

	return leaderboard, nil
}

// RecordAnswer increments the user's attempted counter, and the
// correct counter when the answer was right. Stats rows are created
// lazily on first answer.
func (s *UserService) RecordAnswer(userID uint, correct bool) error {
	var stats models.UserStats
	err := s.db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.UserStats{UserID: userID}
		if err := s.db.Create(&stats).Error; err != nil {
			return fmt.Errorf("failed to create stats: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	stats.Attempted++
	if correct {
		stats.Correct++
	}

	return s.db.Save(&stats).Error
}
