package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"gorm.io/gorm"

	"paperboy/internal/models"
)

// ErrQuestionNotFound is returned for unknown question IDs
var ErrQuestionNotFound = errors.New("question not found")

const questionPageSize = 10

// QuestionService handles question listing, lookup and chart shaping
type QuestionService struct {
	db *gorm.DB
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// ListQuestions returns questions for a category tab: "all" is a
// random sample of 10, "trending" shuffles the whole collection and
// takes the first 10, anything else filters by exact category.
func (s *QuestionService) ListQuestions(category string) ([]models.Question, error) {
	category = strings.ToLower(category)
	if category == "" {
		category = "all"
	}

	var questions []models.Question

	switch category {
	case "all":
		err := s.db.Preload("Options").Preload("PriceHistory").
			Order("RANDOM()").Limit(questionPageSize).
			Find(&questions).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch questions: %w", err)
		}
	case "trending":
		err := s.db.Preload("Options").Preload("PriceHistory").
			Find(&questions).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch questions: %w", err)
		}
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
		if len(questions) > questionPageSize {
			questions = questions[:questionPageSize]
		}
	default:
		err := s.db.Preload("Options").Preload("PriceHistory").
			Where("category = ?", category).
			Find(&questions).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch questions: %w", err)
		}
	}

	return questions, nil
}

// GetQuestion returns a question with its options and price history
func (s *QuestionService) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	err := s.db.Preload("Options").
		Preload("PriceHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ChartDataset is one option's line in the price history chart
type ChartDataset struct {
	Label           string  `json:"label"`
	Data            []*int  `json:"data"`
	BorderColor     string  `json:"borderColor"`
	BackgroundColor string  `json:"backgroundColor"`
	Fill            bool    `json:"fill"`
	Tension         float64 `json:"tension"`
}

// ChartData is the {labels, datasets} payload consumed directly by
// the frontend's charting library
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

var namedColors = map[string]string{
	"Yes": "#34d399",
	"No":  "#f87171",
}

var defaultColors = []string{"#34d399", "#60a5fa", "#f87171", "#c084fc"}

// PriceHistoryChart shapes a question's price history for charting:
// one label per history entry, one dataset per option, nil for
// entries missing that option's price.
func (s *QuestionService) PriceHistoryChart(id uint) (*ChartData, error) {
	question, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(question.PriceHistory))
	for _, entry := range question.PriceHistory {
		labels = append(labels, entry.Timestamp.Format("Jan 2, 3:04 PM"))
	}

	datasets := make([]ChartDataset, 0, len(question.Options))
	for i, option := range question.Options {
		data := make([]*int, 0, len(question.PriceHistory))
		for _, entry := range question.PriceHistory {
			var price *int
			for _, snap := range entry.Prices {
				if snap.Name == option.Name {
					p := snap.Price
					price = &p
					break
				}
			}
			data = append(data, price)
		}

		color, ok := namedColors[option.Name]
		if !ok {
			color = defaultColors[i%len(defaultColors)]
		}

		datasets = append(datasets, ChartDataset{
			Label:           option.Name,
			Data:            data,
			BorderColor:     color,
			BackgroundColor: color + "33",
			Fill:            false,
			Tension:         0.1,
		})
	}

	return &ChartData{Labels: labels, Datasets: datasets}, nil
}

// ReplaceAll destructively swaps the whole question collection for a
// freshly generated set. Bets and history referencing the old
// questions are orphaned; callers accept that.
func (s *QuestionService) ReplaceAll(questions []models.Question) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{
			&models.PriceHistoryEntry{}, &models.Option{}, &models.Question{},
		} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear old polls: %w", err)
			}
		}

		for i := range questions {
			if err := tx.Create(&questions[i]).Error; err != nil {
				return fmt.Errorf("failed to insert poll %q: %w", questions[i].Title, err)
			}
		}

		return nil
	})
}

// SeedQuestion inserts a fixed test question once; repeat calls are a
// no-op. Returns true when the question was created.
func (s *QuestionService) SeedQuestion() (bool, error) {
	seed := models.Question{
		Title: "Who will win the Pro Football Championship?",
		Options: []models.Option{
			{Name: "Kansas City", Price: 35},
			{Name: "Buffalo", Price: 28},
			{Name: "Detroit", Price: 18},
			{Name: "Other", Price: 19},
		},
		ArticleURL: "https://www.nfl.com/championship",
		Category:   "sports",
	}

	var existing models.Question
	err := s.db.Where("title = ?", seed.Title).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := s.db.Create(&seed).Error; err != nil {
		return false, fmt.Errorf("failed to add question: %w", err)
	}
	return true, nil
}
