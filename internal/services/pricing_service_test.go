package services

import (
	"testing"

	"paperboy/internal/models"
)

func TestUpdateMarketPricesAppendsOneHistoryEntry(t *testing.T) {
	db := setupTestDB(t)
	question := createTestQuestion(t, db, []models.Option{
		{Name: "A", Price: 34},
		{Name: "B", Price: 33},
		{Name: "C", Price: 33},
	})

	service := NewPricingService(db)
	if err := service.UpdateMarketPrices(question.ID, "A", 40); err != nil {
		t.Fatalf("UpdateMarketPrices failed: %v", err)
	}

	var options []models.Option
	db.Where("question_id = ?", question.ID).Order("id").Find(&options)
	want := []int{36, 32, 32}
	for i, opt := range options {
		if opt.Price != want[i] {
			t.Errorf("option %s price = %d, want %d", opt.Name, opt.Price, want[i])
		}
	}

	var history []models.PriceHistoryEntry
	db.Where("question_id = ?", question.ID).Order("id").Find(&history)
	if len(history) != 2 {
		t.Fatalf("history entries = %d, want 2 (initial + rebalance)", len(history))
	}

	latest := history[len(history)-1]
	for i, snap := range latest.Prices {
		if snap.Price != want[i] {
			t.Errorf("snapshot %s = %d, want %d", snap.Name, snap.Price, want[i])
		}
	}
}

func TestUpdateMarketPricesResolvedMarketIsNoOp(t *testing.T) {
	db := setupTestDB(t)

	resolved := "Yes"
	question := models.Question{
		Title:               "Settled market",
		ArticleURL:          "https://example.com",
		Category:            "general",
		ResolvingOptionName: &resolved,
		Options: []models.Option{
			{Name: "Yes", Price: 70},
			{Name: "No", Price: 30},
		},
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}

	service := NewPricingService(db)
	if err := service.UpdateMarketPrices(question.ID, "Yes", 100); err != nil {
		t.Fatalf("UpdateMarketPrices failed: %v", err)
	}

	var options []models.Option
	db.Where("question_id = ?", question.ID).Order("id").Find(&options)
	if options[0].Price != 70 || options[1].Price != 30 {
		t.Errorf("resolved market prices moved: %d/%d", options[0].Price, options[1].Price)
	}

	var historyCount int64
	db.Model(&models.PriceHistoryEntry{}).Where("question_id = ?", question.ID).Count(&historyCount)
	if historyCount != 1 {
		t.Errorf("history entries = %d, want only the initial snapshot", historyCount)
	}
}

func TestUpdateMarketPricesSingleOptionIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	question := createTestQuestion(t, db, []models.Option{
		{Name: "Only", Price: 100},
	})

	service := NewPricingService(db)
	if err := service.UpdateMarketPrices(question.ID, "Only", 100); err != nil {
		t.Fatalf("UpdateMarketPrices failed: %v", err)
	}

	var option models.Option
	db.Where("question_id = ?", question.ID).First(&option)
	if option.Price != 100 {
		t.Errorf("single-option price moved to %d", option.Price)
	}

	var historyCount int64
	db.Model(&models.PriceHistoryEntry{}).Where("question_id = ?", question.ID).Count(&historyCount)
	if historyCount != 1 {
		t.Errorf("history entries = %d, want only the initial snapshot", historyCount)
	}
}

func TestUpdateMarketPricesUnknownQuestion(t *testing.T) {
	db := setupTestDB(t)

	service := NewPricingService(db)
	if err := service.UpdateMarketPrices(9999, "Yes", 100); err == nil {
		t.Fatal("expected an error for an unknown question")
	}
}
