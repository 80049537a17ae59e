package services

import (
	"errors"
	"log"
	"math/rand"
	"regexp"
	"time"

	"github.com/google/uuid"

	"paperboy/internal/llm"
	"paperboy/internal/models"
	"paperboy/internal/newsapi"
)

// Topic buckets sampled on every fetch cycle
var generatorTopics = []string{
	"politics", "business", "technology", "sports",
	"science", "world", "entertainment", "health",
}

var headlineSuffixPattern = regexp.MustCompile(` - .*$`)

// PollGeneratorService turns live news headlines into poll questions:
// fetch headline batches, ask the completion model for a question per
// unseen headline, and bulk-replace the question collection with the
// successful results.
type PollGeneratorService struct {
	questions *QuestionService
	news      *newsapi.Client
	generator *llm.QuestionGenerator

	targetPollCount int
	maxArticles     int
	topicsPerCycle  int
	pageSize        int

	topicDelay time.Duration
	callDelay  time.Duration
	idleDelay  time.Duration
}

// NewPollGeneratorService creates a generator with the production
// pacing and limits.
func NewPollGeneratorService(questions *QuestionService, news *newsapi.Client, generator *llm.QuestionGenerator) *PollGeneratorService {
	return &PollGeneratorService{
		questions: questions,
		news:      news,
		generator: generator,

		targetPollCount: 2,
		maxArticles:     100,
		topicsPerCycle:  4,
		pageSize:        5,

		topicDelay: 500 * time.Millisecond,
		callDelay:  2 * time.Second,
		idleDelay:  30 * time.Second,
	}
}

// Run generates polls until the target count is reached or the safety
// cap on processed articles is hit, then destructively replaces the
// question collection. Runs to completion synchronously.
func (s *PollGeneratorService) Run() error {
	runID := uuid.New()
	log.Printf("[PollGenerator] Run %s: aiming to generate %d polls", runID, s.targetPollCount)

	var successfulPolls []models.Question
	seenURLs := make(map[string]bool)
	articlesProcessed := 0

	for len(successfulPolls) < s.targetPollCount && articlesProcessed < s.maxArticles {
		log.Printf("[PollGenerator] Run %s: new fetch cycle, %d/%d polls so far", runID, len(successfulPolls), s.targetPollCount)

		articles := s.fetchBatch()

		var unseen []categorizedArticle
		for _, a := range articles {
			if a.URL != "" && !seenURLs[a.URL] {
				unseen = append(unseen, a)
			}
		}
		log.Printf("[PollGenerator] Run %s: %d unique unprocessed articles in batch", runID, len(unseen))

		if len(unseen) == 0 {
			log.Printf("[PollGenerator] Run %s: no new articles, waiting before retrying...", runID)
			time.Sleep(s.idleDelay)
			continue
		}

		for _, article := range unseen {
			if len(successfulPolls) >= s.targetPollCount {
				break
			}

			articlesProcessed++
			seenURLs[article.URL] = true

			headline := headlineSuffixPattern.ReplaceAllString(article.Title, "")
			if headline == "" {
				headline = "No Title"
			}

			generated, err := s.generator.Generate(headline)
			switch {
			case err == nil:
				options := make([]models.Option, 0, len(generated.Options))
				for _, opt := range generated.Options {
					options = append(options, models.Option{Name: opt.Name, Price: opt.Price})
				}
				successfulPolls = append(successfulPolls, models.Question{
					Title:      generated.Title,
					Options:    options,
					ArticleURL: article.URL,
					Category:   article.Category,
				})
				log.Printf("[PollGenerator] Run %s: generated question for %q (%d/%d)", runID, headline, len(successfulPolls), s.targetPollCount)
			case errors.Is(err, llm.ErrNotSuitable):
				log.Printf("[PollGenerator] Run %s: headline not suitable: %q", runID, headline)
			default:
				log.Printf("[PollGenerator] Run %s: skipping headline %q: %v", runID, headline, err)
			}

			if len(successfulPolls) < s.targetPollCount {
				time.Sleep(s.callDelay)
			}
		}

		if articlesProcessed >= s.maxArticles && len(successfulPolls) < s.targetPollCount {
			log.Printf("[PollGenerator] Run %s: hit article limit (%d) with only %d polls, stopping", runID, s.maxArticles, len(successfulPolls))
			break
		}
	}

	log.Printf("[PollGenerator] Run %s: finished with %d polls", runID, len(successfulPolls))

	if len(successfulPolls) == 0 {
		log.Printf("[PollGenerator] Run %s: nothing generated, database untouched", runID)
		return nil
	}

	if err := s.questions.ReplaceAll(successfulPolls); err != nil {
		return err
	}
	log.Printf("[PollGenerator] Run %s: stored %d new polls", runID, len(successfulPolls))
	return nil
}

type categorizedArticle struct {
	Title    string
	URL      string
	Category string
}

// fetchBatch pulls a page of headlines from a random subset of the
// topic buckets. Per-topic fetch failures are logged and skipped.
func (s *PollGeneratorService) fetchBatch() []categorizedArticle {
	topics := make([]string, len(generatorTopics))
	copy(topics, generatorTopics)
	rand.Shuffle(len(topics), func(i, j int) {
		topics[i], topics[j] = topics[j], topics[i]
	})

	count := s.topicsPerCycle
	if count > len(topics) {
		count = len(topics)
	}

	var articles []categorizedArticle
	for _, topic := range topics[:count] {
		fetched, err := s.news.TopHeadlines("us", topic, s.pageSize)
		if err != nil {
			log.Printf("[PollGenerator] NewsAPI error for topic %s: %v", topic, err)
		} else {
			for _, a := range fetched {
				articles = append(articles, categorizedArticle{
					Title:    a.Title,
					URL:      a.URL,
					Category: topic,
				})
			}
		}
		time.Sleep(s.topicDelay)
	}

	log.Printf("[PollGenerator] Fetched %d raw articles this cycle", len(articles))
	return articles
}
