// Package seed loads the default categories and imports questions from
// OpenTriviaDB into a trivia store.
package seed

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"trivia-api/internal/opentdb"
	"trivia-api/internal/trivia"
)

// DefaultCategories are created, in this order, when the store has none.
var DefaultCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

// categoryAliases maps OpenTDB categories without an obvious prefix match.
var categoryAliases = map[string]string{
	"animals":           "Science",
	"vehicles":          "Science",
	"mythology":         "History",
	"politics":          "History",
	"celebrities":       "Entertainment",
	"general knowledge": "Entertainment",
}

var difficultyLevels = map[string]int{
	"easy":   1,
	"medium": 2,
	"hard":   3,
}

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

type Seeder struct {
	categories trivia.CategoryRepository
	questions  trivia.QuestionRepository
	fetcher    QuestionsFetcher
	logger     *slog.Logger
}

func NewSeeder(categories trivia.CategoryRepository, questions trivia.QuestionRepository, fetcher QuestionsFetcher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		categories: categories,
		questions:  questions,
		fetcher:    fetcher,
		logger:     logger,
	}
}

// EnsureCategories creates DefaultCategories when the store holds none and
// returns the stored categories.
func (s *Seeder) EnsureCategories(ctx context.Context) ([]trivia.Category, error) {
	existing, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		s.logger.DebugContext(ctx, "categories already present", "count", len(existing))
		return existing, nil
	}

	created := make([]trivia.Category, 0, len(DefaultCategories))
	for _, name := range DefaultCategories {
		category, err := s.categories.CreateCategory(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("create category %q: %w", name, err)
		}
		created = append(created, category)
	}
	s.logger.InfoContext(ctx, "created default categories", "count", len(created))
	return created, nil
}

// ImportQuestions fetches amount questions and stores those whose category maps
// onto a stored one. It returns how many were stored.
func (s *Seeder) ImportQuestions(ctx context.Context, amount int) (int, error) {
	if s.fetcher == nil {
		return 0, fmt.Errorf("question fetcher is not configured")
	}

	categories, err := s.EnsureCategories(ctx)
	if err != nil {
		return 0, err
	}

	raw, err := s.fetcher(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("fetch questions: %w", err)
	}

	imported := 0
	for _, item := range raw {
		question, ok := BuildQuestion(item, categories)
		if !ok {
			s.logger.WarnContext(ctx, "skipping question with unknown category", "category", item.Category)
			continue
		}
		id, err := s.questions.CreateQuestion(ctx, question)
		if err != nil {
			return imported, fmt.Errorf("create question: %w", err)
		}
		s.logger.DebugContext(ctx, "imported question", "id", id, "category", question.Category)
		imported++
	}

	s.logger.InfoContext(ctx, "imported questions", "imported", imported, "fetched", len(raw))
	return imported, nil
}

// BuildQuestion converts an OpenTDB payload. It reports false when the
// category cannot be matched.
func BuildQuestion(raw opentdb.RawQuestion, categories []trivia.Category) (trivia.NewQuestion, bool) {
	categoryID, ok := MatchCategory(html.UnescapeString(raw.Category), categories)
	if !ok {
		return trivia.NewQuestion{}, false
	}

	question := trivia.NewQuestion{
		Question: html.UnescapeString(raw.Question),
		Answer:   html.UnescapeString(raw.CorrectAnswer),
		Category: categoryID,
	}
	if level, ok := difficultyLevels[strings.ToLower(raw.Difficulty)]; ok {
		question.Difficulty = &level
	}
	return question, true
}

// MatchCategory resolves an OpenTDB category such as "Science & Nature" or
// "Entertainment: Film" to the id of the stored category it belongs to.
func MatchCategory(name string, categories []trivia.Category) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := categoryAliases[key]; ok {
		key = strings.ToLower(alias)
	}
	if idx := strings.IndexAny(key, ":&"); idx >= 0 {
		key = strings.TrimSpace(key[:idx])
	}

	for _, category := range categories {
		if strings.EqualFold(category.Type, key) {
			return category.ID, true
		}
	}
	return 0, false
}
