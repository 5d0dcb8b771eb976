package trivia

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

type Service struct {
	categories CategoryRepository
	questions  QuestionRepository
	intn       func(n int) int
}

func NewService(categories CategoryRepository, questions QuestionRepository) *Service {
	return &Service{
		categories: categories,
		questions:  questions,
		intn:       rand.Intn,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, storeFault("list categories", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("list categories: %w", ErrNotFound)
	}
	return categories, nil
}

// ListQuestions returns the first page together with the full count and every
// category. An empty first page is reported as ErrNotFound.
func (s *Service) ListQuestions(ctx context.Context) (QuestionPage, error) {
	questions, err := s.questions.ListQuestions(ctx, QuestionFilter{}, QuestionsPerPage)
	if err != nil {
		return QuestionPage{}, storeFault("list questions", err)
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return QuestionPage{}, storeFault("list categories", err)
	}

	if len(questions) == 0 {
		return QuestionPage{}, fmt.Errorf("list questions: %w", ErrNotFound)
	}

	total, err := s.questions.CountQuestions(ctx)
	if err != nil {
		return QuestionPage{}, storeFault("count questions", err)
	}

	return QuestionPage{
		Questions:      questions,
		TotalQuestions: total,
		Categories:     categories,
	}, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id int) error {
	question, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return storeFault(fmt.Sprintf("get question %d", id), err)
	}
	if err := s.questions.DeleteQuestion(ctx, question.ID); err != nil {
		return storeFault(fmt.Sprintf("delete question %d", id), err)
	}
	return nil
}

func (s *Service) CreateQuestion(ctx context.Context, question NewQuestion) (int, error) {
	id, err := s.questions.CreateQuestion(ctx, question)
	if err != nil {
		return 0, storeFault("create question", err)
	}
	return id, nil
}

// SearchQuestions matches term case-insensitively anywhere in the question text.
func (s *Service) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	questions, err := s.questions.ListQuestions(ctx, QuestionFilter{Search: term}, QuestionsPerPage)
	if err != nil {
		return nil, storeFault("search questions", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("search %q: %w", term, ErrNotFound)
	}
	return questions, nil
}

func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	questions, err := s.questions.ListQuestions(ctx, QuestionFilter{Category: &categoryID}, QuestionsPerPage)
	if err != nil {
		return nil, storeFault(fmt.Sprintf("list category %d", categoryID), err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("list category %d: %w", categoryID, ErrNotFound)
	}
	return questions, nil
}

// PlayQuiz draws one question uniformly at random among those not already asked.
// A nil question with a nil error means the eligible set is exhausted.
func (s *Service) PlayQuiz(ctx context.Context, request QuizRequest) (*Question, error) {
	if request.Category == nil {
		return nil, fmt.Errorf("quiz category is required: %w", ErrPreconditionFailed)
	}

	filter := QuestionFilter{ExcludeIDs: request.PreviousQuestions}
	if categoryID := *request.Category; categoryID != 0 {
		filter.Category = &categoryID
	}

	eligible, err := s.questions.ListQuestions(ctx, filter, 0)
	if err != nil {
		return nil, storeFault("list quiz questions", err)
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	next := eligible[s.intn(len(eligible))]
	return &next, nil
}

func storeFault(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFault, err)
}
