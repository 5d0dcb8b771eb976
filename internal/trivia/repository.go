package trivia

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrStoreFault         = errors.New("store fault")
)

// QuestionFilter narrows a question listing. Zero values disable a predicate.
type QuestionFilter struct {
	Category   *int
	Search     string
	ExcludeIDs []int
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, categoryType string) (Category, error)
}

// QuestionRepository lists in ascending id order. A limit <= 0 returns every
// matching row. GetQuestion and DeleteQuestion return ErrNotFound for unknown ids.
type QuestionRepository interface {
	ListQuestions(ctx context.Context, filter QuestionFilter, limit int) ([]Question, error)
	CountQuestions(ctx context.Context) (int, error)
	GetQuestion(ctx context.Context, id int) (Question, error)
	CreateQuestion(ctx context.Context, question NewQuestion) (int, error)
	DeleteQuestion(ctx context.Context, id int) error
}

type Store interface {
	CategoryRepository
	QuestionRepository
	Close() error
}
