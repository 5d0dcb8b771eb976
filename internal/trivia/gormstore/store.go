// Package gormstore keeps trivia data in any database gorm has a dialector for.
// Production deployments use PostgreSQL.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trivia-api/internal/trivia"
	"trivia-api/internal/trivia/sqlite"
)

// dialect holds the SQL fragments that differ between backends.
type dialect struct {
	lower      string
	excludeIDs string
}

var (
	postgresDialect = dialect{
		lower:      "LOWER",
		excludeIDs: "id NOT IN (SELECT jsonb_array_elements_text(?::jsonb)::int)",
	}
	sqliteDialect = dialect{
		lower:      "utf8_lower",
		excludeIDs: "id NOT IN (SELECT value FROM json_each(?))",
	}
)

type Store struct {
	db      *gorm.DB
	dialect dialect
}

// NewPostgres connects with a libpq style DSN or postgres:// URL.
func NewPostgres(dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	return Open(postgres.Open(dsn), logger)
}

// OpenSQLite opens path through the sqlite package's driver so utf8_lower is
// available to searches.
func OpenSQLite(path string, logger *slog.Logger) (*Store, error) {
	return Open(gormsqlite.New(gormsqlite.Config{
		DriverName: sqlite.DriverName,
		DSN:        path,
	}), logger)
}

// Open connects through dialector and migrates the categories and questions
// tables. gorm warnings and slow queries go to logger.
func Open(dialector gorm.Dialector, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(slog.NewLogLogger(logger.Handler(), slog.LevelWarn), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", dialector.Name(), err)
	}

	if err := db.AutoMigrate(&categoryRecord{}, &questionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store := &Store{db: db, dialect: postgresDialect}
	if dialector.Name() == "sqlite" {
		store.dialect = sqliteDialect
	}
	return store, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	var records []categoryRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	categories := make([]trivia.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, record.toCategory())
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, categoryType string) (trivia.Category, error) {
	record := categoryRecord{Type: categoryType}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return trivia.Category{}, err
	}
	return record.toCategory(), nil
}

func (s *Store) ListQuestions(ctx context.Context, filter trivia.QuestionFilter, limit int) ([]trivia.Question, error) {
	query := s.db.WithContext(ctx).Model(&questionRecord{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Search != "" {
		clause := fmt.Sprintf(`%[1]s(question) LIKE %[1]s(?) ESCAPE '\'`, s.dialect.lower)
		query = query.Where(clause, trivia.SubstringPattern(filter.Search))
	}
	if len(filter.ExcludeIDs) > 0 {
		excluded, err := json.Marshal(filter.ExcludeIDs)
		if err != nil {
			return nil, err
		}
		query = query.Where(s.dialect.excludeIDs, string(excluded))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []questionRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	questions := make([]trivia.Question, 0, len(records))
	for _, record := range records {
		questions = append(questions, record.toQuestion())
	}
	return questions, nil
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&questionRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *Store) GetQuestion(ctx context.Context, id int) (trivia.Question, error) {
	var record questionRecord
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return trivia.Question{}, trivia.ErrNotFound
		}
		return trivia.Question{}, err
	}
	return record.toQuestion(), nil
}

func (s *Store) CreateQuestion(ctx context.Context, question trivia.NewQuestion) (int, error) {
	record := questionRecord{
		Question:   question.Question,
		Answer:     question.Answer,
		Category:   question.Category,
		Difficulty: question.Difficulty,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&questionRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return trivia.ErrNotFound
	}
	return nil
}
