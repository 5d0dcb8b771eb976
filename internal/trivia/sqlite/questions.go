package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"trivia-api/internal/trivia"
)

func (s *SQLiteStore) ListQuestions(ctx context.Context, filter trivia.QuestionFilter, limit int) ([]trivia.Question, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Category != nil {
		clauses = append(clauses, `category = ?`)
		args = append(args, *filter.Category)
	}
	if filter.Search != "" {
		clauses = append(clauses, `utf8_lower(question) LIKE utf8_lower(?) ESCAPE '\'`)
		args = append(args, trivia.SubstringPattern(filter.Search))
	}
	if len(filter.ExcludeIDs) > 0 {
		// One JSON parameter keeps long exclusion lists under SQLITE_MAX_VARIABLE_NUMBER.
		excluded, err := json.Marshal(filter.ExcludeIDs)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, `id NOT IN (SELECT value FROM json_each(?))`)
		args = append(args, string(excluded))
	}

	var query strings.Builder
	query.WriteString(`SELECT id, question, answer, category, difficulty FROM questions`)
	if len(clauses) > 0 {
		query.WriteString(` WHERE `)
		query.WriteString(strings.Join(clauses, ` AND `))
	}
	query.WriteString(` ORDER BY id ASC`)
	if limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]trivia.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id int) (trivia.Question, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, question, answer, category, difficulty FROM questions WHERE id = ?`,
		id,
	)
	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trivia.Question{}, trivia.ErrNotFound
		}
		return trivia.Question{}, err
	}
	return question, nil
}

func (s *SQLiteStore) CreateQuestion(ctx context.Context, question trivia.NewQuestion) (int, error) {
	var difficulty sql.NullInt64
	if question.Difficulty != nil {
		difficulty = sql.NullInt64{Int64: int64(*question.Difficulty), Valid: true}
	}

	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO questions (question, answer, category, difficulty) VALUES (?, ?, ?, ?)`,
		question.Question,
		question.Answer,
		question.Category,
		difficulty,
	)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return trivia.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (trivia.Question, error) {
	var (
		question   trivia.Question
		difficulty sql.NullInt64
	)
	if err := row.Scan(&question.ID, &question.Question, &question.Answer, &question.Category, &difficulty); err != nil {
		return trivia.Question{}, err
	}
	if difficulty.Valid {
		value := int(difficulty.Int64)
		question.Difficulty = &value
	}
	return question, nil
}
