package sqlite

import (
	"context"

	"trivia-api/internal/trivia"
)

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]trivia.Category, 0)
	for rows.Next() {
		var category trivia.Category
		if err := rows.Scan(&category.ID, &category.Type); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, categoryType string) (trivia.Category, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO categories (type) VALUES (?)`, categoryType)
	if err != nil {
		return trivia.Category{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return trivia.Category{}, err
	}
	return trivia.Category{ID: int(id), Type: categoryType}, nil
}
