package gormstore

import "trivia-api/internal/trivia"

type categoryRecord struct {
	ID   int    `gorm:"primaryKey"`
	Type string `gorm:"not null"`
}

func (categoryRecord) TableName() string { return "categories" }

type questionRecord struct {
	ID         int    `gorm:"primaryKey"`
	Question   string `gorm:"type:text;not null"`
	Answer     string `gorm:"type:text;not null"`
	Category   int    `gorm:"not null;index"`
	Difficulty *int
}

func (questionRecord) TableName() string { return "questions" }

func (r categoryRecord) toCategory() trivia.Category {
	return trivia.Category{ID: r.ID, Type: r.Type}
}

func (r questionRecord) toQuestion() trivia.Question {
	return trivia.Question{
		ID:         r.ID,
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   r.Category,
		Difficulty: r.Difficulty,
	}
}
