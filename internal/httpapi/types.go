package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"trivia-api/internal/trivia"
)

type createQuestionRequest struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

func (r createQuestionRequest) validate() (trivia.NewQuestion, error) {
	var missing []string
	if r.Question == nil {
		missing = append(missing, "question")
	}
	if r.Answer == nil {
		missing = append(missing, "answer")
	}
	if r.Category == nil {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return trivia.NewQuestion{}, fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), trivia.ErrInvalidInput)
	}

	return trivia.NewQuestion{
		Question:   *r.Question,
		Answer:     *r.Answer,
		Category:   *r.Category,
		Difficulty: r.Difficulty,
	}, nil
}

type searchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

func (r searchRequest) validate() (string, error) {
	if r.SearchTerm == nil {
		return "", fmt.Errorf("missing searchTerm: %w", trivia.ErrInvalidInput)
	}
	return *r.SearchTerm, nil
}

type quizCategory struct {
	Type string       `json:"type"`
	ID   *flexibleInt `json:"id"`
}

type quizRequest struct {
	PreviousQuestions []int         `json:"previous_questions"`
	QuizCategory      *quizCategory `json:"quiz_category"`
}

func (r quizRequest) toQuizRequest() trivia.QuizRequest {
	request := trivia.QuizRequest{PreviousQuestions: r.PreviousQuestions}
	if r.QuizCategory != nil && r.QuizCategory.ID != nil {
		id := int(*r.QuizCategory.ID)
		request.Category = &id
	}
	return request
}

// flexibleInt accepts 3 as well as "3"; browser clients key categories by string.
type flexibleInt int

func (n *flexibleInt) UnmarshalJSON(data []byte) error {
	var number int
	if err := json.Unmarshal(data, &number); err == nil {
		*n = flexibleInt(number)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("expected integer, got %s", data)
	}
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("expected integer, got %q", text)
	}
	*n = flexibleInt(number)
	return nil
}

// categoryMap renders categories as {"<id>": "<type>"} with keys kept in id
// order; encoding/json would sort integer keys as strings.
type categoryMap []trivia.Category

func (m categoryMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, category := range m {
		if idx > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(category.ID)))
		buf.WriteByte(':')
		encoded, err := json.Marshal(category.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type categoriesResponse struct {
	Success    bool        `json:"success"`
	Categories categoryMap `json:"categories"`
}

type questionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []trivia.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      categoryMap       `json:"categories"`
	CurrentCategory int               `json:"current category"`
}

// filteredQuestionsResponse serves search and per-category listings.
// TotalQuestions counts the returned page only.
type filteredQuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []trivia.Question `json:"questions"`
	TotalQuestions  int               `json:"totalQuestions"`
	CurrentCategory *int              `json:"currentCategory"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type createQuestionResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

type quizResponse struct {
	Success  bool             `json:"success"`
	Question *trivia.Question `json:"question"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}
