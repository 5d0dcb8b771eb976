package trivia

import "strings"

// QuestionsPerPage is the size of the single page served by every listing.
const QuestionsPerPage = 10

type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty *int   `json:"difficulty"`
}

type NewQuestion struct {
	Question   string
	Answer     string
	Category   int
	Difficulty *int
}

// QuestionPage is the first page of the full question listing.
type QuestionPage struct {
	Questions      []Question
	TotalQuestions int
	Categories     []Category
}

// QuizRequest describes one quiz draw. A nil Category is rejected; a category
// id of 0 draws from every category.
type QuizRequest struct {
	PreviousQuestions []int
	Category          *int
}

func IntPtr(v int) *int {
	return &v
}

// SubstringPattern builds a LIKE pattern matching term anywhere in a column.
// Wildcards in term are escaped with a backslash so they match literally;
// queries using it must declare ESCAPE '\'.
func SubstringPattern(term string) string {
	var builder strings.Builder
	builder.Grow(len(term) + 2)
	builder.WriteByte('%')
	for _, r := range term {
		if r == '%' || r == '_' || r == '\\' {
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	builder.WriteByte('%')
	return builder.String()
}
