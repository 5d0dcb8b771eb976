package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trivia-api/internal/trivia"
)

const (
	maxAttempts   = 3
	defaultRounds = 5
)

type Config struct {
	ServerURL   string
	Rounds      int
	HTTPTimeout time.Duration
}

// Run plays one quiz against the trivia service: the player picks a category
// (0 for all), then answers up to cfg.Rounds questions in free text.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.Rounds <= 0 {
		cfg.Rounds = defaultRounds
	}
	client := NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: cfg.HTTPTimeout})
	reader := bufio.NewReader(in)

	categories, err := client.Categories(ctx)
	if err != nil {
		return err
	}

	category, ok := chooseCategory(reader, out, categories)
	if !ok {
		fmt.Fprintln(out, "No category chosen. Bye!")
		return nil
	}

	var previous []int
	score := 0
	for round := 1; round <= cfg.Rounds; round++ {
		question, err := client.NextQuestion(ctx, previous, category)
		if err != nil {
			return err
		}
		if question == nil {
			fmt.Fprintln(out, "No more questions in this category.")
			break
		}
		previous = append(previous, question.ID)

		fmt.Fprintf(out, "\nQ%d: %s\n> ", round, question.Question)
		answer, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(answer) == "" {
			fmt.Fprintf(out, "\nSkipping. Correct answer was %s\n", question.Answer)
			break
		}

		if isCorrect(answer, question.Answer) {
			fmt.Fprintln(out, "Correct!")
			score++
		} else {
			fmt.Fprintf(out, "Wrong. Correct answer was %s\n", question.Answer)
		}
	}

	fmt.Fprintf(out, "\nFinal score: %d/%d\n", score, len(previous))
	return nil
}

func chooseCategory(reader *bufio.Reader, out io.Writer, categories []trivia.Category) (trivia.Category, bool) {
	fmt.Fprintln(out, "Categories:")
	fmt.Fprintln(out, "  0. All")
	for _, category := range categories {
		fmt.Fprintf(out, "  %d. %s\n", category.ID, category.Type)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprint(out, "Pick a category: ")
		line, err := reader.ReadString('\n')
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil {
			if choice == 0 {
				return trivia.Category{ID: 0, Type: "All"}, true
			}
			for _, category := range categories {
				if category.ID == choice {
					return category, true
				}
			}
		}
		if err != nil {
			return trivia.Category{}, false
		}
		if attempt < maxAttempts {
			fmt.Fprintln(out, "Invalid choice.")
		}
	}
	return trivia.Category{}, false
}

func isCorrect(given, expected string) bool {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return normalize(given) != "" && normalize(given) == normalize(expected)
}
