package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"trivia-api/internal/trivia"
)

var ErrServiceUnavailable = errors.New("trivia service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type categoriesResponse struct {
	Categories map[string]string `json:"categories"`
}

type quizCategory struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
}

type quizRequest struct {
	PreviousQuestions []int        `json:"previous_questions"`
	QuizCategory      quizCategory `json:"quiz_category"`
}

type quizResponse struct {
	Question *trivia.Question `json:"question"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Categories returns the server's categories ordered by id.
func (c *HTTPClient) Categories(ctx context.Context) ([]trivia.Category, error) {
	var response categoriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &response); err != nil {
		return nil, err
	}

	categories := make([]trivia.Category, 0, len(response.Categories))
	for key, name := range response.Categories {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("unexpected category id %q", key)
		}
		categories = append(categories, trivia.Category{ID: id, Type: name})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

// NextQuestion draws a question not in previous. A nil question means the
// category is exhausted.
func (c *HTTPClient) NextQuestion(ctx context.Context, previous []int, category trivia.Category) (*trivia.Question, error) {
	if previous == nil {
		previous = []int{}
	}
	request := quizRequest{
		PreviousQuestions: previous,
		QuizCategory:      quizCategory{Type: category.Type, ID: category.ID},
	}

	var response quizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quizzes", request, &response); err != nil {
		return nil, err
	}
	return response.Question, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Message
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
