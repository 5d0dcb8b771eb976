package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultURL    = "https://opentdb.com/api.php"
	defaultAmount = 10
	maxAmount     = 50
)

// RawQuestion mirrors the OpenTriviaDB question payload. Text fields are HTML
// escaped by the API.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// responseCodeMessages describes the non-zero response_code values OpenTDB documents.
var responseCodeMessages = map[int]string{
	1: "not enough questions for the query",
	2: "invalid parameter",
	3: "session token not found",
	4: "session token exhausted",
	5: "rate limited",
}

// ResponseError reports a non-zero response_code in an otherwise successful reply.
type ResponseError struct {
	Code int
}

func (e *ResponseError) Error() string {
	if message, ok := responseCodeMessages[e.Code]; ok {
		return fmt.Sprintf("opentdb response_code=%d: %s", e.Code, message)
	}
	return fmt.Sprintf("opentdb response_code=%d", e.Code)
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClientWithURL targets baseURL, falling back to DefaultURL when empty.
func NewClientWithURL(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// FetchQuestions requests amount questions, clamped to the API's 1..50 range.
func (c *Client) FetchQuestions(ctx context.Context, amount int) ([]RawQuestion, error) {
	if amount <= 0 {
		amount = defaultAmount
	}
	if amount > maxAmount {
		amount = maxAmount
	}

	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse opentdb url: %w", err)
	}
	query := reqURL.Query()
	query.Set("amount", strconv.Itoa(amount))
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, &ResponseError{Code: payload.ResponseCode}
	}

	return payload.Results, nil
}
