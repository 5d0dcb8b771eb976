package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"trivia-api/internal/trivia"
	"trivia-api/internal/trivia/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// newSeededRouter returns a router over 3 categories and questionCount
// questions spread round-robin across them.
func newSeededRouter(t *testing.T, questionCount int) (http.Handler, *sqlite.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	store := newTestStore(t)
	for _, name := range []string{"Science", "Art", "Geography"} {
		if _, err := store.CreateCategory(ctx, name); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
	}
	for idx := 0; idx < questionCount; idx++ {
		if _, err := store.CreateQuestion(ctx, trivia.NewQuestion{
			Question:   "Which number is " + strconv.Itoa(idx) + "?",
			Answer:     strconv.Itoa(idx),
			Category:   idx%3 + 1,
			Difficulty: trivia.IntPtr(idx%5 + 1),
		}); err != nil {
			t.Fatalf("CreateQuestion failed: %v", err)
		}
	}

	service := trivia.NewService(store, store)
	return NewRouter(service, discardLogger()), store
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var payload errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if payload.Success || payload.Error != status || payload.Message != message {
		t.Fatalf("unexpected error payload: %+v", payload)
	}
}

func TestHandleListCategories(t *testing.T) {
	router, _ := newSeededRouter(t, 0)

	rec := doRequest(t, router, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	payload := decodeBody(t, rec)
	if payload["success"] != true {
		t.Fatalf("expected success, got %v", payload)
	}
	categories, ok := payload["categories"].(map[string]any)
	if !ok || len(categories) != 3 || categories["1"] != "Science" || categories["3"] != "Geography" {
		t.Fatalf("unexpected categories: %v", payload["categories"])
	}
}

func TestHandleListCategoriesEmpty(t *testing.T) {
	store := newTestStore(t)
	router := NewRouter(trivia.NewService(store, store), discardLogger())

	rec := doRequest(t, router, http.MethodGet, "/categories", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")
}

func TestHandleListQuestionsPaginates(t *testing.T) {
	router, _ := newSeededRouter(t, 12)

	rec := doRequest(t, router, http.MethodGet, "/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Success         bool              `json:"success"`
		Questions       []trivia.Question `json:"questions"`
		TotalQuestions  int               `json:"total_questions"`
		Categories      map[string]string `json:"categories"`
		CurrentCategory int               `json:"current category"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || len(payload.Questions) != trivia.QuestionsPerPage || payload.TotalQuestions != 12 {
		t.Fatalf("unexpected page: success=%v questions=%d total=%d", payload.Success, len(payload.Questions), payload.TotalQuestions)
	}
	if len(payload.Categories) != 3 || payload.CurrentCategory != 1 {
		t.Fatalf("unexpected categories/current category: %+v %d", payload.Categories, payload.CurrentCategory)
	}
	for idx := 1; idx < len(payload.Questions); idx++ {
		if payload.Questions[idx].ID <= payload.Questions[idx-1].ID {
			t.Fatalf("questions not ordered by id: %+v", payload.Questions)
		}
	}
}

func TestHandleListQuestionsEmpty(t *testing.T) {
	router, _ := newSeededRouter(t, 0)

	rec := doRequest(t, router, http.MethodGet, "/questions", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")
}

func TestHandleCreateQuestion(t *testing.T) {
	router, store := newSeededRouter(t, 0)

	rec := doRequest(t, router, http.MethodPost, "/questions", `{"question":"Q","answer":"A","category":1,"difficulty":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var payload createQuestionResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Created <= 0 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	stored, err := store.GetQuestion(context.Background(), payload.Created)
	if err != nil {
		t.Fatalf("created question not retrievable: %v", err)
	}
	if stored.Question != "Q" || stored.Answer != "A" || stored.Category != 1 || stored.Difficulty == nil || *stored.Difficulty != 2 {
		t.Fatalf("unexpected stored question: %+v", stored)
	}
}

func TestHandleCreateQuestionWithoutDifficulty(t *testing.T) {
	router, _ := newSeededRouter(t, 0)

	rec := doRequest(t, router, http.MethodPost, "/questions", `{"question":"Q","answer":"A","category":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, router, http.MethodGet, "/questions", "")
	payload := decodeBody(t, rec)
	questions := payload["questions"].([]any)
	question := questions[0].(map[string]any)
	difficulty, present := question["difficulty"]
	if !present || difficulty != nil {
		t.Fatalf("expected difficulty null, got %v (present=%v)", difficulty, present)
	}
}

func TestHandleCreateQuestionMissingFields(t *testing.T) {
	router, _ := newSeededRouter(t, 0)

	bodies := []string{
		`{"answer":"A","category":1,"difficulty":2}`,
		`{"question":"Q","category":1,"difficulty":2}`,
		`{"question":"Q","answer":"A","difficulty":2}`,
		`{"question":null,"answer":"A","category":1}`,
		`{}`,
		``,
		`not-json`,
		`{"question":"Q","answer":"A","category":"science"}`,
	}
	for _, body := range bodies {
		rec := doRequest(t, router, http.MethodPost, "/questions", body)
		assertError(t, rec, http.StatusBadRequest, "bad request")
	}
}

func TestHandleDeleteQuestion(t *testing.T) {
	router, _ := newSeededRouter(t, 3)

	rec := doRequest(t, router, http.MethodDelete, "/questions/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if payload := decodeBody(t, rec); payload["success"] != true {
		t.Fatalf("unexpected payload: %v", payload)
	}

	rec = doRequest(t, router, http.MethodGet, "/questions", "")
	var page struct {
		Questions []trivia.Question `json:"questions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, question := range page.Questions {
		if question.ID == 2 {
			t.Fatalf("deleted question still listed: %+v", page.Questions)
		}
	}

	rec = doRequest(t, router, http.MethodDelete, "/questions/2", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")

	rec = doRequest(t, router, http.MethodDelete, "/questions/999", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")

	rec = doRequest(t, router, http.MethodDelete, "/questions/abc", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")
}

func TestHandleSearchQuestions(t *testing.T) {
	router, store := newSeededRouter(t, 12)
	if _, err := store.CreateQuestion(context.Background(), trivia.NewQuestion{Question: "Who discovered penicillin?", Answer: "Fleming", Category: 1}); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	rec := doRequest(t, router, http.MethodPost, "/questionsearch", `{"searchTerm":"which"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Success         bool              `json:"success"`
		Questions       []trivia.Question `json:"questions"`
		TotalQuestions  int               `json:"totalQuestions"`
		CurrentCategory *int              `json:"currentCategory"`
	}
	raw := rec.Body.String()
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || len(payload.Questions) != trivia.QuestionsPerPage {
		t.Fatalf("unexpected search result: %s", raw)
	}
	// totalQuestions reports the page size, not all 12 matches.
	if payload.TotalQuestions != trivia.QuestionsPerPage {
		t.Fatalf("totalQuestions = %d, want %d", payload.TotalQuestions, trivia.QuestionsPerPage)
	}
	if payload.CurrentCategory != nil || !strings.Contains(raw, `"currentCategory":null`) {
		t.Fatalf("expected currentCategory null: %s", raw)
	}
	for _, question := range payload.Questions {
		if !strings.Contains(strings.ToLower(question.Question), "which") {
			t.Fatalf("unexpected match: %+v", question)
		}
	}
}

func TestHandleSearchQuestionsErrors(t *testing.T) {
	router, _ := newSeededRouter(t, 3)

	rec := doRequest(t, router, http.MethodPost, "/questionsearch", `{"searchTerm":"zzzznomatch"}`)
	assertError(t, rec, http.StatusBadRequest, "bad request")

	rec = doRequest(t, router, http.MethodPost, "/questionsearch", `{}`)
	assertError(t, rec, http.StatusBadRequest, "bad request")

	rec = doRequest(t, router, http.MethodPost, "/questionsearch", `{"searchTerm":42}`)
	assertError(t, rec, http.StatusUnprocessableEntity, "unprocessable")
}

func TestHandleSearchQuestionsFoldsNonASCIICase(t *testing.T) {
	router, store := newSeededRouter(t, 3)
	id, err := store.CreateQuestion(context.Background(), trivia.NewQuestion{Question: "Où est ÉCOLE?", Answer: "Ici", Category: 2})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	rec := doRequest(t, router, http.MethodPost, "/questionsearch", `{"searchTerm":"école"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var payload filteredQuestionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Questions) != 1 || payload.Questions[0].ID != id || payload.TotalQuestions != 1 {
		t.Fatalf("unexpected search result: %+v", payload)
	}
}

func TestHandleCategoryQuestions(t *testing.T) {
	router, _ := newSeededRouter(t, 9)

	rec := doRequest(t, router, http.MethodGet, "/categories/2/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Success         bool              `json:"success"`
		Questions       []trivia.Question `json:"questions"`
		TotalQuestions  int               `json:"totalQuestions"`
		CurrentCategory int               `json:"currentCategory"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || len(payload.Questions) != 3 || payload.TotalQuestions != 3 || payload.CurrentCategory != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	for _, question := range payload.Questions {
		if question.Category != 2 {
			t.Fatalf("question from wrong category: %+v", question)
		}
	}

	rec = doRequest(t, router, http.MethodGet, "/categories/8/questions", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")

	rec = doRequest(t, router, http.MethodGet, "/categories/x/questions", "")
	assertError(t, rec, http.StatusNotFound, "resource not found")
}

func TestHandlePlayQuiz(t *testing.T) {
	router, _ := newSeededRouter(t, 6)

	rec := doRequest(t, router, http.MethodPost, "/quizzes", `{"previous_questions":[],"quiz_category":{"id":0}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var payload quizResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Question == nil {
		t.Fatalf("expected a question, got %+v", payload)
	}
}

func TestHandlePlayQuizExcludesPreviousAndFiltersCategory(t *testing.T) {
	router, _ := newSeededRouter(t, 6)

	// Category 1 holds ids 1 and 4; with 1 already asked only 4 remains.
	for round := 0; round < 10; round++ {
		rec := doRequest(t, router, http.MethodPost, "/quizzes", `{"previous_questions":[1],"quiz_category":{"type":"Science","id":"1"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		var payload quizResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Question == nil || payload.Question.ID != 4 {
			t.Fatalf("expected question 4, got %+v", payload.Question)
		}
	}

	rec := doRequest(t, router, http.MethodPost, "/quizzes", `{"previous_questions":[1,4],"quiz_category":{"id":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	raw := rec.Body.String()
	if !strings.Contains(raw, `"question":null`) || !strings.Contains(raw, `"success":true`) {
		t.Fatalf("expected null question once exhausted: %s", raw)
	}
}

func TestHandlePlayQuizWithLongHistory(t *testing.T) {
	router, _ := newSeededRouter(t, 3)

	previous := make([]int, 0, 40000)
	for id := 1; id <= 40000; id++ {
		if id != 2 {
			previous = append(previous, id)
		}
	}
	encoded, err := json.Marshal(previous)
	if err != nil {
		t.Fatalf("encode previous questions: %v", err)
	}

	body := `{"previous_questions":` + string(encoded) + `,"quiz_category":{"id":0}}`
	rec := doRequest(t, router, http.MethodPost, "/quizzes", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var payload quizResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Question == nil || payload.Question.ID != 2 {
		t.Fatalf("expected question 2, got %+v", payload.Question)
	}
}

func TestHandlePlayQuizErrors(t *testing.T) {
	router, _ := newSeededRouter(t, 3)

	bodies := []string{
		`{"previous_questions":[3]}`,
		`{"previous_questions":[],"quiz_category":{"type":"click"}}`,
		`{"previous_questions":"3","quiz_category":{"id":0}}`,
		`{"previous_questions":[],"quiz_category":{"id":"science"}}`,
		``,
	}
	for _, body := range bodies {
		rec := doRequest(t, router, http.MethodPost, "/quizzes", body)
		assertError(t, rec, http.StatusUnprocessableEntity, "unprocessable")
	}
}

type failingStore struct{}

var errBroken = errors.New("connection refused")

func (failingStore) ListCategories(context.Context) ([]trivia.Category, error) {
	return nil, errBroken
}

func (failingStore) CreateCategory(context.Context, string) (trivia.Category, error) {
	return trivia.Category{}, errBroken
}

func (failingStore) ListQuestions(context.Context, trivia.QuestionFilter, int) ([]trivia.Question, error) {
	return nil, errBroken
}

func (failingStore) CountQuestions(context.Context) (int, error) {
	return 0, errBroken
}

func (failingStore) GetQuestion(context.Context, int) (trivia.Question, error) {
	return trivia.Question{}, errBroken
}

func (failingStore) CreateQuestion(context.Context, trivia.NewQuestion) (int, error) {
	return 0, errBroken
}

func (failingStore) DeleteQuestion(context.Context, int) error {
	return errBroken
}

func TestHandlersTranslateStoreFaults(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := NewRouter(trivia.NewService(failingStore{}, failingStore{}), logger)

	cases := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodGet, "/categories", "", http.StatusNotFound},
		{http.MethodGet, "/questions", "", http.StatusNotFound},
		{http.MethodDelete, "/questions/1", "", http.StatusNotFound},
		{http.MethodPost, "/questions", `{"question":"Q","answer":"A","category":1}`, http.StatusBadRequest},
		{http.MethodPost, "/questionsearch", `{"searchTerm":"which"}`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/categories/1/questions", "", http.StatusNotFound},
		{http.MethodPost, "/quizzes", `{"previous_questions":[],"quiz_category":{"id":0}}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rec := doRequest(t, router, tc.method, tc.target, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s %s: status = %d, want %d", tc.method, tc.target, rec.Code, tc.status)
		}
	}

	if !strings.Contains(logs.String(), "connection refused") {
		t.Fatalf("store faults should be logged, got %q", logs.String())
	}
}
