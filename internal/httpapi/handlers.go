package httpapi

import (
	"errors"
	"net/http"

	"trivia-api/internal/trivia"
)

// currentCategoryPlaceholder is what GET /questions has always reported as
// "current category"; clients depend on the key being present.
const currentCategoryPlaceholder = 1

func (a *API) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.service.ListCategories(r.Context())
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, categoriesResponse{
		Success:    true,
		Categories: categoryMap(categories),
	})
}

func (a *API) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := a.service.ListQuestions(r.Context())
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		Categories:      categoryMap(page.Categories),
		CurrentCategory: currentCategoryPlaceholder,
	})
}

func (a *API) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := parsePathInt(r, "question_id")
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	if err := a.service.DeleteQuestion(r.Context(), questionID); err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (a *API) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var request createQuestionRequest
	if err := decodeJSON(r, &request); err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}

	question, err := request.validate()
	if err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}

	id, err := a.service.CreateQuestion(r.Context(), question)
	if err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, createQuestionResponse{
		Success: true,
		Created: id,
	})
}

func (a *API) HandleSearchQuestions(w http.ResponseWriter, r *http.Request) {
	var request searchRequest
	if err := decodeJSON(r, &request); err != nil {
		a.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	term, err := request.validate()
	if err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}

	questions, err := a.service.SearchQuestions(r.Context(), term)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, trivia.ErrNotFound) {
			status = http.StatusBadRequest
		}
		a.fail(w, r, status, err)
		return
	}

	writeJSON(w, http.StatusOK, filteredQuestionsResponse{
		Success:         true,
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: nil,
	})
}

func (a *API) HandleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parsePathInt(r, "category_id")
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	questions, err := a.service.QuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	writeJSON(w, http.StatusOK, filteredQuestionsResponse{
		Success:         true,
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: &categoryID,
	})
}

func (a *API) HandlePlayQuiz(w http.ResponseWriter, r *http.Request) {
	var request quizRequest
	if err := decodeJSON(r, &request); err != nil {
		a.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	question, err := a.service.PlayQuiz(r.Context(), request.toQuizRequest())
	if err != nil {
		a.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, quizResponse{
		Success:  true,
		Question: question,
	})
}
