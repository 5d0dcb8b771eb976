package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"trivia-api/internal/trivia"
)

var (
	corsAllowedHeaders = []string{"Content-Type", "Authorization"}
	corsAllowedMethods = []string{
		http.MethodGet,
		http.MethodPatch,
		http.MethodPost,
		http.MethodDelete,
		http.MethodOptions,
	}
)

func NewRouter(service *trivia.Service, logger *slog.Logger) http.Handler {
	api := NewAPI(service, logger)

	mux := chi.NewRouter()
	mux.Use(api.logRequests)
	mux.Use(api.recoverPanics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedHeaders: corsAllowedHeaders,
		AllowedMethods: corsAllowedMethods,
	}))
	mux.Use(corsHeaders)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound)
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed)
	})

	mux.Route("/categories", func(r chi.Router) {
		r.Get("/", api.HandleListCategories)
		r.Get("/{category_id}/questions", api.HandleCategoryQuestions)
	})
	mux.Route("/questions", func(r chi.Router) {
		r.Get("/", api.HandleListQuestions)
		r.Post("/", api.HandleCreateQuestion)
		r.Delete("/{question_id}", api.HandleDeleteQuestion)
	})
	mux.Post("/questionsearch", api.HandleSearchQuestions)
	mux.Post("/quizzes", api.HandlePlayQuiz)

	return mux
}
