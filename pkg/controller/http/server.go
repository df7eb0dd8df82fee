package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/Alexwilliam112/issue-tracker/pkg/utils/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
)

// Server is the REST surface of the issue tracker: the list/create/update/
// delete contract with comma-joined filter parameters, the master data
// lookups, and the CSV report.
type Server struct {
	*http.Server
	router   chi.Router
	issuesUC *usecase.Issues
	master   *model.MasterData
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, issuesUC *usecase.Issues, master *model.MasterData) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	s := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:   router,
		issuesUC: issuesUC,
		master:   master,
	}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Route("/issues", func(r chi.Router) {
			r.Get("/", s.handleListIssues)
			r.Post("/", s.handleCreateIssue)
			r.Get("/export", s.handleExportIssues)
			r.Put("/{id}", s.handleUpdateIssue)
			r.Delete("/{id}", s.handleDeleteIssue)
		})
		r.Get("/masterdata", s.handleMasterData)
	})

	return s
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "issue-tracker",
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrIssueNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrMissingRequiredFields):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
	} else {
		ctxlog.From(r.Context()).Debug("request rejected", "error", err, "status", status)
	}

	respondJSON(w, r, status, map[string]string{"error": err.Error()})
}
