package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/Alexwilliam112/issue-tracker/pkg/utils/apperr"
	"github.com/go-chi/chi/v5"
)

// handleListIssues serves one filtered, paginated page of issues. Filter
// dimensions arrive as comma-joined identifier lists, date bounds as epoch
// seconds.
func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	query, err := model.ParseIssueQuery(r.URL.Query())
	if err != nil {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid query parameters"})
		return
	}
	if query.Limit <= 0 {
		query.Limit = usecase.DefaultLimit
	}

	list, err := s.issuesUC.Query(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list.Issues == nil {
		list.Issues = []*model.Issue{}
	}

	respondJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	var payload model.Issue
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return
	}

	issue, err := s.issuesUC.Create(r.Context(), &payload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, issue)
}

func (s *Server) handleUpdateIssue(w http.ResponseWriter, r *http.Request) {
	id := types.IssueID(chi.URLParam(r, "id"))

	var payload model.Issue
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return
	}

	issue, err := s.issuesUC.Update(r.Context(), id, &payload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, issue)
}

func (s *Server) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	id := types.IssueID(chi.URLParam(r, "id"))

	if err := s.issuesUC.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleExportIssues streams the CSV report of every issue matching the
// filter parameters. Pagination does not apply to the report.
func (s *Server) handleExportIssues(w http.ResponseWriter, r *http.Request) {
	query, err := model.ParseIssueQuery(r.URL.Query())
	if err != nil {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid query parameters"})
		return
	}
	query.Page = 1
	query.Limit = 0 // full filtered set

	list, err := s.issuesUC.Query(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("IssueTracker_Export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := usecase.WriteCSV(w, list.Issues, s.master); err != nil {
		// Headers are already out; log and give up on this response
		apperr.Handle(r.Context(), err)
	}
}

func (s *Server) handleMasterData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.master)
}
