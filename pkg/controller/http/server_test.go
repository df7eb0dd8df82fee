package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	controller "github.com/Alexwilliam112/issue-tracker/pkg/controller/http"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/repository"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func setupServer(t *testing.T, issues ...*model.Issue) (http.Handler, *repository.Memory) {
	t.Helper()
	repo := repository.NewMemory()
	ctx := context.Background()
	for i := len(issues) - 1; i >= 0; i-- {
		gt.NoError(t, repo.CreateIssue(ctx, issues[i])).Required()
	}

	master := model.DefaultMasterData()
	uc := usecase.NewIssues(repo, master)
	srv := controller.NewServer(ctx, "localhost:0", uc, master)
	return srv.Handler, repo
}

func storedIssue(id, title string, status types.IssueStatus, project model.Reference) *model.Issue {
	return &model.Issue{
		ID:               types.IssueID(id),
		Title:            title,
		Status:           status,
		Stage:            model.Reference{ID: "triage", Name: "Triage"},
		Project:          project,
		Environment:      model.Reference{ID: "production", Name: "Production"},
		IssueType:        model.Reference{ID: "bug", Name: "Bug"},
		ReportedBy:       model.Reference{ID: "alice", Name: "Alice Engineer"},
		ReportedAt:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Context:          "context",
		ProblemStatement: "problem",
		CreatedAt:        time.Now(),
	}
}

var (
	alphaRef = model.Reference{ID: "alpha-api", Name: "Alpha API"}
	betaRef  = model.Reference{ID: "beta-frontend", Name: "Beta Frontend"}
)

func TestHealthEndpoint(t *testing.T) {
	handler, _ := setupServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Equal(t, http.StatusOK, rec.Code)
	gt.True(t, strings.Contains(rec.Body.String(), "healthy"))
}

func TestListIssuesEndpoint(t *testing.T) {
	handler, _ := setupServer(t,
		storedIssue("i1", "Payment gateway timeout", types.IssueStatusOpen, alphaRef),
		storedIssue("i2", "Login crash", types.IssueStatusResolved, betaRef),
	)

	t.Run("All", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues", nil))
		gt.Equal(t, http.StatusOK, rec.Code)

		var list model.IssueList
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list)).Required()
		gt.Equal(t, 2, list.Total)
		gt.Equal(t, 2, len(list.Issues))
	})

	t.Run("StatusFilter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues?status=Resolved", nil))
		gt.Equal(t, http.StatusOK, rec.Code)

		var list model.IssueList
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list)).Required()
		gt.Equal(t, 1, list.Total)
		gt.Equal(t, types.IssueID("i2"), list.Issues[0].ID)
	})

	t.Run("SearchParam", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues?search=gateway", nil))
		gt.Equal(t, http.StatusOK, rec.Code)

		var list model.IssueList
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list)).Required()
		gt.Equal(t, 1, list.Total)
	})

	t.Run("NegativeLimitFallsBackToDefault", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues?limit=-5&page=2", nil))
		gt.Equal(t, http.StatusOK, rec.Code)

		// Page 2 of a default-sized page is past the end of two records. A
		// non-positive limit must not disable pagination.
		var list model.IssueList
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list)).Required()
		gt.Equal(t, 2, list.Total)
		gt.Equal(t, 0, len(list.Issues))
	})

	t.Run("MalformedPage", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues?page=abc", nil))
		gt.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EmptyResultIsNotNull", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues?search=zzzz", nil))
		gt.Equal(t, http.StatusOK, rec.Code)
		gt.True(t, strings.Contains(rec.Body.String(), `"issues":[]`))
	})
}

func TestCreateIssueEndpoint(t *testing.T) {
	handler, _ := setupServer(t)

	t.Run("Created", func(t *testing.T) {
		payload := storedIssue("", "New issue", types.IssueStatusOpen, alphaRef)
		payload.Risks = []types.RiskID{"sla-breach", "reputation-damage"}
		body, err := json.Marshal(payload)
		gt.NoError(t, err).Required()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/issues", bytes.NewReader(body)))
		gt.Equal(t, http.StatusCreated, rec.Code)

		var created model.Issue
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
		gt.NotEqual(t, types.IssueID(""), created.ID)
		gt.Equal(t, 15, created.RiskScore)
	})

	t.Run("MissingFields", func(t *testing.T) {
		body := []byte(`{"title": "incomplete"}`)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/issues", bytes.NewReader(body)))
		gt.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/issues", strings.NewReader("{")))
		gt.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateIssueEndpoint(t *testing.T) {
	handler, _ := setupServer(t,
		storedIssue("i1", "Original", types.IssueStatusOpen, alphaRef),
	)

	t.Run("Updated", func(t *testing.T) {
		payload := storedIssue("i1", "Edited", types.IssueStatusInProcess, alphaRef)
		body, err := json.Marshal(payload)
		gt.NoError(t, err).Required()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/issues/i1", bytes.NewReader(body)))
		gt.Equal(t, http.StatusOK, rec.Code)

		var updated model.Issue
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated)).Required()
		gt.Equal(t, "Edited", updated.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		payload := storedIssue("missing", "Nope", types.IssueStatusOpen, alphaRef)
		body, err := json.Marshal(payload)
		gt.NoError(t, err).Required()

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/issues/missing", bytes.NewReader(body)))
		gt.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteIssueEndpoint(t *testing.T) {
	handler, repo := setupServer(t,
		storedIssue("i1", "Doomed", types.IssueStatusOpen, alphaRef),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/issues/i1", nil))
	gt.Equal(t, http.StatusNoContent, rec.Code)

	issues, err := repo.ListIssues(context.Background())
	gt.NoError(t, err).Required()
	gt.Equal(t, 0, len(issues))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/issues/i1", nil))
	gt.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	handler, _ := setupServer(t,
		storedIssue("i1", "Payment gateway timeout", types.IssueStatusOpen, alphaRef),
		storedIssue("i2", "Login crash", types.IssueStatusResolved, betaRef),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues/export", nil))
	gt.Equal(t, http.StatusOK, rec.Code)

	gt.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	gt.True(t, strings.Contains(rec.Header().Get("Content-Disposition"), "IssueTracker_Export_"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	gt.Equal(t, 3, len(lines)) // header plus one row per issue
	gt.True(t, strings.HasPrefix(lines[0], "ID,Title,Status"))

	t.Run("FilteredExport", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/issues/export?status=Resolved", nil))
		gt.Equal(t, http.StatusOK, rec.Code)

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		gt.Equal(t, 2, len(lines))
		gt.True(t, strings.Contains(lines[1], "Login crash"))
	})
}

func TestMasterDataEndpoint(t *testing.T) {
	handler, _ := setupServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/masterdata", nil))
	gt.Equal(t, http.StatusOK, rec.Code)

	var master model.MasterData
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &master)).Required()
	gt.True(t, len(master.Projects) > 0)
	gt.True(t, len(master.Risks) > 0)
}
