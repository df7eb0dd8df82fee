package usecase

import (
	"context"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Issues implements the issue collection operations behind the HTTP
// surface: validated create/update/delete plus querying. It enforces the
// invariants a remote caller must not be trusted with, in particular the
// derived risk score.
type Issues struct {
	repo   interfaces.Repository
	master *model.MasterData
	now    func() time.Time
}

// IssuesOption is a functional option for configuring Issues
type IssuesOption func(*Issues)

// WithIssuesClock overrides the time source, used by tests
func WithIssuesClock(now func() time.Time) IssuesOption {
	return func(u *Issues) {
		u.now = now
	}
}

// NewIssues creates a new Issues use case
func NewIssues(repo interfaces.Repository, master *model.MasterData, opts ...IssuesOption) *Issues {
	u := &Issues{
		repo:   repo,
		master: master,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Query returns one filtered, paginated page of issues
func (u *Issues) Query(ctx context.Context, query *model.IssueQuery) (*model.IssueList, error) {
	return u.repo.QueryIssues(ctx, query)
}

// List returns the full ordered record set
func (u *Issues) List(ctx context.Context) ([]*model.Issue, error) {
	return u.repo.ListIssues(ctx)
}

// Create validates the payload, assigns a fresh identifier and creation
// timestamp, recomputes the derived risk score, and stores the record at the
// head of the list.
func (u *Issues) Create(ctx context.Context, issue *model.Issue) (*model.Issue, error) {
	if issue == nil {
		return nil, goerr.New("issue is nil")
	}
	if missing := issue.MissingFields(); len(missing) > 0 {
		return nil, goerr.Wrap(model.ErrMissingRequiredFields, "issue cannot be created",
			goerr.V("missing", missing))
	}

	stored := issue.Clone()
	stored.ID = types.NewIssueID()
	stored.CreatedAt = u.now()
	if !stored.Status.IsValid() {
		stored.Status = types.IssueStatusOpen
	}
	stored.RiskScore = u.master.RiskScore(stored.Risks)

	if err := u.repo.CreateIssue(ctx, stored); err != nil {
		return nil, goerr.Wrap(err, "failed to store issue")
	}
	return stored, nil
}

// Update validates the payload and replaces the stored record in place.
// The derived risk score is recomputed; a caller-supplied score is ignored.
func (u *Issues) Update(ctx context.Context, id types.IssueID, issue *model.Issue) (*model.Issue, error) {
	if issue == nil {
		return nil, goerr.New("issue is nil")
	}
	if id == "" || id.IsDraft() {
		return nil, goerr.New("issue ID is required", goerr.V("id", id))
	}
	if missing := issue.MissingFields(); len(missing) > 0 {
		return nil, goerr.Wrap(model.ErrMissingRequiredFields, "issue cannot be updated",
			goerr.V("missing", missing))
	}

	stored := issue.Clone()
	stored.ID = id
	stored.RiskScore = u.master.RiskScore(stored.Risks)

	if err := u.repo.UpdateIssue(ctx, stored); err != nil {
		return nil, goerr.Wrap(err, "failed to update issue")
	}
	return stored, nil
}

// Delete removes the record with the given ID
func (u *Issues) Delete(ctx context.Context, id types.IssueID) error {
	if id == "" {
		return goerr.New("issue ID is required")
	}
	if err := u.repo.DeleteIssue(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete issue")
	}
	return nil
}
