package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	issuesCollection = "issues"

	// Must match the firestore struct tag on model.Issue.CreatedAt, not the
	// Go field name. OrderBy on a missing field drops every document.
	fieldCreatedAt = "createdAt"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Test connection by attempting to read from the collection. This fails
	// fast on an invalid project ID or missing permissions.
	_, err = client.Collection(issuesCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		// Other errors (like NotFound for new projects) are fine here
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// ListIssues returns the full record set ordered newest-first
func (f *Firestore) ListIssues(ctx context.Context) ([]*model.Issue, error) {
	query := f.client.Collection(issuesCollection).
		OrderBy(fieldCreatedAt, firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var issues []*model.Issue
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate issues")
		}

		var issue model.Issue
		if err := doc.DataTo(&issue); err != nil {
			return nil, goerr.Wrap(err, "failed to decode issue",
				goerr.V("doc", doc.Ref.ID))
		}
		issues = append(issues, &issue)
	}

	return issues, nil
}

// QueryIssues loads the ordered record set and evaluates the filter
// predicate in memory. Firestore cannot express the multi-dimensional
// disjunction-within-conjunction predicate without composite indexes per
// dimension combination, so matching happens here.
func (f *Firestore) QueryIssues(ctx context.Context, query *model.IssueQuery) (*model.IssueList, error) {
	if query == nil {
		return nil, goerr.New("query is nil")
	}

	issues, err := f.ListIssues(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*model.Issue
	for _, issue := range issues {
		if query.Filter.Match(issue, query.Search) {
			matched = append(matched, issue)
		}
	}

	total := len(matched)
	if query.Limit > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * query.Limit
		if offset >= total {
			matched = nil
		} else {
			end := offset + query.Limit
			if end > total {
				end = total
			}
			matched = matched[offset:end]
		}
	}

	return &model.IssueList{Issues: matched, Total: total}, nil
}

// CreateIssue saves a new issue document
func (f *Firestore) CreateIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}
	if issue.ID == "" || issue.ID.IsDraft() {
		return goerr.New("issue ID must be assigned before create", goerr.V("id", issue.ID))
	}

	_, err := f.client.Collection(issuesCollection).Doc(issue.ID.String()).Create(ctx, issue)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.New("issue already exists", goerr.V("id", issue.ID))
		}
		return goerr.Wrap(err, "failed to create issue in firestore")
	}

	return nil
}

// UpdateIssue replaces an existing issue document
func (f *Firestore) UpdateIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}

	ref := f.client.Collection(issuesCollection).Doc(issue.ID.String())
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrIssueNotFound, "cannot update", goerr.V("id", issue.ID))
		}
		return goerr.Wrap(err, "failed to get issue from firestore")
	}

	if _, err := ref.Set(ctx, issue); err != nil {
		return goerr.Wrap(err, "failed to update issue in firestore")
	}

	return nil
}

// DeleteIssue removes an issue document
func (f *Firestore) DeleteIssue(ctx context.Context, id types.IssueID) error {
	if id == "" {
		return goerr.New("issue ID is empty")
	}

	ref := f.client.Collection(issuesCollection).Doc(id.String())
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrIssueNotFound, "cannot delete", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get issue from firestore")
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete issue from firestore")
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
