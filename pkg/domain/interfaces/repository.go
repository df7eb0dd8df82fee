package interfaces

import (
	"context"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// Repository defines the interface for issue persistence. Implementations
// keep the record list ordered with the newest creation at the head.
type Repository interface {
	// ListIssues returns the full ordered record set
	ListIssues(ctx context.Context) ([]*model.Issue, error)

	// QueryIssues returns one filtered, paginated page plus the total
	// matching count
	QueryIssues(ctx context.Context, query *model.IssueQuery) (*model.IssueList, error)

	// CreateIssue inserts a new record at the head of the list
	CreateIssue(ctx context.Context, issue *model.Issue) error

	// UpdateIssue replaces the record with a matching ID in place
	UpdateIssue(ctx context.Context, issue *model.Issue) error

	// DeleteIssue removes the record with the given ID
	DeleteIssue(ctx context.Context, id types.IssueID) error

	// Close closes the repository connection
	Close() error
}
