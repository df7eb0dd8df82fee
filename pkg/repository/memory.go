package repository

import (
	"context"
	"sync"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Memory implements Repository interface with in-memory storage. The record
// list keeps insertion order: newest creation at the head, updates in place.
type Memory struct {
	mu     sync.RWMutex
	issues []*model.Issue
}

// NewMemory creates a new memory repository
func NewMemory() *Memory {
	return &Memory{}
}

// ListIssues returns the full ordered record set
func (m *Memory) ListIssues(ctx context.Context) ([]*model.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	issues := make([]*model.Issue, len(m.issues))
	for i, issue := range m.issues {
		// Return copies to prevent external modification
		issues[i] = issue.Clone()
	}
	return issues, nil
}

// QueryIssues evaluates the filter predicate over the record set and returns
// the requested page plus the total matching count.
func (m *Memory) QueryIssues(ctx context.Context, query *model.IssueQuery) (*model.IssueList, error) {
	if query == nil {
		return nil, goerr.New("query is nil")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*model.Issue
	for _, issue := range m.issues {
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

	issues := make([]*model.Issue, len(matched))
	for i, issue := range matched {
		issues[i] = issue.Clone()
	}

	return &model.IssueList{Issues: issues, Total: total}, nil
}

// CreateIssue inserts a new record at the head of the list
func (m *Memory) CreateIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}
	if issue.ID == "" || issue.ID.IsDraft() {
		return goerr.New("issue ID must be assigned before create", goerr.V("id", issue.ID))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.issues {
		if existing.ID == issue.ID {
			return goerr.New("issue already exists", goerr.V("id", issue.ID))
		}
	}

	m.issues = append([]*model.Issue{issue.Clone()}, m.issues...)
	return nil
}

// UpdateIssue replaces the record with a matching ID in place, keeping its
// position in the list.
func (m *Memory) UpdateIssue(ctx context.Context, issue *model.Issue) error {
	if issue == nil {
		return goerr.New("issue is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.issues {
		if existing.ID == issue.ID {
			m.issues[i] = issue.Clone()
			return nil
		}
	}
	return goerr.Wrap(model.ErrIssueNotFound, "cannot update", goerr.V("id", issue.ID))
}

// DeleteIssue removes the record with the given ID
func (m *Memory) DeleteIssue(ctx context.Context, id types.IssueID) error {
	if id == "" {
		return goerr.New("issue ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.issues {
		if existing.ID == id {
			m.issues = append(m.issues[:i], m.issues[i+1:]...)
			return nil
		}
	}
	return goerr.Wrap(model.ErrIssueNotFound, "cannot delete", goerr.V("id", id))
}

// Close closes the repository connection (no-op for memory)
func (m *Memory) Close() error {
	return nil
}

// replaceAll swaps in a full record set, used by the snapshot repository on
// load.
func (m *Memory) replaceAll(issues []*model.Issue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.issues = make([]*model.Issue, len(issues))
	for i, issue := range issues {
		m.issues[i] = issue.Clone()
	}
}

var _ interfaces.Repository = (*Memory)(nil)
