package model

import (
	"strings"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// FilterSet is the multi-dimensional filter criteria for the issue list.
// Two instances exist at a time on the dashboard: the pending set being
// edited and the applied set in effect. A FilterSet is never persisted.
//
// Matching is a conjunction across dimensions; within a multi-valued
// dimension a record matches if its value is any one of the selected values.
// An empty dimension matches everything.
type FilterSet struct {
	Projects     []types.ProjectID
	Environments []types.EnvironmentID
	IssueTypes   []types.IssueTypeID
	Statuses     []types.IssueStatus
	Stages       []types.StageID
	RootCauses   []types.RootCauseID
	Risks        []types.RiskID
	Assignees    []types.UserID

	ReportedFrom *time.Time
	ReportedTo   *time.Time
	ResolvedFrom *time.Time
	ResolvedTo   *time.Time
}

// IsEmpty reports whether no dimension is active.
func (f *FilterSet) IsEmpty() bool {
	return len(f.Projects) == 0 &&
		len(f.Environments) == 0 &&
		len(f.IssueTypes) == 0 &&
		len(f.Statuses) == 0 &&
		len(f.Stages) == 0 &&
		len(f.RootCauses) == 0 &&
		len(f.Risks) == 0 &&
		len(f.Assignees) == 0 &&
		f.ReportedFrom == nil && f.ReportedTo == nil &&
		f.ResolvedFrom == nil && f.ResolvedTo == nil
}

// ActiveCount returns the number of active filter dimensions, used for the
// filter badge on the dashboard.
func (f *FilterSet) ActiveCount() int {
	n := len(f.Projects) + len(f.Environments) + len(f.IssueTypes) +
		len(f.Statuses) + len(f.Stages) + len(f.RootCauses) +
		len(f.Risks) + len(f.Assignees)
	for _, t := range []*time.Time{f.ReportedFrom, f.ReportedTo, f.ResolvedFrom, f.ResolvedTo} {
		if t != nil {
			n++
		}
	}
	return n
}

// Clone returns a deep copy, so applying pending filters cannot alias the
// slices still being edited.
func (f *FilterSet) Clone() *FilterSet {
	c := &FilterSet{
		Projects:     append([]types.ProjectID(nil), f.Projects...),
		Environments: append([]types.EnvironmentID(nil), f.Environments...),
		IssueTypes:   append([]types.IssueTypeID(nil), f.IssueTypes...),
		Statuses:     append([]types.IssueStatus(nil), f.Statuses...),
		Stages:       append([]types.StageID(nil), f.Stages...),
		RootCauses:   append([]types.RootCauseID(nil), f.RootCauses...),
		Risks:        append([]types.RiskID(nil), f.Risks...),
		Assignees:    append([]types.UserID(nil), f.Assignees...),
	}
	c.ReportedFrom = cloneTime(f.ReportedFrom)
	c.ReportedTo = cloneTime(f.ReportedTo)
	c.ResolvedFrom = cloneTime(f.ResolvedFrom)
	c.ResolvedTo = cloneTime(f.ResolvedTo)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Match evaluates the filter predicate plus the text search term against a
// single issue. The search term is a case-insensitive substring match on
// title, identifier, or project name; an empty term matches everything.
func (f *FilterSet) Match(issue *Issue, search string) bool {
	if !matchSearch(issue, search) {
		return false
	}
	if !memberOf(string(issue.Project.ID), f.Projects) {
		return false
	}
	if !memberOf(string(issue.Environment.ID), f.Environments) {
		return false
	}
	if !memberOf(string(issue.IssueType.ID), f.IssueTypes) {
		return false
	}
	if !memberOf(string(issue.Status), f.Statuses) {
		return false
	}
	if !memberOf(string(issue.Stage.ID), f.Stages) {
		return false
	}
	if !memberOf(string(issue.RootCause.ID), f.RootCauses) {
		return false
	}
	if !memberOf(string(issue.Assignee.ID), f.Assignees) {
		return false
	}
	if !intersects(issue.Risks, f.Risks) {
		return false
	}
	if !withinRange(&issue.ReportedAt, f.ReportedFrom, f.ReportedTo) {
		return false
	}

	// Resolved-date bounds never match an issue that has no resolution
	// timestamp.
	if f.ResolvedFrom != nil || f.ResolvedTo != nil {
		if issue.ClosedAt == nil {
			return false
		}
		if !withinRange(issue.ClosedAt, f.ResolvedFrom, f.ResolvedTo) {
			return false
		}
	}

	return true
}

func matchSearch(issue *Issue, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	return strings.Contains(strings.ToLower(issue.Title), term) ||
		strings.Contains(strings.ToLower(string(issue.ID)), term) ||
		strings.Contains(strings.ToLower(issue.Project.Name), term)
}

func memberOf[T ~string](value string, selected []T) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if string(s) == value {
			return true
		}
	}
	return false
}

func intersects(values, selected []types.RiskID) bool {
	if len(selected) == 0 {
		return true
	}
	for _, v := range values {
		for _, s := range selected {
			if v == s {
				return true
			}
		}
	}
	return false
}

func withinRange(t, from, to *time.Time) bool {
	if t == nil {
		return from == nil && to == nil
	}
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
