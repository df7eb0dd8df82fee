package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// IssueQuery is the wire form of a list request: text search, filter set and
// pagination. Multi-valued dimensions travel as comma-joined identifier
// lists, date bounds as integer epoch seconds.
type IssueQuery struct {
	Search string
	Filter FilterSet
	Page   int
	Limit  int
}

// IssueList is one page of query results together with the total number of
// matching records.
type IssueList struct {
	Issues []*Issue `json:"issues"`
	Total  int      `json:"total"`
}

// Values serializes the query into URL query parameters.
func (q *IssueQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	setJoined(v, "project", q.Filter.Projects)
	setJoined(v, "environment", q.Filter.Environments)
	setJoined(v, "issue_type", q.Filter.IssueTypes)
	setJoined(v, "status", q.Filter.Statuses)
	setJoined(v, "stage", q.Filter.Stages)
	setJoined(v, "root_cause", q.Filter.RootCauses)
	setJoined(v, "risk", q.Filter.Risks)
	setJoined(v, "assignee", q.Filter.Assignees)
	setEpoch(v, "reported_from", q.Filter.ReportedFrom)
	setEpoch(v, "reported_to", q.Filter.ReportedTo)
	setEpoch(v, "resolved_from", q.Filter.ResolvedFrom)
	setEpoch(v, "resolved_to", q.Filter.ResolvedTo)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ParseIssueQuery parses URL query parameters into an IssueQuery. Unknown
// parameters are ignored; malformed numeric values are an error.
func ParseIssueQuery(v url.Values) (*IssueQuery, error) {
	q := &IssueQuery{
		Search: v.Get("search"),
		Page:   1,
	}

	q.Filter.Projects = splitJoined[types.ProjectID](v.Get("project"))
	q.Filter.Environments = splitJoined[types.EnvironmentID](v.Get("environment"))
	q.Filter.IssueTypes = splitJoined[types.IssueTypeID](v.Get("issue_type"))
	q.Filter.Statuses = splitJoined[types.IssueStatus](v.Get("status"))
	q.Filter.Stages = splitJoined[types.StageID](v.Get("stage"))
	q.Filter.RootCauses = splitJoined[types.RootCauseID](v.Get("root_cause"))
	q.Filter.Risks = splitJoined[types.RiskID](v.Get("risk"))
	q.Filter.Assignees = splitJoined[types.UserID](v.Get("assignee"))

	var err error
	if q.Filter.ReportedFrom, err = parseEpoch(v.Get("reported_from")); err != nil {
		return nil, err
	}
	if q.Filter.ReportedTo, err = parseEpoch(v.Get("reported_to")); err != nil {
		return nil, err
	}
	if q.Filter.ResolvedFrom, err = parseEpoch(v.Get("resolved_from")); err != nil {
		return nil, err
	}
	if q.Filter.ResolvedTo, err = parseEpoch(v.Get("resolved_to")); err != nil {
		return nil, err
	}

	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return nil, err
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return nil, err
		}
	}

	return q, nil
}

func setJoined[T ~string](v url.Values, key string, ids []T) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	v.Set(key, strings.Join(parts, ","))
}

func splitJoined[T ~string](s string) []T {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]T, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, T(p))
		}
	}
	return ids
}

func setEpoch(v url.Values, key string, t *time.Time) {
	if t == nil {
		return
	}
	v.Set(key, strconv.FormatInt(t.Unix(), 10))
}

func parseEpoch(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	t := time.Unix(sec, 0).UTC()
	return &t, nil
}
