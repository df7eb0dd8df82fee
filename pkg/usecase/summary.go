package usecase

import (
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// CountByStatus derives per-status counts for the dashboard tiles. Only
// statuses in the known enum are counted; unknown statuses are ignored.
func CountByStatus(issues []*model.Issue) map[types.IssueStatus]int {
	counts := make(map[types.IssueStatus]int, len(types.StatusFlow))
	for _, status := range types.StatusFlow {
		counts[status] = 0
	}
	for _, issue := range issues {
		if _, ok := counts[issue.Status]; ok {
			counts[issue.Status]++
		}
	}
	return counts
}
