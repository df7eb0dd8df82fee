package usecase

import (
	"context"
	"sync"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
)

// Dashboard coordinates the issue list view: the loaded record cache, the
// live search term, the two-phase (pending vs applied) filter model, and
// pagination. All reads and transitions are synchronized, so reloads may run
// in the background while the list is being browsed.
//
// Filtering runs client-side over the loaded cache: the text search narrows
// the list on every change, while categorical and date filters only take
// effect on Apply.
type Dashboard struct {
	repo interfaces.Repository

	mu        sync.RWMutex
	issues    []*model.Issue
	search    string
	pending   *model.FilterSet
	applied   *model.FilterSet
	page      int
	limit     int
	reloadSeq uint64
}

// NewDashboard creates a dashboard coordinator. The cache starts empty;
// call Reload to populate it.
func NewDashboard(repo interfaces.Repository) *Dashboard {
	return &Dashboard{
		repo:    repo,
		pending: &model.FilterSet{},
		applied: &model.FilterSet{},
		page:    1,
		limit:   DefaultLimit,
	}
}

// Reload fetches the record set from the repository and swaps it into the
// cache. Each reload takes a sequence number; if another reload started
// while this one was in flight, the fetched (stale) snapshot is discarded
// instead of overwriting newer state. A fetch error leaves the cache
// untouched.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.mu.Lock()
	d.reloadSeq++
	seq := d.reloadSeq
	d.mu.Unlock()

	issues, err := d.repo.ListIssues(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to reload issues")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.reloadSeq {
		// A newer reload superseded this one
		return nil
	}
	d.issues = issues
	return nil
}

// ReloadAsync starts a Reload in the background and returns immediately.
// Stale-snapshot protection in Reload makes overlapping calls safe.
func (d *Dashboard) ReloadAsync(ctx context.Context) {
	async.Dispatch(ctx, d.Reload)
}

// SetSearch updates the live text search term. Search narrows the visible
// rows immediately, without Apply.
func (d *Dashboard) SetSearch(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.search = term
}

// Search returns the current search term
func (d *Dashboard) Search() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.search
}

// UpdatePending edits the pending filter set. The change has no effect on
// the visible rows until Apply.
func (d *Dashboard) UpdatePending(edit func(*model.FilterSet)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	edit(d.pending)
}

// Pending returns a copy of the filter set being edited
func (d *Dashboard) Pending() *model.FilterSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pending.Clone()
}

// Applied returns a copy of the filter set in effect
func (d *Dashboard) Applied() *model.FilterSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.applied.Clone()
}

// Apply copies the pending filter set over the applied one and resets
// pagination to the first page. Applying repeatedly is idempotent;
// last write wins.
func (d *Dashboard) Apply() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applied = d.pending.Clone()
	d.page = 1
}

// Reset clears both filter sets and resets pagination
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = &model.FilterSet{}
	d.applied = &model.FilterSet{}
	d.page = 1
}

// ClickStatusTile is the summary-tile shortcut: it sets the status filter to
// exactly the clicked status on both the pending and applied sets, bypassing
// Apply, and resets to the first page.
func (d *Dashboard) ClickStatusTile(status types.IssueStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending.Statuses = []types.IssueStatus{status}
	d.applied.Statuses = []types.IssueStatus{status}
	d.page = 1
}

// SetPage navigates to the given page. Out-of-range targets are ignored:
// the current page stays unchanged.
func (d *Dashboard) SetPage(page int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if page < 1 || page > TotalPages(len(d.filteredLocked()), d.limit) {
		return
	}
	d.page = page
}

// Page returns the current 1-based page number
func (d *Dashboard) Page() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.page
}

// SetLimit changes the rows-per-page value and resets to the first page.
// Values outside the allowed list are rejected.
func (d *Dashboard) SetLimit(limit int) error {
	if !IsAllowedLimit(limit) {
		return goerr.New("rows-per-page value is not allowed", goerr.V("limit", limit))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.limit = limit
	d.page = 1
	return nil
}

// Limit returns the current rows-per-page value
func (d *Dashboard) Limit() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.limit
}

// Rows returns the currently visible page of the filtered record set
func (d *Dashboard) Rows() []*model.Issue {
	d.mu.RLock()
	defer d.mu.RUnlock()

	filtered := d.filteredLocked()
	start, end := PageBounds(len(filtered), d.page, d.limit)
	rows := make([]*model.Issue, end-start)
	copy(rows, filtered[start:end])
	return rows
}

// Filtered returns the full filtered record set, ignoring pagination. Used
// by the CSV export, which always covers every matching row.
func (d *Dashboard) Filtered() []*model.Issue {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.filteredLocked()
}

// Total returns the number of records matching the applied filters
func (d *Dashboard) Total() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.filteredLocked())
}

// TotalPages returns the page count for the current filter and limit
func (d *Dashboard) TotalPages() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return TotalPages(len(d.filteredLocked()), d.limit)
}

// Summary derives per-status counts from the filtered record set. Counts
// cover the full filtered set, not just the visible page.
func (d *Dashboard) Summary() map[types.IssueStatus]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return CountByStatus(d.filteredLocked())
}

func (d *Dashboard) filteredLocked() []*model.Issue {
	var filtered []*model.Issue
	for _, issue := range d.issues {
		if d.applied.Match(issue, d.search) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
