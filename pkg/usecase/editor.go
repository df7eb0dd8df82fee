package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// EditorState is the tagged state of the editing session. Only the creating
// and editing states carry a live draft; no nested or concurrent sessions
// exist.
type EditorState string

const (
	EditorClosed   EditorState = "closed"
	EditorCreating EditorState = "creating"
	EditorEditing  EditorState = "editing"
)

// Editor owns the single draft record being created or edited. Every
// mutation operates on the in-memory draft only; the record store is touched
// exclusively by Commit and Delete. Discarding the draft leaves the store
// exactly as it was when the session opened.
type Editor struct {
	master *model.MasterData
	user   model.Reference // identity stamped on comments
	now    func() time.Time

	state EditorState
	draft *model.Issue
}

// EditorOption is a functional option for configuring Editor
type EditorOption func(*Editor)

// WithClock overrides the editor's time source, used by tests
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) {
		e.now = now
	}
}

// NewEditor creates an editor for the given master data and current user
func NewEditor(master *model.MasterData, user model.Reference, opts ...EditorOption) *Editor {
	e := &Editor{
		master: master,
		user:   user,
		now:    time.Now,
		state:  EditorClosed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current session state
func (e *Editor) State() EditorState {
	return e.state
}

// Draft returns the live draft, or nil when the session is closed. Callers
// render from it but must mutate only through the editor's operations.
func (e *Editor) Draft() *model.Issue {
	return e.draft
}

// OpenCreate starts a creation session with a blank draft: status Open, the
// first configured stage, default environment, ReportedAt stamped now, and
// an audit trail seeded with the draft-start entry.
func (e *Editor) OpenCreate() error {
	if e.state != EditorClosed {
		return goerr.Wrap(model.ErrEditorBusy, "cannot open create session")
	}

	now := e.now()
	draft := &model.Issue{
		ID:         types.DraftIssueID,
		Status:     types.IssueStatusOpen,
		Stage:      e.master.FirstStage(),
		ReportedAt: now,
		Risks:      []types.RiskID{},
	}
	if len(e.master.Environments) > 0 {
		draft.Environment = e.master.Environments[0]
	}
	draft.AppendAudit("Draft Started", now)

	e.draft = draft
	e.state = EditorCreating
	return nil
}

// OpenEdit starts an editing session on a deep copy of the given record
func (e *Editor) OpenEdit(issue *model.Issue) error {
	if e.state != EditorClosed {
		return goerr.Wrap(model.ErrEditorBusy, "cannot open edit session")
	}
	if issue == nil {
		return goerr.New("issue is nil")
	}

	e.draft = issue.Clone()
	e.state = EditorEditing
	return nil
}

// Discard drops the draft without committing anything
func (e *Editor) Discard() {
	e.draft = nil
	e.state = EditorClosed
}

func (e *Editor) open() (*model.Issue, error) {
	if e.draft == nil {
		return nil, goerr.Wrap(model.ErrNoDraft, "editor session is closed")
	}
	return e.draft, nil
}

// SetTitle replaces the draft title
func (e *Editor) SetTitle(title string) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Title = title
	return nil
}

// SetProject replaces the draft's project reference
func (e *Editor) SetProject(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Project = ref
	return nil
}

// SetEnvironment replaces the draft's environment reference
func (e *Editor) SetEnvironment(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Environment = ref
	return nil
}

// SetIssueType replaces the draft's issue type reference
func (e *Editor) SetIssueType(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.IssueType = ref
	return nil
}

// SetReportedBy replaces the draft's reporter
func (e *Editor) SetReportedBy(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.ReportedBy = ref
	return nil
}

// SetReportedAt replaces the draft's report timestamp
func (e *Editor) SetReportedAt(t time.Time) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.ReportedAt = t
	return nil
}

// SetAssignee replaces the draft's assignee
func (e *Editor) SetAssignee(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Assignee = ref
	return nil
}

// SetClosedAt replaces the draft's resolution timestamp; nil clears it
func (e *Editor) SetClosedAt(t *time.Time) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	if t == nil {
		draft.ClosedAt = nil
	} else {
		ts := *t
		draft.ClosedAt = &ts
	}
	return nil
}

// SetContext replaces the draft's context narrative
func (e *Editor) SetContext(text string) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Context = text
	return nil
}

// SetProblemStatement replaces the draft's problem statement
func (e *Editor) SetProblemStatement(text string) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.ProblemStatement = text
	return nil
}

// SetEvidence replaces the draft's evidence narrative
func (e *Editor) SetEvidence(text string) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Evidence = text
	return nil
}

// SetRootCause replaces the draft's root cause category
func (e *Editor) SetRootCause(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.RootCause = ref
	return nil
}

// SetRootCauseDetail replaces the draft's root cause free text
func (e *Editor) SetRootCauseDetail(text string) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.RootCauseDetail = text
	return nil
}

// UpdateRisks replaces the draft's risk set (deduplicated, insertion order
// kept) and recomputes the derived risk score from the master data weights.
// The score is never set any other way.
func (e *Editor) UpdateRisks(ids []types.RiskID) error {
	draft, err := e.open()
	if err != nil {
		return err
	}

	seen := make(map[types.RiskID]bool, len(ids))
	deduped := make([]types.RiskID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}

	draft.Risks = deduped
	draft.RiskScore = e.master.RiskScore(deduped)
	return nil
}

// SetStatus replaces the draft status and appends an audit entry
func (e *Editor) SetStatus(status types.IssueStatus) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	if !status.IsValid() {
		return goerr.New("invalid issue status", goerr.V("status", status))
	}
	draft.Status = status
	draft.AppendAudit("Status changed to "+status.String(), e.now())
	return nil
}

// SetStage replaces the draft stage and appends an audit entry
func (e *Editor) SetStage(ref model.Reference) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	draft.Stage = ref
	draft.AppendAudit("Stage changed to "+ref.Name, e.now())
	return nil
}

// AddLayer appends a new pending escalation layer. A new layer cannot be
// opened while the most recent layer is still pending; the rejection leaves
// the draft unchanged.
func (e *Editor) AddLayer() (*model.EscalationLayer, error) {
	draft, err := e.open()
	if err != nil {
		return nil, err
	}

	if last := draft.LatestEscalation(); last != nil && last.Status != types.LayerStatusDone {
		return nil, goerr.Wrap(model.ErrEscalationPending, "cannot add escalation layer",
			goerr.V("layer", last.Layer))
	}

	layer := model.NewEscalationLayer(len(draft.Escalations) + 1)
	draft.Escalations = append(draft.Escalations, layer)
	return &draft.Escalations[len(draft.Escalations)-1], nil
}

func (e *Editor) findLayer(id types.LayerID) (*model.EscalationLayer, error) {
	draft, err := e.open()
	if err != nil {
		return nil, err
	}
	for i := range draft.Escalations {
		if draft.Escalations[i].ID == id {
			return &draft.Escalations[i], nil
		}
	}
	return nil, goerr.Wrap(model.ErrLayerNotFound, "unknown layer", goerr.V("id", id))
}

// SetLayerStatus updates the status of an escalation layer
func (e *Editor) SetLayerStatus(id types.LayerID, status types.LayerStatus) error {
	if !status.IsValid() {
		return goerr.New("invalid layer status", goerr.V("status", status))
	}
	layer, err := e.findLayer(id)
	if err != nil {
		return err
	}
	layer.Status = status
	return nil
}

// SetLayerRemarks updates the free-text remarks of an escalation layer
func (e *Editor) SetLayerRemarks(id types.LayerID, remarks string) error {
	layer, err := e.findLayer(id)
	if err != nil {
		return err
	}
	layer.Remarks = remarks
	return nil
}

// AddStakeholder adds a person to a layer. Adding a person who is already
// present is a no-op. The first stakeholder of an empty layer automatically
// becomes its decision maker.
func (e *Editor) AddStakeholder(id types.LayerID, person model.Reference) error {
	layer, err := e.findLayer(id)
	if err != nil {
		return err
	}
	if layer.HasStakeholder(person.ID) {
		return nil
	}
	layer.Stakeholders = append(layer.Stakeholders, model.Stakeholder{
		Person:          person,
		IsDecisionMaker: len(layer.Stakeholders) == 0,
	})
	return nil
}

// RemoveStakeholder removes a person from a layer
func (e *Editor) RemoveStakeholder(id types.LayerID, personID string) error {
	layer, err := e.findLayer(id)
	if err != nil {
		return err
	}
	for i, s := range layer.Stakeholders {
		if s.Person.ID == personID {
			layer.Stakeholders = append(layer.Stakeholders[:i], layer.Stakeholders[i+1:]...)
			return nil
		}
	}
	return nil
}

// SetDecisionMaker marks one stakeholder of a layer as the decision maker,
// clearing the flag on every other stakeholder in that layer.
func (e *Editor) SetDecisionMaker(id types.LayerID, personID string) error {
	layer, err := e.findLayer(id)
	if err != nil {
		return err
	}
	for i := range layer.Stakeholders {
		layer.Stakeholders[i].IsDecisionMaker = layer.Stakeholders[i].Person.ID == personID
	}
	return nil
}

// DeleteLayer removes an escalation layer unconditionally; destructive-action
// confirmation belongs to the caller. Remaining layers are renumbered so
// layer numbers stay equal to their 1-based positions.
func (e *Editor) DeleteLayer(id types.LayerID) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	for i := range draft.Escalations {
		if draft.Escalations[i].ID == id {
			draft.Escalations = append(draft.Escalations[:i], draft.Escalations[i+1:]...)
			for j := range draft.Escalations {
				draft.Escalations[j].Layer = j + 1
			}
			return nil
		}
	}
	return goerr.Wrap(model.ErrLayerNotFound, "unknown layer", goerr.V("id", id))
}

// AddResolution appends a resolution proposal. New proposals are never
// agreed.
func (e *Editor) AddResolution(solution, pros, cons, concerns string, effortHours int) (*model.Resolution, error) {
	draft, err := e.open()
	if err != nil {
		return nil, err
	}
	draft.Resolutions = append(draft.Resolutions, model.NewResolution(solution, pros, cons, concerns, effortHours))
	return &draft.Resolutions[len(draft.Resolutions)-1], nil
}

func (e *Editor) findResolution(id types.ResolutionID) (*model.Resolution, error) {
	draft, err := e.open()
	if err != nil {
		return nil, err
	}
	for i := range draft.Resolutions {
		if draft.Resolutions[i].ID == id {
			return &draft.Resolutions[i], nil
		}
	}
	return nil, goerr.Wrap(model.ErrResolutionNotFound, "unknown resolution", goerr.V("id", id))
}

// ResolutionPatch carries field-level updates for a resolution proposal.
// Nil fields are left unchanged.
type ResolutionPatch struct {
	Solution    *string
	Pros        *string
	Cons        *string
	Concerns    *string
	EffortHours *int
}

// UpdateResolution applies a field-level patch to a resolution proposal.
// The agreement flag is only ever changed through ToggleAgreement.
func (e *Editor) UpdateResolution(id types.ResolutionID, patch ResolutionPatch) error {
	res, err := e.findResolution(id)
	if err != nil {
		return err
	}
	if patch.Solution != nil {
		res.Solution = *patch.Solution
	}
	if patch.Pros != nil {
		res.Pros = *patch.Pros
	}
	if patch.Cons != nil {
		res.Cons = *patch.Cons
	}
	if patch.Concerns != nil {
		res.Concerns = *patch.Concerns
	}
	if patch.EffortHours != nil {
		res.EffortHours = *patch.EffortHours
	}
	return nil
}

// ToggleAgreement flips the agreement flag on a resolution. Agreeing on one
// proposal clears agreement on every other proposal; toggling off simply
// clears it. An unknown ID leaves every proposal untouched.
func (e *Editor) ToggleAgreement(id types.ResolutionID) error {
	target, err := e.findResolution(id)
	if err != nil {
		return err
	}

	next := !target.IsAgreed
	for i := range e.draft.Resolutions {
		e.draft.Resolutions[i].IsAgreed = false
	}
	target.IsAgreed = next
	return nil
}

// DeleteResolution removes a resolution proposal unconditionally;
// confirmation belongs to the caller.
func (e *Editor) DeleteResolution(id types.ResolutionID) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	for i := range draft.Resolutions {
		if draft.Resolutions[i].ID == id {
			draft.Resolutions = append(draft.Resolutions[:i], draft.Resolutions[i+1:]...)
			return nil
		}
	}
	return goerr.Wrap(model.ErrResolutionNotFound, "unknown resolution", goerr.V("id", id))
}

// AddComment appends a comment stamped with the editor's user identity and
// the current time. Empty or whitespace-only text is a no-op.
func (e *Editor) AddComment(text string) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	draft.Comments = append(draft.Comments, model.Comment{
		ID:        types.NewCommentID(),
		User:      e.user,
		Text:      text,
		Timestamp: e.now(),
	})
	return nil
}

// Validate returns the names of required fields the draft is still missing,
// in the order they are surfaced to the user. An empty result means the
// draft can be committed.
func (e *Editor) Validate() []string {
	if e.draft == nil {
		return nil
	}
	return e.draft.MissingFields()
}

// Commit validates the draft and writes it to the repository: a creation
// gets a fresh identifier and creation timestamp with its queued audit
// entries restamped to the commit time and lands at the head of the record
// list; an edit replaces the stored record in place. On any failure the
// draft is retained and nothing is stored. On success the session closes.
func (e *Editor) Commit(ctx context.Context, repo interfaces.Repository) (*model.Issue, error) {
	draft, err := e.open()
	if err != nil {
		return nil, err
	}

	if missing := draft.MissingFields(); len(missing) > 0 {
		return nil, goerr.Wrap(model.ErrMissingRequiredFields, "draft cannot be committed",
			goerr.V("missing", missing))
	}

	issue := draft.Clone()

	switch e.state {
	case EditorCreating:
		now := e.now()
		issue.ID = types.NewIssueID()
		issue.CreatedAt = now
		for i := range issue.AuditLog {
			issue.AuditLog[i].Timestamp = now
		}
		if err := repo.CreateIssue(ctx, issue); err != nil {
			return nil, goerr.Wrap(err, "failed to create issue")
		}

	case EditorEditing:
		if err := repo.UpdateIssue(ctx, issue); err != nil {
			return nil, goerr.Wrap(err, "failed to update issue")
		}

	default:
		return nil, goerr.Wrap(model.ErrNoDraft, "editor session is closed")
	}

	e.Discard()
	return issue, nil
}

// Delete removes the record under edit from the repository and closes the
// session. Only an editing session can delete; confirmation belongs to the
// caller.
func (e *Editor) Delete(ctx context.Context, repo interfaces.Repository) error {
	draft, err := e.open()
	if err != nil {
		return err
	}
	if e.state != EditorEditing {
		return goerr.New("only an existing record can be deleted", goerr.V("state", e.state))
	}

	if err := repo.DeleteIssue(ctx, draft.ID); err != nil {
		return goerr.Wrap(err, "failed to delete issue")
	}

	e.Discard()
	return nil
}
