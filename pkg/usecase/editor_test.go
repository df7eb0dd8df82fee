package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/repository"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/m-mizutani/gt"
)

var editorUser = model.Reference{ID: "alice", Name: "Alice Engineer"}

func newTestEditor(now time.Time) *usecase.Editor {
	return usecase.NewEditor(model.DefaultMasterData(), editorUser,
		usecase.WithClock(func() time.Time { return now }))
}

func fillDraft(t *testing.T, e *usecase.Editor) {
	t.Helper()
	gt.NoError(t, e.SetTitle("Payment gateway timeout"))
	gt.NoError(t, e.SetProject(model.Reference{ID: "alpha-api", Name: "Alpha API"}))
	gt.NoError(t, e.SetIssueType(model.Reference{ID: "incident", Name: "Incident"}))
	gt.NoError(t, e.SetReportedBy(editorUser))
	gt.NoError(t, e.SetContext("Users reported failing checkouts"))
	gt.NoError(t, e.SetProblemStatement("Gateway requests exceed the timeout"))
}

func TestEditorOpenCreate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := newTestEditor(now)

	gt.Equal(t, usecase.EditorClosed, e.State())
	gt.NoError(t, e.OpenCreate()).Required()
	gt.Equal(t, usecase.EditorCreating, e.State())

	draft := e.Draft()
	gt.V(t, draft).NotNil()
	gt.True(t, draft.ID.IsDraft())
	gt.Equal(t, types.IssueStatusOpen, draft.Status)
	gt.Equal(t, "triage", draft.Stage.ID)
	gt.Equal(t, "development", draft.Environment.ID)
	gt.Equal(t, now, draft.ReportedAt)
	gt.Equal(t, 1, len(draft.AuditLog))
	gt.Equal(t, "Draft Started", draft.AuditLog[0].Action)

	t.Run("SecondSessionRejected", func(t *testing.T) {
		err := e.OpenCreate()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrEditorBusy))
	})

	t.Run("DiscardCloses", func(t *testing.T) {
		e.Discard()
		gt.Equal(t, usecase.EditorClosed, e.State())
		gt.V(t, e.Draft()).Nil()
	})
}

func TestEditorOpenEdit(t *testing.T) {
	e := newTestEditor(time.Now())
	stored := makeIssue("i1", "Original title", types.IssueStatusOpen, projectAlpha)

	gt.NoError(t, e.OpenEdit(stored)).Required()
	gt.Equal(t, usecase.EditorEditing, e.State())

	// The draft is a copy; edits do not leak into the source record
	gt.NoError(t, e.SetTitle("Changed title"))
	gt.Equal(t, "Original title", stored.Title)
	gt.Equal(t, "Changed title", e.Draft().Title)
}

func TestEditorClosedSessionRejectsEdits(t *testing.T) {
	e := newTestEditor(time.Now())

	err := e.SetTitle("anything")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNoDraft))

	_, err = e.AddLayer()
	gt.Error(t, err)

	err = e.AddComment("hello")
	gt.Error(t, err)
}

func TestEditorRisks(t *testing.T) {
	e := newTestEditor(time.Now())
	gt.NoError(t, e.OpenCreate()).Required()

	gt.NoError(t, e.UpdateRisks([]types.RiskID{"sla-breach", "reputation-damage", "sla-breach"}))

	draft := e.Draft()
	gt.Equal(t, []types.RiskID{"sla-breach", "reputation-damage"}, draft.Risks)
	gt.Equal(t, 15, draft.RiskScore)

	gt.NoError(t, e.UpdateRisks(nil))
	gt.Equal(t, 0, e.Draft().RiskScore)
}

func TestEditorStatusAndStage(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := newTestEditor(now)
	gt.NoError(t, e.OpenCreate()).Required()

	gt.NoError(t, e.SetStatus(types.IssueStatusInProcess))
	gt.NoError(t, e.SetStage(model.Reference{ID: "investigation", Name: "Investigation"}))
	gt.Error(t, e.SetStatus(types.IssueStatus("Bogus")))

	draft := e.Draft()
	gt.Equal(t, types.IssueStatusInProcess, draft.Status)
	gt.Equal(t, 3, len(draft.AuditLog))
	gt.Equal(t, "Status changed to In Process", draft.AuditLog[1].Action)
	gt.Equal(t, "Stage changed to Investigation", draft.AuditLog[2].Action)
}

func TestEditorEscalationLayers(t *testing.T) {
	e := newTestEditor(time.Now())
	gt.NoError(t, e.OpenCreate()).Required()

	layer1, err := e.AddLayer()
	gt.NoError(t, err).Required()
	gt.Equal(t, 1, layer1.Layer)
	gt.Equal(t, types.LayerStatusPending, layer1.Status)

	t.Run("PendingLayerBlocksNext", func(t *testing.T) {
		_, err := e.AddLayer()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrEscalationPending))
		gt.Equal(t, 1, len(e.Draft().Escalations))
	})

	t.Run("DoneLayerUnblocks", func(t *testing.T) {
		gt.NoError(t, e.SetLayerStatus(layer1.ID, types.LayerStatusDone))
		layer2, err := e.AddLayer()
		gt.NoError(t, err).Required()
		gt.Equal(t, 2, layer2.Layer)
	})

	t.Run("UnknownLayer", func(t *testing.T) {
		err := e.SetLayerStatus(types.NewLayerID(), types.LayerStatusDone)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrLayerNotFound))
	})
}

func TestEditorStakeholders(t *testing.T) {
	e := newTestEditor(time.Now())
	gt.NoError(t, e.OpenCreate()).Required()

	layer, err := e.AddLayer()
	gt.NoError(t, err).Required()
	id := layer.ID

	bob := model.Reference{ID: "bob", Name: "Bob Manager"}
	charlie := model.Reference{ID: "charlie", Name: "Charlie Director"}

	// The first stakeholder becomes decision maker automatically
	gt.NoError(t, e.AddStakeholder(id, bob))
	gt.NoError(t, e.AddStakeholder(id, charlie))
	gt.NoError(t, e.AddStakeholder(id, bob)) // duplicate is a no-op

	layer = e.Draft().LatestEscalation()
	gt.Equal(t, 2, len(layer.Stakeholders))
	gt.Equal(t, "bob", layer.DecisionMaker().Person.ID)

	t.Run("DecisionMakerIsExclusive", func(t *testing.T) {
		gt.NoError(t, e.SetDecisionMaker(id, "charlie"))
		layer := e.Draft().LatestEscalation()
		gt.Equal(t, "charlie", layer.DecisionMaker().Person.ID)
		gt.False(t, layer.Stakeholders[0].IsDecisionMaker)
	})

	t.Run("RemoveStakeholder", func(t *testing.T) {
		gt.NoError(t, e.RemoveStakeholder(id, "bob"))
		gt.Equal(t, 1, len(e.Draft().LatestEscalation().Stakeholders))
		// Removing an absent person is a no-op
		gt.NoError(t, e.RemoveStakeholder(id, "bob"))
	})
}

func TestEditorDeleteLayerRenumbers(t *testing.T) {
	e := newTestEditor(time.Now())
	gt.NoError(t, e.OpenCreate()).Required()

	layer1, err := e.AddLayer()
	gt.NoError(t, err).Required()
	gt.NoError(t, e.SetLayerStatus(layer1.ID, types.LayerStatusDone))
	firstID := layer1.ID

	layer2, err := e.AddLayer()
	gt.NoError(t, err).Required()
	gt.NoError(t, e.SetLayerStatus(layer2.ID, types.LayerStatusDone))

	_, err = e.AddLayer()
	gt.NoError(t, err).Required()

	gt.NoError(t, e.DeleteLayer(firstID))

	layers := e.Draft().Escalations
	gt.Equal(t, 2, len(layers))
	gt.Equal(t, 1, layers[0].Layer)
	gt.Equal(t, 2, layers[1].Layer)
}

func TestEditorResolutions(t *testing.T) {
	e := newTestEditor(time.Now())
	gt.NoError(t, e.OpenCreate()).Required()

	resA, err := e.AddResolution("Add retry with backoff", "quick", "papers over it", "", 4)
	gt.NoError(t, err).Required()
	gt.False(t, resA.IsAgreed)

	resB, err := e.AddResolution("Replace the gateway client", "fixes root cause", "slow", "migration risk", 40)
	gt.NoError(t, err).Required()

	t.Run("AgreementIsExclusive", func(t *testing.T) {
		gt.NoError(t, e.ToggleAgreement(resA.ID))
		gt.NoError(t, e.ToggleAgreement(resB.ID))

		resolutions := e.Draft().Resolutions
		gt.False(t, resolutions[0].IsAgreed)
		gt.True(t, resolutions[1].IsAgreed)
	})

	t.Run("ToggleOffClears", func(t *testing.T) {
		gt.NoError(t, e.ToggleAgreement(resB.ID))
		gt.V(t, e.Draft().AgreedResolution()).Nil()
	})

	t.Run("UnknownIDLeavesAgreementIntact", func(t *testing.T) {
		gt.NoError(t, e.ToggleAgreement(resA.ID))

		err := e.ToggleAgreement("no-such-resolution")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrResolutionNotFound))

		gt.True(t, e.Draft().Resolutions[0].IsAgreed)
		gt.False(t, e.Draft().Resolutions[1].IsAgreed)

		gt.NoError(t, e.ToggleAgreement(resA.ID))
	})

	t.Run("PatchUpdatesOnlyGivenFields", func(t *testing.T) {
		hours := 6
		gt.NoError(t, e.UpdateResolution(resA.ID, usecase.ResolutionPatch{EffortHours: &hours}))
		gt.Equal(t, 6, e.Draft().Resolutions[0].EffortHours)
		gt.Equal(t, "Add retry with backoff", e.Draft().Resolutions[0].Solution)
	})

	t.Run("Delete", func(t *testing.T) {
		gt.NoError(t, e.DeleteResolution(resA.ID))
		gt.Equal(t, 1, len(e.Draft().Resolutions))

		err := e.DeleteResolution(resA.ID)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrResolutionNotFound))
	})
}

func TestEditorComments(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := newTestEditor(now)
	gt.NoError(t, e.OpenCreate()).Required()

	gt.NoError(t, e.AddComment("Rolled back the deploy"))
	gt.NoError(t, e.AddComment("   ")) // whitespace-only is dropped

	comments := e.Draft().Comments
	gt.Equal(t, 1, len(comments))
	gt.Equal(t, "Rolled back the deploy", comments[0].Text)
	gt.Equal(t, editorUser, comments[0].User)
	gt.Equal(t, now, comments[0].Timestamp)
}

func TestEditorCommitCreate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	commitTime := now.Add(30 * time.Minute)
	current := now
	e := usecase.NewEditor(model.DefaultMasterData(), editorUser,
		usecase.WithClock(func() time.Time { return current }))

	repo := repository.NewMemory()
	ctx := context.Background()
	gt.NoError(t, repo.CreateIssue(ctx, makeIssue("existing", "Older issue", types.IssueStatusOpen, projectAlpha))).Required()

	gt.NoError(t, e.OpenCreate()).Required()

	t.Run("ValidationBlocksCommit", func(t *testing.T) {
		_, err := e.Commit(ctx, repo)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrMissingRequiredFields))

		// The draft and the store are both untouched
		gt.Equal(t, usecase.EditorCreating, e.State())
		issues, listErr := repo.ListIssues(ctx)
		gt.NoError(t, listErr)
		gt.Equal(t, 1, len(issues))
	})

	fillDraft(t, e)
	gt.Equal(t, 0, len(e.Validate()))

	current = commitTime
	created, err := e.Commit(ctx, repo)
	gt.NoError(t, err).Required()

	gt.False(t, created.ID.IsDraft())
	gt.Equal(t, commitTime, created.CreatedAt)
	gt.Equal(t, usecase.EditorClosed, e.State())

	// Queued audit entries are restamped to the commit time
	gt.Equal(t, 1, len(created.AuditLog))
	gt.Equal(t, commitTime, created.AuditLog[0].Timestamp)

	// New records land at the head of the list
	issues, err := repo.ListIssues(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(issues))
	gt.Equal(t, created.ID, issues[0].ID)
	gt.Equal(t, types.IssueID("existing"), issues[1].ID)
}

func TestEditorCommitEdit(t *testing.T) {
	e := newTestEditor(time.Now())
	repo := repository.NewMemory()
	ctx := context.Background()

	stored := makeIssue("i1", "Original", types.IssueStatusOpen, projectAlpha)
	gt.NoError(t, repo.CreateIssue(ctx, stored)).Required()
	gt.NoError(t, repo.CreateIssue(ctx, makeIssue("i0", "Newer", types.IssueStatusOpen, projectAlpha))).Required()

	gt.NoError(t, e.OpenEdit(stored)).Required()
	gt.NoError(t, e.SetTitle("Edited"))

	updated, err := e.Commit(ctx, repo)
	gt.NoError(t, err).Required()
	gt.Equal(t, types.IssueID("i1"), updated.ID)

	// Updates keep the record's position in the list
	issues, err := repo.ListIssues(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, types.IssueID("i0"), issues[0].ID)
	gt.Equal(t, types.IssueID("i1"), issues[1].ID)
	gt.Equal(t, "Edited", issues[1].Title)
}

func TestEditorDelete(t *testing.T) {
	e := newTestEditor(time.Now())
	repo := repository.NewMemory()
	ctx := context.Background()

	stored := makeIssue("i1", "Doomed", types.IssueStatusOpen, projectAlpha)
	gt.NoError(t, repo.CreateIssue(ctx, stored)).Required()

	t.Run("CreateSessionCannotDelete", func(t *testing.T) {
		gt.NoError(t, e.OpenCreate()).Required()
		gt.Error(t, e.Delete(ctx, repo))
		e.Discard()
	})

	gt.NoError(t, e.OpenEdit(stored)).Required()
	gt.NoError(t, e.Delete(ctx, repo))
	gt.Equal(t, usecase.EditorClosed, e.State())

	issues, err := repo.ListIssues(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, 0, len(issues))
}
