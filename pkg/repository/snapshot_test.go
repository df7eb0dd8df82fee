package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestSnapshotPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	ctx := context.Background()

	repo, err := repository.NewSnapshot(ctx, path)
	gt.NoError(t, err).Required()

	gt.NoError(t, repo.CreateIssue(ctx, newIssue("i1", "First", types.IssueStatusOpen)))
	gt.NoError(t, repo.CreateIssue(ctx, newIssue("i2", "Second", types.IssueStatusResolved)))
	gt.NoError(t, repo.Close())

	// A fresh instance on the same file sees the committed records in order
	reopened, err := repository.NewSnapshot(ctx, path)
	gt.NoError(t, err).Required()
	defer reopened.Close()

	issues, err := reopened.ListIssues(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(issues))
	gt.Equal(t, types.IssueID("i2"), issues[0].ID)
	gt.Equal(t, types.IssueStatusResolved, issues[0].Status)
	gt.Equal(t, types.IssueID("i1"), issues[1].ID)
}

func TestSnapshotDeletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	ctx := context.Background()

	repo, err := repository.NewSnapshot(ctx, path)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.CreateIssue(ctx, newIssue("i1", "Doomed", types.IssueStatusOpen)))
	gt.NoError(t, repo.DeleteIssue(ctx, "i1"))
	gt.NoError(t, repo.Close())

	reopened, err := repository.NewSnapshot(ctx, path)
	gt.NoError(t, err).Required()
	defer reopened.Close()

	issues, err := reopened.ListIssues(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, 0, len(issues))
}

func TestSnapshotBadInput(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyPath", func(t *testing.T) {
		_, err := repository.NewSnapshot(ctx, "")
		gt.Error(t, err)
	})

	t.Run("MissingFileStartsEmpty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "does-not-exist.json")
		repo, err := repository.NewSnapshot(ctx, path)
		gt.NoError(t, err).Required()
		defer repo.Close()

		issues, err := repo.ListIssues(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, 0, len(issues))
	})

	t.Run("MalformedFileStartsEmpty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "issues.json")
		gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644)).Required()

		repo, err := repository.NewSnapshot(ctx, path)
		gt.NoError(t, err).Required()
		defer repo.Close()

		issues, err := repo.ListIssues(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, 0, len(issues))
	})
}
