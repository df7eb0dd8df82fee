package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Snapshot implements Repository interface on top of a single JSON file
// holding the full record array. The file is loaded once at startup and
// rewritten in full on every committing mutation; there is no incremental
// write format.
type Snapshot struct {
	*Memory
	path string
}

// NewSnapshot creates a snapshot repository backed by the given file. A
// missing file starts with an empty record set; a malformed file is logged
// and likewise falls back to empty rather than failing startup.
func NewSnapshot(ctx context.Context, path string) (*Snapshot, error) {
	if path == "" {
		return nil, goerr.New("snapshot file path is required")
	}

	s := &Snapshot{
		Memory: NewMemory(),
		path:   path,
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		ctxlog.From(ctx).Info("Snapshot file does not exist yet, starting empty",
			"path", path,
		)
		return s, nil
	case err != nil:
		return nil, goerr.Wrap(err, "failed to read snapshot file", goerr.V("path", path))
	}

	var issues []*model.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		ctxlog.From(ctx).Warn("Snapshot file is malformed, starting empty",
			"path", path,
			"error", err,
		)
		return s, nil
	}

	s.replaceAll(issues)
	return s, nil
}

// CreateIssue inserts the record and rewrites the snapshot
func (s *Snapshot) CreateIssue(ctx context.Context, issue *model.Issue) error {
	if err := s.Memory.CreateIssue(ctx, issue); err != nil {
		return err
	}
	return s.flush(ctx)
}

// UpdateIssue replaces the record and rewrites the snapshot
func (s *Snapshot) UpdateIssue(ctx context.Context, issue *model.Issue) error {
	if err := s.Memory.UpdateIssue(ctx, issue); err != nil {
		return err
	}
	return s.flush(ctx)
}

// DeleteIssue removes the record and rewrites the snapshot
func (s *Snapshot) DeleteIssue(ctx context.Context, id types.IssueID) error {
	if err := s.Memory.DeleteIssue(ctx, id); err != nil {
		return err
	}
	return s.flush(ctx)
}

// flush rewrites the whole snapshot file from the in-memory record set. The
// write goes through a temp file plus rename so a crash cannot leave a
// half-written snapshot behind.
func (s *Snapshot) flush(ctx context.Context) error {
	issues, err := s.Memory.ListIssues(ctx)
	if err != nil {
		return err
	}
	if issues == nil {
		issues = []*model.Issue{}
	}

	data, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create snapshot directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".issues-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp snapshot file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write snapshot", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close snapshot", goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace snapshot file", goerr.V("path", s.path))
	}

	return nil
}

var _ interfaces.Repository = (*Snapshot)(nil)
