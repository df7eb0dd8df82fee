package config

import (
	"context"
	"log/slog"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/interfaces"
	"github.com/Alexwilliam112/issue-tracker/pkg/repository"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage holds issue store configuration. Firestore is used when a project
// is set, a local snapshot file when a path is set, and an in-memory store
// otherwise.
type Storage struct {
	ProjectID    string
	DatabaseID   string
	SnapshotPath string
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Storage",
			Sources:     cli.EnvVars("ISSUETRACKER_FIRESTORE_PROJECT"),
			Destination: &s.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Storage",
			Value:       "(default)",
			Sources:     cli.EnvVars("ISSUETRACKER_FIRESTORE_DATABASE"),
			Destination: &s.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "snapshot-file",
			Usage:       "Path to a JSON snapshot file for local persistence",
			Category:    "Storage",
			Sources:     cli.EnvVars("ISSUETRACKER_SNAPSHOT_FILE"),
			Destination: &s.SnapshotPath,
		},
	}
}

// Configure creates and returns an issue repository
func (s *Storage) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	if s.ProjectID != "" {
		repo, err := repository.NewFirestore(ctx, s.ProjectID, s.DatabaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore",
				goerr.V("project", s.ProjectID),
				goerr.V("database", s.DatabaseID),
			)
		}
		return repo, nil
	}

	if s.SnapshotPath != "" {
		repo, err := repository.NewSnapshot(ctx, s.SnapshotPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init snapshot store",
				goerr.V("path", s.SnapshotPath))
		}
		return repo, nil
	}

	logger.Warn("Using memory store. The data will be removed when shutting down")
	return repository.NewMemory(), nil
}

// LogValue returns structured log value
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", s.ProjectID),
		slog.String("database", s.DatabaseID),
		slog.String("snapshot", s.SnapshotPath),
	)
}
