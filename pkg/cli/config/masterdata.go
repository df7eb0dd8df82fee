package config

import (
	"log/slog"
	"os"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// MasterData holds the path to the categorical data file
type MasterData struct {
	Path string
}

// Flags returns CLI flags for MasterData configuration
func (m *MasterData) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "master-data",
			Usage:       "Path to a YAML file with projects, users, environments, issue types, stages, root causes and risks",
			Category:    "Master data",
			Sources:     cli.EnvVars("ISSUETRACKER_MASTER_DATA"),
			Destination: &m.Path,
		},
	}
}

// Configure loads master data from the configured file, falling back to the
// built-in defaults when no path is given.
func (m *MasterData) Configure() (*model.MasterData, error) {
	if m.Path == "" {
		return model.DefaultMasterData(), nil
	}
	return LoadMasterDataFromFile(m.Path)
}

// LogValue returns structured log value
func (m MasterData) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", m.Path),
	)
}

// LoadMasterDataFromFile loads master data from a YAML file
func LoadMasterDataFromFile(path string) (*model.MasterData, error) {
	if path == "" {
		return nil, goerr.New("master data file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "master data file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read master data file",
			goerr.V("path", path))
	}

	var md model.MasterData
	if err := yaml.Unmarshal(data, &md); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML master data",
			goerr.V("path", path))
	}

	if err := md.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid master data",
			goerr.V("path", path))
	}

	return &md, nil
}
