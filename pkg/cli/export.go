package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Alexwilliam112/issue-tracker/pkg/cli/config"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var (
		storeCfg  config.Storage
		masterCfg config.MasterData

		output string
	)

	flags := joinFlags(
		storeCfg.Flags(),
		masterCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file path (default: stdout)",
				Destination: &output,
			},
		},
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Export all issues as CSV",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := storeCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			master, err := masterCfg.Configure()
			if err != nil {
				return err
			}

			issues, err := repo.ListIssues(ctx)
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file",
						goerr.V("path", output))
				}
				defer f.Close()
				w = f
			}

			if err := usecase.WriteCSV(w, issues, master); err != nil {
				return err
			}

			if output != "" {
				ctxlog.From(ctx).Info("Exported issues",
					slog.Int("count", len(issues)),
					slog.String("path", output),
				)
			}
			return nil
		},
	}
}
