package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/Alexwilliam112/issue-tracker/pkg/cli/config"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

func cmdList() *cli.Command {
	var (
		storeCfg config.Storage

		search       string
		statuses     []string
		projects     []string
		environments []string
		issueTypes   []string
		stages       []string
		assignees    []string
		risks        []string
		page         int
		limit        int
	)

	flags := joinFlags(
		storeCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "search",
				Usage:       "Text search over title, ID and project name",
				Destination: &search,
			},
			&cli.StringSliceFlag{
				Name:        "status",
				Usage:       "Filter by status (repeatable)",
				Destination: &statuses,
			},
			&cli.StringSliceFlag{
				Name:        "project",
				Usage:       "Filter by project ID (repeatable)",
				Destination: &projects,
			},
			&cli.StringSliceFlag{
				Name:        "environment",
				Usage:       "Filter by environment ID (repeatable)",
				Destination: &environments,
			},
			&cli.StringSliceFlag{
				Name:        "issue-type",
				Usage:       "Filter by issue type ID (repeatable)",
				Destination: &issueTypes,
			},
			&cli.StringSliceFlag{
				Name:        "stage",
				Usage:       "Filter by stage ID (repeatable)",
				Destination: &stages,
			},
			&cli.StringSliceFlag{
				Name:        "assignee",
				Usage:       "Filter by assignee user ID (repeatable)",
				Destination: &assignees,
			},
			&cli.StringSliceFlag{
				Name:        "risk",
				Usage:       "Filter by risk category ID (repeatable)",
				Destination: &risks,
			},
			&cli.IntFlag{
				Name:        "page",
				Usage:       "Page number (1-based)",
				Value:       1,
				Destination: &page,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "Page size",
				Value:       usecase.DefaultLimit,
				Destination: &limit,
			},
		},
	)

	return &cli.Command{
		Name:  "list",
		Usage: "List issues matching filters",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := storeCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			query := &model.IssueQuery{
				Search: search,
				Filter: listFilter(statuses, projects, environments, issueTypes, stages, assignees, risks),
				Page:   page,
				Limit:  limit,
			}

			list, err := repo.QueryIssues(ctx, query)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Title", "Status", "Stage", "Project", "Assignee", "Risk", "Reported At"})
			for _, issue := range list.Issues {
				tw.AppendRow(table.Row{
					issue.ID,
					issue.Title,
					issue.Status,
					issue.Stage.Name,
					issue.Project.Name,
					issue.Assignee.Name,
					issue.RiskScore,
					issue.ReportedAt.Format("2006-01-02 15:04"),
				})
			}
			tw.AppendFooter(table.Row{"", "", "", "", "", "", "Total", strconv.Itoa(list.Total)})
			tw.Render()

			return nil
		},
	}
}

func listFilter(statuses, projects, environments, issueTypes, stages, assignees, risks []string) model.FilterSet {
	var f model.FilterSet
	for _, s := range statuses {
		f.Statuses = append(f.Statuses, types.IssueStatus(s))
	}
	for _, s := range projects {
		f.Projects = append(f.Projects, types.ProjectID(s))
	}
	for _, s := range environments {
		f.Environments = append(f.Environments, types.EnvironmentID(s))
	}
	for _, s := range issueTypes {
		f.IssueTypes = append(f.IssueTypes, types.IssueTypeID(s))
	}
	for _, s := range stages {
		f.Stages = append(f.Stages, types.StageID(s))
	}
	for _, s := range assignees {
		f.Assignees = append(f.Assignees, types.UserID(s))
	}
	for _, s := range risks {
		f.Risks = append(f.Risks, types.RiskID(s))
	}
	return f
}
