package usecase

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// exportHeader is the fixed column set of the CSV report
var exportHeader = []string{
	"ID",
	"Title",
	"Status",
	"Stage",
	"Project",
	"Environment",
	"Issue Type",
	"Reported By",
	"Reported At",
	"Risk Score",
	"Risks",
	"Assignee",
	"Context",
	"Problem Statement",
	"Evidence",
	"Root Cause Category",
	"Root Cause Detail",
	"Latest Escalation Layer",
	"Latest Escalation Status",
	"Agreed Resolution (Solution)",
	"Agreed Resolution (Effort)",
	"Closed At",
}

const exportTimeFormat = "2006-01-02 15:04:05"

// WriteCSV serializes the given record set as the delimited report: one
// header row, one row per issue, with derived columns for the latest
// escalation layer and the agreed resolution. This is a read-only reporting
// surface, not a re-import format.
func WriteCSV(w io.Writer, issues []*model.Issue, master *model.MasterData) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}

	for _, issue := range issues {
		if err := cw.Write(exportRow(issue, master)); err != nil {
			return goerr.Wrap(err, "failed to write CSV row", goerr.V("id", issue.ID))
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush CSV")
	}
	return nil
}

func exportRow(issue *model.Issue, master *model.MasterData) []string {
	riskNames := make([]string, 0, len(issue.Risks))
	for _, id := range issue.Risks {
		if risk := master.FindRisk(id); risk != nil {
			riskNames = append(riskNames, risk.Name)
		} else {
			riskNames = append(riskNames, string(id))
		}
	}

	latestLayer, latestStatus := "N/A", "N/A"
	if layer := issue.LatestEscalation(); layer != nil {
		latestLayer = strconv.Itoa(layer.Layer)
		latestStatus = layer.Status.String()
	}

	agreedSolution, agreedEffort := "N/A", "0"
	if res := issue.AgreedResolution(); res != nil {
		agreedSolution = res.Solution
		agreedEffort = strconv.Itoa(res.EffortHours)
	}

	closedAt := ""
	if issue.ClosedAt != nil {
		closedAt = issue.ClosedAt.Format(exportTimeFormat)
	}

	return []string{
		string(issue.ID),
		issue.Title,
		issue.Status.String(),
		issue.Stage.Name,
		issue.Project.Name,
		issue.Environment.Name,
		issue.IssueType.Name,
		issue.ReportedBy.Name,
		issue.ReportedAt.Format(exportTimeFormat),
		strconv.Itoa(issue.RiskScore),
		strings.Join(riskNames, ", "),
		issue.Assignee.Name,
		issue.Context,
		issue.ProblemStatement,
		issue.Evidence,
		issue.RootCause.Name,
		issue.RootCauseDetail,
		latestLayer,
		latestStatus,
		agreedSolution,
		agreedEffort,
		closedAt,
	}
}
