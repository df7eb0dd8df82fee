package usecase_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/model"
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestWriteCSV(t *testing.T) {
	master := model.DefaultMasterData()

	issue := makeIssue("i1", "Payment gateway timeout", types.IssueStatusResolved, projectAlpha)
	issue.Risks = []types.RiskID{"sla-breach", "reputation-damage"}
	issue.RiskScore = master.RiskScore(issue.Risks)
	issue.Escalations = []model.EscalationLayer{
		model.NewEscalationLayer(1),
		model.NewEscalationLayer(2),
	}
	issue.Escalations[0].Status = types.LayerStatusDone
	issue.Resolutions = []model.Resolution{
		model.NewResolution("Replace the gateway client", "fixes root cause", "slow", "", 40),
	}
	issue.Resolutions[0].IsAgreed = true
	closedAt := time.Date(2025, 3, 12, 16, 30, 0, 0, time.UTC)
	issue.ClosedAt = &closedAt

	bare := makeIssue("i2", "Minimal issue", types.IssueStatusOpen, projectBeta)

	var buf bytes.Buffer
	gt.NoError(t, usecase.WriteCSV(&buf, []*model.Issue{issue, bare}, master)).Required()

	records, err := csv.NewReader(&buf).ReadAll()
	gt.NoError(t, err).Required()
	gt.Equal(t, 3, len(records))

	header := records[0]
	gt.Equal(t, 22, len(header))
	gt.Equal(t, "ID", header[0])
	gt.Equal(t, "Closed At", header[21])

	row := records[1]
	gt.Equal(t, "i1", row[0])
	gt.Equal(t, "Payment gateway timeout", row[1])
	gt.Equal(t, "Resolved", row[2])
	gt.Equal(t, "15", row[9])
	gt.True(t, strings.Contains(row[10], "SLA Breach"))
	gt.True(t, strings.Contains(row[10], "Reputation Damage"))
	gt.Equal(t, "2", row[17])       // latest escalation layer
	gt.Equal(t, "Pending", row[18]) // latest escalation status
	gt.Equal(t, "Replace the gateway client", row[19])
	gt.Equal(t, "40", row[20])
	gt.Equal(t, "2025-03-12 16:30:00", row[21])

	// Derived columns fall back when nothing is there yet
	bareRow := records[2]
	gt.Equal(t, "N/A", bareRow[17])
	gt.Equal(t, "N/A", bareRow[18])
	gt.Equal(t, "N/A", bareRow[19])
	gt.Equal(t, "0", bareRow[20])
	gt.Equal(t, "", bareRow[21])
}
