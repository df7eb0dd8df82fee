package model

import (
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// Issue is the root trackable record: an incident, bug, or change request
// together with its escalation layers, resolution proposals, comments and
// audit trail.
type Issue struct {
	ID     types.IssueID     `json:"id" firestore:"id"`
	Title  string            `json:"title" firestore:"title"`
	Status types.IssueStatus `json:"status" firestore:"status"`
	Stage  Reference         `json:"stage" firestore:"stage"`

	Project     Reference `json:"project" firestore:"project"`
	Environment Reference `json:"environment" firestore:"environment"`
	IssueType   Reference `json:"issueType" firestore:"issueType"`

	ReportedBy Reference  `json:"reportedBy" firestore:"reportedBy"`
	ReportedAt time.Time  `json:"reportedAt" firestore:"reportedAt"`
	Assignee   Reference  `json:"assignee" firestore:"assignee"`
	ClosedAt   *time.Time `json:"closedAt,omitempty" firestore:"closedAt"`

	Context          string `json:"context" firestore:"context"`
	ProblemStatement string `json:"problemStatement" firestore:"problemStatement"`
	Evidence         string `json:"evidence" firestore:"evidence"`

	Risks     []types.RiskID `json:"risks" firestore:"risks"`
	RiskScore int            `json:"riskScore" firestore:"riskScore"` // derived from Risks, never user-editable

	RootCause       Reference `json:"rootCause" firestore:"rootCause"`
	RootCauseDetail string    `json:"rootCauseDetail" firestore:"rootCauseDetail"`

	Escalations []EscalationLayer `json:"escalations" firestore:"escalations"`
	Resolutions []Resolution      `json:"resolutions" firestore:"resolutions"`
	Comments    []Comment         `json:"comments" firestore:"comments"`
	AuditLog    []AuditEntry      `json:"auditLog" firestore:"auditLog"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// requiredFields lists required field names in the order they are reported
// to the user on a failed save.
var requiredFields = []string{
	"title",
	"project",
	"environment",
	"issueType",
	"reportedBy",
	"reportedAt",
	"context",
	"problemStatement",
}

// MissingFields returns the names of required fields that are not filled in.
// An empty result means the issue is ready to be committed.
func (x *Issue) MissingFields() []string {
	var missing []string
	for _, name := range requiredFields {
		var ok bool
		switch name {
		case "title":
			ok = x.Title != ""
		case "project":
			ok = x.Project.ID != ""
		case "environment":
			ok = x.Environment.ID != ""
		case "issueType":
			ok = x.IssueType.ID != ""
		case "reportedBy":
			ok = x.ReportedBy.ID != ""
		case "reportedAt":
			ok = !x.ReportedAt.IsZero()
		case "context":
			ok = x.Context != ""
		case "problemStatement":
			ok = x.ProblemStatement != ""
		}
		if !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Clone returns a deep copy of the issue. Drafts are always edited on a
// clone so the record store stays untouched until commit.
func (x *Issue) Clone() *Issue {
	c := *x

	if x.ClosedAt != nil {
		t := *x.ClosedAt
		c.ClosedAt = &t
	}

	c.Risks = append([]types.RiskID(nil), x.Risks...)

	c.Escalations = make([]EscalationLayer, len(x.Escalations))
	for i, layer := range x.Escalations {
		c.Escalations[i] = layer.clone()
	}

	c.Resolutions = append([]Resolution(nil), x.Resolutions...)
	c.Comments = append([]Comment(nil), x.Comments...)
	c.AuditLog = append([]AuditEntry(nil), x.AuditLog...)

	return &c
}

// LatestEscalation returns the most recently added escalation layer, or nil
// when the issue has none.
func (x *Issue) LatestEscalation() *EscalationLayer {
	if len(x.Escalations) == 0 {
		return nil
	}
	return &x.Escalations[len(x.Escalations)-1]
}

// AgreedResolution returns the single agreed resolution proposal, or nil.
func (x *Issue) AgreedResolution() *Resolution {
	for i := range x.Resolutions {
		if x.Resolutions[i].IsAgreed {
			return &x.Resolutions[i]
		}
	}
	return nil
}

// AppendAudit appends an audit log entry. The audit trail is append-only;
// entries are never edited or removed.
func (x *Issue) AppendAudit(action string, ts time.Time) {
	x.AuditLog = append(x.AuditLog, AuditEntry{
		ID:        types.NewAuditID(),
		Action:    action,
		Timestamp: ts,
	})
}
