package types

// IssueStatus represents the status of an issue. The progression is
// forward-biased (Open -> In Process -> Resolved) but not strictly enforced.
type IssueStatus string

const (
	IssueStatusOpen      IssueStatus = "Open"
	IssueStatusInProcess IssueStatus = "In Process"
	IssueStatusResolved  IssueStatus = "Resolved"
)

// StatusFlow is the ordered list of issue statuses used for summary tiles
var StatusFlow = []IssueStatus{
	IssueStatusOpen,
	IssueStatusInProcess,
	IssueStatusResolved,
}

// String returns the string representation of the status
func (s IssueStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProcess, IssueStatusResolved:
		return true
	default:
		return false
	}
}

// LayerStatus represents the status of an escalation layer
type LayerStatus string

const (
	LayerStatusPending LayerStatus = "Pending"
	LayerStatusDone    LayerStatus = "Done"
)

// String returns the string representation of the status
func (s LayerStatus) String() string {
	return string(s)
}

// IsValid checks if the layer status is valid
func (s LayerStatus) IsValid() bool {
	switch s {
	case LayerStatusPending, LayerStatusDone:
		return true
	default:
		return false
	}
}
