package types

import (
	"github.com/google/uuid"
)

// IssueID represents an issue identifier
type IssueID string

// DraftIssueID is the sentinel ID carried by a draft that has not been
// committed yet. A real identifier is assigned at commit time.
const DraftIssueID IssueID = "new"

// String returns the string representation
func (id IssueID) String() string {
	return string(id)
}

// IsDraft reports whether the ID is the uncommitted-draft sentinel
func (id IssueID) IsDraft() bool {
	return id == DraftIssueID
}

// NewIssueID creates a new IssueID
func NewIssueID() IssueID {
	return IssueID(uuid.New().String())
}

// ProjectID represents a project identifier
type ProjectID string

// String returns the string representation
func (id ProjectID) String() string {
	return string(id)
}

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// EnvironmentID represents an environment identifier
type EnvironmentID string

// String returns the string representation
func (id EnvironmentID) String() string {
	return string(id)
}

// IssueTypeID represents an issue type identifier
type IssueTypeID string

// String returns the string representation
func (id IssueTypeID) String() string {
	return string(id)
}

// StageID represents an issue stage identifier
type StageID string

// String returns the string representation
func (id StageID) String() string {
	return string(id)
}

// RootCauseID represents a root cause category identifier
type RootCauseID string

// String returns the string representation
func (id RootCauseID) String() string {
	return string(id)
}

// RiskID represents a risk category identifier
type RiskID string

// String returns the string representation
func (id RiskID) String() string {
	return string(id)
}

// LayerID represents an escalation layer identifier
type LayerID string

// String returns the string representation
func (id LayerID) String() string {
	return string(id)
}

// NewLayerID creates a new LayerID
func NewLayerID() LayerID {
	return LayerID(uuid.New().String())
}

// ResolutionID represents a resolution proposal identifier
type ResolutionID string

// String returns the string representation
func (id ResolutionID) String() string {
	return string(id)
}

// NewResolutionID creates a new ResolutionID
func NewResolutionID() ResolutionID {
	return ResolutionID(uuid.New().String())
}

// CommentID represents a comment identifier
type CommentID string

// String returns the string representation
func (id CommentID) String() string {
	return string(id)
}

// NewCommentID creates a new CommentID
func NewCommentID() CommentID {
	return CommentID(uuid.New().String())
}

// AuditID represents an audit log entry identifier
type AuditID string

// String returns the string representation
func (id AuditID) String() string {
	return string(id)
}

// NewAuditID creates a new AuditID
func NewAuditID() AuditID {
	return AuditID(uuid.New().String())
}
