package model

import (
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// Comment is a discussion entry on an issue. Comments are append-only.
type Comment struct {
	ID        types.CommentID `json:"id" firestore:"id"`
	User      Reference       `json:"user" firestore:"user"`
	Text      string          `json:"text" firestore:"text"`
	Timestamp time.Time       `json:"timestamp" firestore:"timestamp"`
}

// AuditEntry records a tracked mutation (status change, stage change, draft
// creation). The audit trail is append-only and chronologically ordered by
// append time.
type AuditEntry struct {
	ID        types.AuditID `json:"id" firestore:"id"`
	Action    string        `json:"action" firestore:"action"`
	Timestamp time.Time     `json:"timestamp" firestore:"timestamp"`
}
