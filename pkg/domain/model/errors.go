package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrIssueNotFound         = goerr.New("issue not found")
	ErrMissingRequiredFields = goerr.New("missing required fields")
	ErrEditorBusy            = goerr.New("another draft is already being edited")
	ErrNoDraft               = goerr.New("no draft is open")
	ErrEscalationPending     = goerr.New("previous escalation layer is still pending")
	ErrLayerNotFound         = goerr.New("escalation layer not found")
	ErrResolutionNotFound    = goerr.New("resolution proposal not found")
)
