package smoketest

import "time"

// Step names, used as log and metric labels.
const (
	StepListInitial     = "list_initial"
	StepCreate          = "create"
	StepListAfterCreate = "list_after_create"
	StepDeleteLast      = "delete_last"
	StepListFinal       = "list_final"
)

// Step results.
const (
	resultOK    = "ok"
	resultError = "error"
)

// Client defaults.
const (
	DefaultBaseURL  = "http://localhost:3000"
	DefaultResource = "teams"
	DefaultTimeout  = 30 * time.Second
)

// maxResponseBytes bounds response bodies read by the client.
const maxResponseBytes = 1 << 20
