package smoketest

import (
	"encoding/json"
	"time"

	"github.com/okian/catalog/pkg/logger"
)

// Config holds configuration for a smoke test run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Resource string        // Collection to exercise, e.g. "teams"
	Timeout  time.Duration // Per-request timeout
	Verbose  bool          // Add urls, run id and the delete response to step logs

	// Logger defaults to the global logger.
	Logger logger.Logger
}

// Samples are the records created by the create step, keyed by collection.
var Samples = map[string]map[string]any{
	"teams": {
		"name":   "Bulls",
		"city":   "Chicago",
		"titles": 6,
	},
	"laserdiscs": {
		"filename": "akira.img",
		"region":   "JP",
		"length":   124,
		"format":   "NTSC",
		"rotation": "CLV",
	},
}

// Report holds what each step observed. Steps that did not run leave their
// fields empty.
type Report struct {
	RunID string

	Initial        []json.RawMessage
	Created        json.RawMessage
	CreatedID      int64
	AfterCreate    []json.RawMessage
	DeletedID      int64
	DeletedMessage string
	Final          []json.RawMessage
	CompletedSteps []string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
