package smoketest

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/catalog/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger on stdout and, when logFile is
// set, on that file too. The returned closer releases the file.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		if err := logger.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return io.NopCloser(nil), nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file, nil
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Catalog Smoke Test
==================

Runs list, create, list, delete-last and list against one collection of a
running catalog service. Exits non-zero when a step fails.

Usage:
  go run ./cmd/smoke-test [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -resource string
        Collection to exercise: teams or laserdiscs (default "teams")
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Add request urls, the run id and the delete response to step logs
  -help
        Show this help message

Examples:
  go run ./cmd/smoke-test
  go run ./cmd/smoke-test -resource laserdiscs -verbose
  go run ./cmd/smoke-test -url http://localhost:8080 -log smoke.log
`)
}
