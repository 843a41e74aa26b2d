package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/catalog/internal/smoketest"
	"github.com/okian/catalog/pkg/logger"
)

// defaultRunTimeout bounds the whole run.
const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", smoketest.DefaultBaseURL, "Base URL of the service")
		resource = flag.String("resource", smoketest.DefaultResource, "Collection to exercise: teams or laserdiscs")
		timeout  = flag.Duration("timeout", smoketest.DefaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Also write logs to this file")
		verbose  = flag.Bool("verbose", false, "Add request urls, the run id and the delete response to step logs")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	closer, err := smoketest.SetupLogging(*logFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err = smoketest.Run(ctx, &smoketest.Config{
		BaseURL:  *baseURL,
		Resource: *resource,
		Timeout:  *timeout,
		Verbose:  *verbose,
		Logger:   logger.Get(),
	})
	if err != nil {
		cancel()
		_ = closer.Close()
		os.Exit(1)
	}
}
