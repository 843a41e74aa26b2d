package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/catalog/pkg/logger"
	"github.com/okian/catalog/pkg/metrics"
)

// runner carries the state shared by the steps of one run.
type runner struct {
	cfg    *Config
	client *HTTPClient
	log    logger.Logger
	url    string
	report *Report
}

// Run exercises one collection: list, create a sample record, list, delete
// the last record and list again. Each step waits for the previous response.
// The first failing step aborts the run; its error is logged and returned
// together with the partial report.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	sample, ok := Samples[cfg.Resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, cfg.Resource)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	log = log.Named("smoketest")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runID := uuid.NewString()
	r := &runner{
		cfg:    cfg,
		client: newHTTPClient(timeout, runID),
		log:    log,
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Resource,
		report: &Report{RunID: runID, StartTime: time.Now()},
	}
	defer r.client.CloseIdleConnections()

	log.Info(ctx, "starting smoke test",
		logger.String("run_id", runID),
		logger.String("url", r.url),
		logger.Duration("timeout", timeout))

	err := r.run(ctx, sample)

	r.report.EndTime = time.Now()
	r.report.Duration = r.report.EndTime.Sub(r.report.StartTime)
	if err != nil {
		log.Error(ctx, "smoke test aborted",
			logger.String("run_id", runID),
			logger.Int("completed_steps", len(r.report.CompletedSteps)),
			logger.Error(err))
		return r.report, err
	}

	log.Info(ctx, "smoke test completed",
		logger.String("run_id", runID),
		logger.Duration("duration", r.report.Duration))
	return r.report, nil
}

func (r *runner) run(ctx context.Context, sample map[string]any) error {
	var err error

	if r.report.Initial, err = r.list(ctx, StepListInitial); err != nil {
		return err
	}
	if err = r.create(ctx, sample); err != nil {
		return err
	}
	if r.report.AfterCreate, err = r.list(ctx, StepListAfterCreate); err != nil {
		return err
	}
	if err = r.deleteLast(ctx); err != nil {
		return err
	}
	if r.report.Final, err = r.list(ctx, StepListFinal); err != nil {
		return err
	}
	return nil
}

func (r *runner) list(ctx context.Context, step string) ([]json.RawMessage, error) {
	body, err := r.client.Get(ctx, r.url)
	if err != nil {
		return nil, r.fail(step, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, r.fail(step, fmt.Errorf("%w: %w", ErrDecode, err))
	}
	r.done(ctx, step, r.url, logger.Int("count", len(records)), logger.String("records", string(body)))
	return records, nil
}

func (r *runner) create(ctx context.Context, sample map[string]any) error {
	body, err := r.client.Post(ctx, r.url, sample)
	if err != nil {
		return r.fail(StepCreate, err)
	}
	id, err := recordID(body)
	if err != nil {
		return r.fail(StepCreate, err)
	}
	r.report.Created = body
	r.report.CreatedID = id
	r.done(ctx, StepCreate, r.url, logger.Int64("id", id), logger.String("record", string(body)))
	return nil
}

func (r *runner) deleteLast(ctx context.Context) error {
	records := r.report.AfterCreate
	if len(records) == 0 {
		return r.fail(StepDeleteLast, ErrEmptyCollection)
	}
	id, err := recordID(records[len(records)-1])
	if err != nil {
		return r.fail(StepDeleteLast, err)
	}

	url := r.url + "/" + strconv.FormatInt(id, 10)
	body, err := r.client.Delete(ctx, url)
	if err != nil {
		return r.fail(StepDeleteLast, err)
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return r.fail(StepDeleteLast, fmt.Errorf("%w: %w", ErrDecode, err))
	}
	r.report.DeletedID = id
	r.report.DeletedMessage = msg.Message
	fields := []logger.Field{logger.Int64("id", id), logger.String("message", msg.Message)}
	if r.cfg.Verbose {
		fields = append(fields, logger.String("body", string(body)))
	}
	r.done(ctx, StepDeleteLast, url, fields...)
	return nil
}

// done logs the step with what it returned. Verbose runs add the request
// url and run id.
func (r *runner) done(ctx context.Context, step, url string, fields ...logger.Field) {
	metrics.RecordSmokeStep(step, resultOK)
	r.report.CompletedSteps = append(r.report.CompletedSteps, step)

	fields = append([]logger.Field{logger.String("step", step)}, fields...)
	if r.cfg.Verbose {
		fields = append(fields, logger.String("url", url), logger.String("run_id", r.report.RunID))
	}
	r.log.Info(ctx, "step completed", fields...)
}

func (r *runner) fail(step string, err error) error {
	metrics.RecordSmokeStep(step, resultError)
	return fmt.Errorf("%s: %w", step, err)
}

func recordID(raw []byte) (int64, error) {
	var rec struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if rec.ID == nil {
		return 0, fmt.Errorf("%w: record has no id", ErrDecode)
	}
	return *rec.ID, nil
}

// BaseURLFromAddr turns a listen address such as ":3000" into a URL the
// client can reach on the local host.
func BaseURLFromAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
