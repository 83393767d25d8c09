package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Executor submits statements to the database under test.
// All calls share one connection and are issued sequentially.
type Executor interface {
	// Exec runs stmt and returns the number of affected rows
	Exec(ctx context.Context, stmt string) (int64, error)
	// Rows returns every row of table keyed by column name
	Rows(ctx context.Context, table string) ([]map[string]any, error)
	// Reset removes every row of table
	Reset(ctx context.Context, table string) error
}

// Dialect knows how one database engine spells statements and reports failures
type Dialect interface {
	Quoter
	// Classify converts a database-reported statement failure into a Failure.
	// It returns false for anything else (lost connection, cancelled context),
	// which the runner treats as fatal.
	Classify(err error) (*Failure, bool)
}

// Target is a database the runner can drive
type Target interface {
	Executor
	Dialect
}

// Clock supplies the reference time for timestamp assertions
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FatalError is an infrastructure fault that stops a run; no constraint category applies
type FatalError struct {
	Scenario string
	Op       string
	Err      error
}

func (e *FatalError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("scenario %s: %s: %v", e.Scenario, e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Runner executes insertion scenarios against a single table
type Runner struct {
	target Target
	table  string
	clock  Clock
	logger *slog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithClock sets the reference clock for SameYear checks
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithLogger sets the logger; logs are discarded by default
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a runner for table on target
func NewRunner(target Target, table string, opts ...Option) *Runner {
	r := &Runner{
		target: target,
		table:  table,
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single scenario. It does not reset the table; callers that
// run more than one scenario should use RunAll.
//
// A returned error is always a *FatalError; the Result is still filled in
// and marked failed.
func (r *Runner) Run(ctx context.Context, sc Scenario) (Result, error) {
	res := Result{
		Scenario: sc.Name,
		State:    StatePending,
		Status:   StatePending.String(),
		Expected: sc.Expect.String(),
	}
	res.Statement = BuildInsert(r.target, r.table, sc.Columns)

	outcome, err := r.execute(ctx, res.Statement)
	if err != nil {
		res.fail("fatal: " + err.Error())
		r.logger.Error("scenario aborted", "scenario", sc.Name, "error", err)
		return res, &FatalError{Scenario: sc.Name, Op: "exec", Err: err}
	}
	res.Outcome = outcome
	res.Actual = outcome.String()
	res.advance(StateExecuted)
	r.logger.Debug("scenario executed", "scenario", sc.Name, "statement", res.Statement, "outcome", res.Actual)

	if sc.Expect.Outcome == Rejected {
		res.Category = Classify(sc.Expect, outcome.Failure)
	}
	res.advance(StateClassified)

	reason, err := r.assert(ctx, sc.Expect, outcome, res.Category)
	if err != nil {
		res.fail("fatal: " + err.Error())
		r.logger.Error("scenario aborted", "scenario", sc.Name, "error", err)
		return res, &FatalError{Scenario: sc.Name, Op: "read back", Err: err}
	}
	res.advance(StateAsserted)

	if reason != "" {
		res.fail(reason)
		r.logger.Warn("scenario failed", "scenario", sc.Name, "reason", reason)
		return res, nil
	}
	res.advance(StatePassed)
	r.logger.Info("scenario passed", "scenario", sc.Name, "outcome", res.Actual)
	return res, nil
}

// RunAll executes scenarios in order, resetting the table before the first
// one and after every one, whatever its outcome. Failing scenarios do not
// stop the run; a *FatalError does, returning the results gathered so far.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	if err := r.reset(ctx, ""); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := r.runIsolated(ctx, sc)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (r *Runner) runIsolated(ctx context.Context, sc Scenario) (res Result, err error) {
	defer func() {
		if resetErr := r.reset(ctx, sc.Name); resetErr != nil && err == nil {
			err = resetErr
		}
	}()
	return r.Run(ctx, sc)
}

func (r *Runner) reset(ctx context.Context, scenarioName string) error {
	if err := r.target.Reset(ctx, r.table); err != nil {
		return &FatalError{Scenario: scenarioName, Op: "reset " + r.table, Err: err}
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, stmt string) (Outcome, error) {
	n, err := r.target.Exec(ctx, stmt)
	if err == nil {
		return Outcome{RowCount: n}, nil
	}

	failure, ok := r.target.Classify(err)
	if !ok {
		return Outcome{}, err
	}
	failure.Category = failure.Category.orUnclassified()
	return Outcome{Failure: failure}, nil
}
