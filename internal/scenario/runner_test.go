package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/testutil"
)

// dbError is what fakeTarget returns for a scripted rejection
type dbError struct {
	msg  string
	code string
}

func (e *dbError) Error() string { return e.msg }

// fakeTarget answers statements from a script and records every call
type fakeTarget struct {
	// respond decides the result of each Exec; nil accepts with one row
	respond func(stmt string) (int64, error)
	rows    []map[string]any
	rowsErr error
	// categories maps scripted codes to structured categories
	categories map[string]Category
	resetErr   error

	calls []string
}

func (f *fakeTarget) Exec(_ context.Context, stmt string) (int64, error) {
	f.calls = append(f.calls, "exec")
	if f.respond == nil {
		return 1, nil
	}
	return f.respond(stmt)
}

func (f *fakeTarget) Rows(_ context.Context, _ string) ([]map[string]any, error) {
	f.calls = append(f.calls, "rows")
	return f.rows, f.rowsErr
}

func (f *fakeTarget) Reset(_ context.Context, _ string) error {
	f.calls = append(f.calls, "reset")
	return f.resetErr
}

func (f *fakeTarget) QuoteIdent(name string) string { return `"` + name + `"` }

func (f *fakeTarget) DefaultValues() string { return "DEFAULT VALUES" }

func (f *fakeTarget) Classify(err error) (*Failure, bool) {
	var de *dbError
	if !errors.As(err, &de) {
		return nil, false
	}
	return &Failure{Message: de.msg, Code: de.code, Category: f.categories[de.code]}, true
}

func reject(msg string) func(string) (int64, error) {
	return func(string) (int64, error) { return 0, &dbError{msg: msg} }
}

func TestRun_SuccessScenarioPasses(t *testing.T) {
	target := &fakeTarget{}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:    "ok",
		Columns: []Column{Col("email", Lit("a@b.c"))},
		Expect:  ExpectSuccess(1),
	})

	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Equal(t, StatePassed, res.State)
	assert.Equal(t, "success(1)", res.Actual)
	assert.Equal(t, `INSERT INTO "users" ("email") VALUES ('a@b.c')`, res.Statement)
	assert.Empty(t, res.Reason)
}

func TestRun_RejectedByMatcher(t *testing.T) {
	target := &fakeTarget{respond: reject(`new row for relation "users" violates check constraint "users_email_check"`)}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "bad email",
		Expect: ExpectRejected(CheckConstraint, "users_email_check"),
	})

	require.NoError(t, err)
	assert.True(t, res.Passed(), res.Reason)
	assert.Equal(t, CheckConstraint, res.Category)
}

func TestRun_RejectedMatcherIsCaseSensitive(t *testing.T) {
	target := &fakeTarget{respond: reject(`violates check constraint "USERS_EMAIL_CHECK"`)}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "bad email",
		Expect: ExpectRejected(CheckConstraint, "users_email_check"),
	})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, Unclassified, res.Category)
	assert.Contains(t, res.Reason, `does not contain "users_email_check"`)
}

func TestRun_StructuredCategoryWins(t *testing.T) {
	target := &fakeTarget{
		respond: func(string) (int64, error) {
			return 0, &dbError{msg: "value too long for type character varying(30)", code: "22001"}
		},
		categories: map[string]Category{"22001": LengthOverflow},
	}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "long name",
		Expect: ExpectRejected(LengthOverflow, ""),
	})

	require.NoError(t, err)
	assert.True(t, res.Passed(), res.Reason)
	assert.Equal(t, LengthOverflow, res.Category)
	assert.Equal(t, "failure[22001]: value too long for type character varying(30)", res.Actual)
}

func TestRun_StructuredCategoryContradictsExpectation(t *testing.T) {
	target := &fakeTarget{
		respond: func(string) (int64, error) {
			return 0, &dbError{msg: `null value in column "city" violates not-null constraint`, code: "23502"}
		},
		categories: map[string]Category{"23502": NotNullConstraint},
	}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "wrong category",
		Expect: ExpectRejected(CheckConstraint, "city"),
	})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, NotNullConstraint, res.Category)
	assert.Contains(t, res.Reason, "classified as not_null_constraint")
}

func TestRun_UnclassifiedExpectationAcceptsAnyRejection(t *testing.T) {
	target := &fakeTarget{respond: reject("something went wrong")}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "any",
		Expect: ExpectRejected(Unclassified, ""),
	})

	require.NoError(t, err)
	assert.True(t, res.Passed(), res.Reason)
	assert.Equal(t, Unclassified, res.Category)
}

func TestRun_CategoryWithoutEvidenceFails(t *testing.T) {
	target := &fakeTarget{respond: reject("value too long")}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "under-specified",
		Expect: ExpectRejected(LengthOverflow, ""),
	})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, Unclassified, res.Category)
}

func TestRun_ExpectedSuccessGotFailure(t *testing.T) {
	target := &fakeTarget{respond: reject(`null value in column "enabled"`)}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{Name: "s", Expect: ExpectSuccess(1)})

	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, `expected success(1), got failure: null value in column "enabled"`, res.Reason)
	assert.Empty(t, res.Category, "success expectations are never classified")
}

func TestRun_ExpectedRejectionGotSuccess(t *testing.T) {
	r := NewRunner(&fakeTarget{}, "users")

	res, err := r.Run(context.Background(), Scenario{
		Name:   "s",
		Expect: ExpectRejected(CheckConstraint, "users_email_check"),
	})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, `expected rejected(check_constraint, "users_email_check"), got success(1)`, res.Reason)
}

func TestRun_RowCountMismatch(t *testing.T) {
	target := &fakeTarget{respond: func(string) (int64, error) { return 2, nil }}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{Name: "s", Expect: ExpectSuccess(1)})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Contains(t, res.Reason, "row count differs")
}

func TestRun_RowChecks(t *testing.T) {
	clock := testutil.NewFixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	target := &fakeTarget{rows: []map[string]any{{
		"email":      "user@example.com",
		"last_name":  "Pérez",
		"enabled":    true,
		"updated_at": nil,
		"created_at": time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}}}
	r := NewRunner(target, "users", WithClock(clock))

	res, err := r.Run(context.Background(), Scenario{
		Name: "read back",
		Expect: ExpectSuccess(1,
			Equals("email", "user@example.com"),
			Equals("last_name", "Pérez"),
			Equals("enabled", "true"),
			IsNull("updated_at"),
			SameYear("created_at"),
		),
	})

	require.NoError(t, err)
	assert.True(t, res.Passed(), res.Reason)
	assert.Equal(t, []string{"exec", "rows"}, target.calls)
}

func TestRun_RowChecksReportEveryProblem(t *testing.T) {
	clock := testutil.NewFixedClock(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	target := &fakeTarget{rows: []map[string]any{{
		"enabled":    false,
		"updated_at": "2026-10-14 10:00:00",
		"created_at": "2026-12-31 23:59:59",
	}}}
	r := NewRunner(target, "users", WithClock(clock))

	res, err := r.Run(context.Background(), Scenario{
		Name: "read back",
		Expect: ExpectSuccess(1,
			Equals("enabled", "true"),
			IsNull("updated_at"),
			SameYear("created_at"),
			Equals("nickname", "x"),
		),
	})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Contains(t, res.Reason, `enabled: expected "true", got "false"`)
	assert.Contains(t, res.Reason, `updated_at: expected NULL, got "2026-10-14 10:00:00"`)
	assert.Contains(t, res.Reason, "created_at: expected year 2027, got 2026")
	assert.Contains(t, res.Reason, "column nickname not present")
}

func TestRun_NoRowStored(t *testing.T) {
	r := NewRunner(&fakeTarget{}, "users")

	res, err := r.Run(context.Background(), Scenario{Name: "s", Expect: ExpectSuccess(1, IsNull("updated_at"))})

	require.NoError(t, err)
	assert.False(t, res.Passed())
	assert.Equal(t, "insert reported success but no row was stored", res.Reason)
}

func TestRun_InfrastructureFaultIsFatal(t *testing.T) {
	target := &fakeTarget{respond: func(string) (int64, error) { return 0, context.DeadlineExceeded }}
	r := NewRunner(target, "users")

	res, err := r.Run(context.Background(), Scenario{Name: "s", Expect: ExpectRejected(CheckConstraint, "x")})

	require.Error(t, err)
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "s", fatal.Scenario)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, []string{"exec"}, target.calls, "faults are not retried")
}

func TestRun_ReadBackFaultIsFatal(t *testing.T) {
	target := &fakeTarget{rowsErr: errors.New("connection reset by peer")}
	r := NewRunner(target, "users")

	_, err := r.Run(context.Background(), Scenario{Name: "s", Expect: ExpectSuccess(1, IsNull("x"))})

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "read back", fatal.Op)
}

func TestRunAll_ResetsAroundEveryScenario(t *testing.T) {
	n := 0
	target := &fakeTarget{respond: func(string) (int64, error) {
		n++
		if n == 2 {
			return 0, &dbError{msg: "boom"}
		}
		return 1, nil
	}}
	r := NewRunner(target, "users")

	results, err := r.RunAll(context.Background(), []Scenario{
		{Name: "a", Expect: ExpectSuccess(1)},
		{Name: "b", Expect: ExpectSuccess(1)},
		{Name: "c", Expect: ExpectSuccess(1)},
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Passed())
	assert.False(t, results[1].Passed(), "a failing scenario is reported")
	assert.True(t, results[2].Passed(), "and does not stop the suite")
	assert.Equal(t, []string{"reset", "exec", "reset", "exec", "reset", "exec", "reset"}, target.calls)
}

func TestRunAll_FatalStopsSuite(t *testing.T) {
	n := 0
	target := &fakeTarget{respond: func(string) (int64, error) {
		n++
		if n == 2 {
			return 0, errors.New("conn closed")
		}
		return 1, nil
	}}
	r := NewRunner(target, "users")

	results, err := r.RunAll(context.Background(), []Scenario{
		{Name: "a", Expect: ExpectSuccess(1)},
		{Name: "b", Expect: ExpectSuccess(1)},
		{Name: "c", Expect: ExpectSuccess(1)},
	})

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "b", fatal.Scenario)
	require.Len(t, results, 2)
	assert.Equal(t, StateFailed, results[1].State)
	assert.Equal(t, []string{"reset", "exec", "reset", "exec", "reset"}, target.calls, "reset still runs after a fatal scenario")
}

func TestRunAll_ResetFailureIsFatal(t *testing.T) {
	target := &fakeTarget{resetErr: errors.New("permission denied for table users")}
	r := NewRunner(target, "users")

	results, err := r.RunAll(context.Background(), []Scenario{{Name: "a", Expect: ExpectSuccess(1)}})

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "reset users", fatal.Op)
	assert.Empty(t, results)
}

func TestRunAll_GeneratedValidUsers(t *testing.T) {
	faker := gofakeit.New(42)
	var scenarios []Scenario
	for i := 0; i < 20; i++ {
		scenarios = append(scenarios, Scenario{
			Name: fmt.Sprintf("generated_%d", i),
			Columns: []Column{
				Col("email", Lit(faker.Email())),
				Col("username", Lit(faker.Username())),
				Col("city", Lit(faker.City())),
				Col("last_name", Lit(faker.LastName())),
			},
			Expect: ExpectSuccess(1),
		})
	}

	var statements []string
	target := &fakeTarget{respond: func(stmt string) (int64, error) {
		statements = append(statements, stmt)
		return 1, nil
	}}
	results, err := NewRunner(target, "users").RunAll(context.Background(), scenarios)

	require.NoError(t, err)
	for i, res := range results {
		assert.True(t, res.Passed(), res.Scenario)
		assert.True(t, strings.HasPrefix(statements[i], `INSERT INTO "users" ("email", "username", "city", "last_name") VALUES ('`))
	}
}

func TestResult_TransitionsOnlyForward(t *testing.T) {
	res := Result{Scenario: "s"}
	res.advance(StateExecuted)
	res.advance(StateClassified)

	assert.Panics(t, func() { res.advance(StateExecuted) })

	res.advance(StateAsserted)
	res.advance(StatePassed)
	assert.Panics(t, func() { res.advance(StateFailed) }, "terminal states are final")
	assert.Equal(t, "passed", res.Status)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		expect  Expectation
		failure *Failure
		want    Category
	}{
		{
			name:    "structured code",
			expect:  ExpectRejected(CheckConstraint, ""),
			failure: &Failure{Message: "x", Category: NotNullConstraint},
			want:    NotNullConstraint,
		},
		{
			name:    "matcher hit",
			expect:  ExpectRejected(TypeCoercionError, "invalid input syntax for type date"),
			failure: &Failure{Message: `invalid input syntax for type date: "invalid_date"`},
			want:    TypeCoercionError,
		},
		{
			name:    "matcher miss",
			expect:  ExpectRejected(TypeCoercionError, "invalid input syntax for type date"),
			failure: &Failure{Message: "nope"},
			want:    Unclassified,
		},
		{
			name:    "no matcher",
			expect:  ExpectRejected(LengthOverflow, ""),
			failure: &Failure{Message: "too long"},
			want:    Unclassified,
		},
		{
			name:   "no failure",
			expect: ExpectRejected(LengthOverflow, ""),
			want:   Unclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.expect, tt.failure))
		})
	}
}
