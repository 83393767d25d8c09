package scenario

import (
	"context"
	"fmt"
	"strings"
)

// Classify decides the category of a rejection. A structured category from
// the driver wins; otherwise the expectation's matcher is looked up in the
// raw message and, on a hit, its category is taken. Anything else is
// Unclassified.
func Classify(expect Expectation, f *Failure) Category {
	if f == nil {
		return Unclassified
	}
	if c := f.Category.orUnclassified(); c != Unclassified {
		return c
	}
	if expect.Matcher != "" && strings.Contains(f.Message, expect.Matcher) {
		return expect.Category.orUnclassified()
	}
	return Unclassified
}

// assert returns a non-empty reason when outcome does not meet expect.
// The error is reserved for failures reading the table back.
func (r *Runner) assert(ctx context.Context, expect Expectation, outcome Outcome, category Category) (string, error) {
	switch expect.Outcome {
	case Rejected:
		return assertRejected(expect, outcome, category), nil
	case Success, "":
		return r.assertSuccess(ctx, expect, outcome)
	default:
		return fmt.Sprintf("unknown expected outcome %q", expect.Outcome), nil
	}
}

func assertRejected(expect Expectation, outcome Outcome, category Category) string {
	if outcome.Succeeded() {
		return fmt.Sprintf("expected %s, got %s", expect, outcome)
	}

	msg := outcome.Failure.Message
	if expect.Matcher != "" && !strings.Contains(msg, expect.Matcher) {
		return fmt.Sprintf("expected %s, got %s: message does not contain %q", expect, outcome, expect.Matcher)
	}

	want := expect.Category.orUnclassified()
	if want != Unclassified && category != want {
		return fmt.Sprintf("expected %s, got %s: classified as %s", expect, outcome, category)
	}
	return ""
}

func (r *Runner) assertSuccess(ctx context.Context, expect Expectation, outcome Outcome) (string, error) {
	if !outcome.Succeeded() {
		return fmt.Sprintf("expected %s, got %s", expect, outcome), nil
	}
	if expect.RowCount > 0 && outcome.RowCount != expect.RowCount {
		return fmt.Sprintf("expected %s, got %s: row count differs", expect, outcome), nil
	}
	if len(expect.Row) == 0 {
		return "", nil
	}

	rows, err := r.target.Rows(ctx, r.table)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "insert reported success but no row was stored", nil
	}

	var problems []string
	for _, check := range expect.Row {
		if p := evaluate(check, rows[0], r.clock); p != "" {
			problems = append(problems, p)
		}
	}
	return strings.Join(problems, "; "), nil
}
