package scenario

import (
	"fmt"
	"strings"
)

// Category names the kind of constraint that rejected an insert
type Category string

const (
	CheckConstraint   Category = "check_constraint"
	NotNullConstraint Category = "not_null_constraint"
	TypeCoercionError Category = "type_coercion_error"
	LengthOverflow    Category = "length_overflow"
	Unclassified      Category = "unclassified"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CheckConstraint, NotNullConstraint, TypeCoercionError, LengthOverflow, Unclassified:
		return true
	}
	return false
}

func (c Category) orUnclassified() Category {
	if c == "" {
		return Unclassified
	}
	return c
}

type valueKind int

const (
	kindLiteral valueKind = iota
	kindRaw
	kindNull
)

// Value is the literal inserted into a column
type Value struct {
	text string
	kind valueKind
}

// Lit is a string literal, quoted in the generated statement
func Lit(s string) Value { return Value{text: s, kind: kindLiteral} }

// Raw is emitted verbatim, e.g. true, 42 or CURRENT_DATE
func Raw(s string) Value { return Value{text: s, kind: kindRaw} }

// Null is the SQL NULL marker
func Null() Value { return Value{kind: kindNull} }

// IsNull reports whether v is the NULL marker
func (v Value) IsNull() bool { return v.kind == kindNull }

// SQL renders v as a SQL literal
func (v Value) SQL() string {
	switch v.kind {
	case kindNull:
		return "NULL"
	case kindRaw:
		return v.text
	default:
		return "'" + strings.ReplaceAll(v.text, "'", "''") + "'"
	}
}

// Column pairs a column name with the value inserted into it
type Column struct {
	Name  string
	Value Value
}

// Col is shorthand for Column{Name: name, Value: v}
func Col(name string, v Value) Column {
	return Column{Name: name, Value: v}
}

// OutcomeKind is the expected result of an insert
type OutcomeKind string

const (
	Success  OutcomeKind = "success"
	Rejected OutcomeKind = "rejected"
)

// RowCheck is verified against the stored row after a successful insert
type RowCheck struct {
	Column   string
	Equals   *string
	IsNull   bool
	SameYear bool
}

// Equals checks that column was stored as want
func Equals(column, want string) RowCheck {
	return RowCheck{Column: column, Equals: &want}
}

// IsNull checks that column was stored as NULL
func IsNull(column string) RowCheck {
	return RowCheck{Column: column, IsNull: true}
}

// SameYear checks that column holds a timestamp in the runner clock's current year
func SameYear(column string) RowCheck {
	return RowCheck{Column: column, SameYear: true}
}

func (c RowCheck) String() string {
	switch {
	case c.Equals != nil:
		return fmt.Sprintf("%s = %q", c.Column, *c.Equals)
	case c.IsNull:
		return c.Column + " IS NULL"
	case c.SameYear:
		return c.Column + " in current year"
	}
	return c.Column
}

// Expectation is what a scenario author declares the database will do
type Expectation struct {
	Outcome  OutcomeKind
	Category Category
	Matcher  string
	RowCount int64
	Row      []RowCheck
}

// ExpectSuccess expects the insert to affect rows rows (0 skips the count check)
func ExpectSuccess(rows int64, checks ...RowCheck) Expectation {
	return Expectation{Outcome: Success, RowCount: rows, Row: checks}
}

// ExpectRejected expects the insert to fail with a message containing matcher
func ExpectRejected(category Category, matcher string) Expectation {
	return Expectation{Outcome: Rejected, Category: category.orUnclassified(), Matcher: matcher}
}

func (e Expectation) String() string {
	if e.Outcome == Rejected {
		if e.Matcher == "" {
			return fmt.Sprintf("rejected(%s)", e.Category.orUnclassified())
		}
		return fmt.Sprintf("rejected(%s, %q)", e.Category.orUnclassified(), e.Matcher)
	}
	if e.RowCount > 0 {
		return fmt.Sprintf("success(%d)", e.RowCount)
	}
	return "success"
}

// Scenario is one insert attempt and its expected outcome
type Scenario struct {
	Name        string
	Description string
	Columns     []Column
	Expect      Expectation
}

// Failure is a database-reported rejection of a statement
type Failure struct {
	// Message is the driver's error text, verbatim.
	Message string
	// Code is the engine's structured code (SQLSTATE, error number), if any.
	Code string
	// Category is derived from Code; Unclassified when the code is unknown.
	Category Category
}

// Outcome is what actually happened when the statement was submitted
type Outcome struct {
	RowCount int64
	Failure  *Failure
}

// Succeeded reports whether the database accepted the statement
func (o Outcome) Succeeded() bool { return o.Failure == nil }

func (o Outcome) String() string {
	if o.Failure == nil {
		return fmt.Sprintf("success(%d)", o.RowCount)
	}
	if o.Failure.Code != "" {
		return fmt.Sprintf("failure[%s]: %s", o.Failure.Code, o.Failure.Message)
	}
	return "failure: " + o.Failure.Message
}

// State tracks a scenario through Pending → Executed → Classified → Asserted → Passed|Failed
type State int

const (
	StatePending State = iota
	StateExecuted
	StateClassified
	StateAsserted
	StatePassed
	StateFailed
)

var stateNames = [...]string{"pending", "executed", "classified", "asserted", "passed", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is allowed
func (s State) Terminal() bool { return s == StatePassed || s == StateFailed }

// Result is the report for a single scenario
type Result struct {
	Scenario  string   `json:"scenario"`
	State     State    `json:"-"`
	Status    string   `json:"status"`
	Statement string   `json:"statement"`
	Expected  string   `json:"expected"`
	Actual    string   `json:"actual,omitempty"`
	Category  Category `json:"category,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Outcome   Outcome  `json:"-"`
}

// Passed reports whether the scenario met its expectation
func (r Result) Passed() bool { return r.State == StatePassed }

// advance moves the result forward; moving backwards or out of a terminal state is a bug
func (r *Result) advance(to State) {
	if r.State.Terminal() || to <= r.State {
		panic(fmt.Sprintf("scenario %s: invalid transition %s -> %s", r.Scenario, r.State, to))
	}
	r.State = to
	r.Status = to.String()
}

func (r *Result) fail(reason string) {
	r.Reason = reason
	r.advance(StateFailed)
}
