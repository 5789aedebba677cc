package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/layout"
)

// Wildcard is the LIKE marker substituted for a leading or trailing '*'.
const Wildcard = "%"

const wrapChars = "'\"`!"

// Dialect holds the collaborators shared by every step of one query.
type Dialect struct {
	locator layout.Locator
	now     func() time.Time
}

// Option configures a Dialect.
type Option func(*Dialect)

// WithClock sets the time source used for age values.
func WithClock(now func() time.Time) Option {
	return func(d *Dialect) {
		if now != nil {
			d.now = now
		}
	}
}

// New returns a dialect resolving layouts through locator. A nil locator
// uses the built-in layout registry.
func New(locator layout.Locator, opts ...Option) *Dialect {
	if locator == nil {
		locator = layout.Default()
	}
	d := &Dialect{locator: locator, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PropertyStep is a leaf whose property is known.
type PropertyStep struct {
	d        *Dialect
	keyword  Keyword
	property string
}

// ValueStep is a leaf whose property and value are known.
type ValueStep struct {
	prop     PropertyStep
	value    string
	wildcard bool
}

// ParseProperty resolves attr to a record property.
func (d *Dialect) ParseProperty(attr string) PropertyStep {
	k, _ := LookupKeyword(attr)
	return PropertyStep{d: d, keyword: k, property: ResolveProperty(attr)}
}

// Property returns the resolved property.
func (s PropertyStep) Property() string { return s.property }

// Keyword returns the matched keyword, or KeywordNone for generic attributes.
func (s PropertyStep) Keyword() Keyword { return s.keyword }

// ParseValue normalizes raw: one layer of quote, backtick or '!' wrapping
// is removed and a leading or trailing '*' becomes the LIKE wildcard.
// Layout values resolve to their coordinate type name; age values become
// the cutoff date.
func (s PropertyStep) ParseValue(raw string) (ValueStep, error) {
	v := Unwrap(strings.TrimSpace(raw))

	switch s.keyword {
	case KeywordLayout:
		typ, err := s.d.locator.CoordinatesType(v)
		if err != nil {
			qe := criteria.NewQueryParseError(criteria.CodeUnknownLayout, v, "unknown layout %q", v)
			qe.Err = err
			return ValueStep{}, qe
		}
		return ValueStep{prop: s, value: typ}, nil
	case KeywordAge:
		cutoff, err := AgeCutoff(s.d.now(), v)
		if err != nil {
			return ValueStep{}, err
		}
		return ValueStep{prop: s, value: cutoff}, nil
	}

	v, wildcard := rewriteWildcard(v)
	return ValueStep{prop: s, value: v, wildcard: wildcard}, nil
}

// Value returns the normalized value.
func (s ValueStep) Value() string { return s.value }

// ParseOperator completes the leaf. An explicit opText wins; otherwise the
// operator is inferred from the keyword and value.
func (s ValueStep) ParseOperator(opText string) (criteria.Expression, error) {
	op, err := s.operator(opText)
	if err != nil {
		return criteria.Expression{}, err
	}
	var value any = s.value
	if !op.Binds() {
		value = nil
	}
	return criteria.NewExpression(s.prop.property, op, value), nil
}

func (s ValueStep) operator(opText string) (criteria.Operator, error) {
	if strings.TrimSpace(opText) != "" {
		return ExplicitOperator(opText)
	}
	switch s.prop.keyword {
	case KeywordFrom:
		return criteria.OpGE, nil
	case KeywordTo, KeywordAge:
		return criteria.OpLE, nil
	case KeywordTag:
		return criteria.OpContains, nil
	}
	if s.wildcard || strings.Contains(s.value, Wildcard) {
		return criteria.OpLike, nil
	}
	return criteria.OpEQ, nil
}

var explicitOperators = map[string]criteria.Operator{
	"=":           criteria.OpEQ,
	"==":          criteria.OpEQ,
	">=":          criteria.OpGE,
	"<=":          criteria.OpLE,
	"like":        criteria.OpLike,
	"contains":    criteria.OpContains,
	"is null":     criteria.OpIsNull,
	"is not null": criteria.OpIsNotNull,
}

// ExplicitOperator parses operator text such as ">=" or "is not null".
func ExplicitOperator(opText string) (criteria.Operator, error) {
	key := strings.ToLower(strings.Join(strings.Fields(opText), " "))
	op, ok := explicitOperators[key]
	if !ok {
		return "", criteria.NewQueryParseError(criteria.CodeSyntax, opText, "unsupported operator")
	}
	return op, nil
}

// Unwrap removes one leading and one trailing quote, backtick or '!'.
func Unwrap(v string) string {
	if v != "" && strings.ContainsRune(wrapChars, rune(v[0])) {
		v = v[1:]
	}
	if v != "" && strings.ContainsRune(wrapChars, rune(v[len(v)-1])) {
		v = v[:len(v)-1]
	}
	return v
}

func rewriteWildcard(v string) (string, bool) {
	wildcard := false
	if strings.HasPrefix(v, "*") {
		v = Wildcard + v[1:]
		wildcard = true
	}
	if strings.HasSuffix(v, "*") {
		v = v[:len(v)-1] + Wildcard
		wildcard = true
	}
	return v, wildcard
}

var ageUnit = regexp.MustCompile(`^(\d+)([dwmy])$`)

// AgeCutoff returns the date (YYYY-MM-DD) that lies age before now.
// Ages are counts of days, weeks, months or years ("7d", "2w", "3m", "1y")
// or Go durations ("36h").
func AgeCutoff(now time.Time, age string) (string, error) {
	age = strings.ToLower(strings.TrimSpace(age))
	if m := ageUnit.FindStringSubmatch(age); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", invalidAge(age, err)
		}
		var t time.Time
		switch m[2] {
		case "d":
			t = now.AddDate(0, 0, -n)
		case "w":
			t = now.AddDate(0, 0, -7*n)
		case "m":
			t = now.AddDate(0, -n, 0)
		case "y":
			t = now.AddDate(-n, 0, 0)
		}
		return t.Format(time.DateOnly), nil
	}
	d, err := time.ParseDuration(age)
	if err != nil {
		return "", invalidAge(age, err)
	}
	if d < 0 {
		return "", invalidAge(age, errors.New("negative age"))
	}
	return now.Add(-d).Format(time.DateOnly), nil
}

func invalidAge(age string, err error) error {
	qe := criteria.NewQueryParseError(criteria.CodeInvalidValue, age, "invalid age")
	qe.Err = fmt.Errorf("parse age: %w", err)
	return qe
}
