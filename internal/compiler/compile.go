package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/aql/internal/canonical"
	"github.com/roach88/aql/internal/criteria"
)

// FetchPlan is appended when a selector asks for eager loading.
const FetchPlan = "FETCHPLAN *:-1"

// Query is a compiled query.
type Query struct {
	Text        string         `json:"text"`
	Params      map[string]any `json:"params"`
	Fingerprint string         `json:"fingerprint"`
}

// Compile renders sel into query text and its parameter map.
func Compile(sel *criteria.Selector) (*Query, error) {
	if sel == nil {
		return nil, fmt.Errorf("cannot compile nil selector")
	}
	r := newRenderer()
	text, err := r.query(sel)
	if err != nil {
		return nil, err
	}
	fp, err := canonical.QueryFingerprint(text, r.params)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	return &Query{Text: text, Params: r.params, Fingerprint: fp}, nil
}

// QueryString renders only the text of sel.
func QueryString(sel *criteria.Selector) (string, error) {
	q, err := Compile(sel)
	if err != nil {
		return "", err
	}
	return q.Text, nil
}

// CountQuery renders sel with a count(*) projection and without ordering
// or paging, for computing totals.
func CountQuery(sel *criteria.Selector) (*Query, error) {
	if sel == nil {
		return nil, fmt.Errorf("cannot compile nil selector")
	}
	count := criteria.NewSelector(sel.TargetType)
	count.Projection = criteria.Count
	count.Predicate = sel.Predicate
	count.Paginator.SetLimit(0)
	return Compile(count)
}

// ParameterMap collects the bound values of p keyed by parameter name,
// numbering in the same order as the rendered text.
func ParameterMap(p criteria.Predicate) map[string]any {
	params := make(map[string]any)
	n := 0
	criteria.Walk(p, func(e criteria.Expression) {
		if !e.Operator.Binds() {
			return
		}
		params[ParameterName(bindProperty(e), n)] = e.Value
		n++
	})
	return params
}

// ParameterName derives a placeholder name from a property: a trailing
// ".toLowerCase()" and any '@' are dropped, the last dot segment is kept
// and "_n" appended.
func ParameterName(property string, n int) string {
	name := strings.TrimSuffix(property, ".toLowerCase()")
	name = strings.ReplaceAll(name, "@", "")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name + "_" + strconv.Itoa(n)
}

// bindProperty is the property a parameter is named after. For CONTAINS
// that is the element side of "collection.element".
func bindProperty(e criteria.Expression) string {
	if e.Operator == criteria.OpContains {
		if _, elem, ok := strings.Cut(e.Property, "."); ok {
			return elem
		}
	}
	return e.Property
}

type renderer struct {
	n      int
	params map[string]any
}

func newRenderer() *renderer {
	return &renderer{params: make(map[string]any)}
}

func (r *renderer) query(sel *criteria.Selector) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(sel.ProjectionText())
	b.WriteString(" FROM ")
	b.WriteString(sel.TargetType)

	if !criteria.IsEmpty(sel.Predicate) {
		where, err := r.predicate(sel.Predicate)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	pag := sel.Paginator
	if pag == nil {
		pag = criteria.NewPaginator()
	}
	if prop := pag.Property(); prop != "" {
		fmt.Fprintf(&b, " ORDER BY %s %s", prop, pag.Order())
	}
	if pag.Skip() > 0 {
		fmt.Fprintf(&b, " SKIP %d", pag.Skip())
	}
	if pag.Limit() > 0 {
		fmt.Fprintf(&b, " LIMIT %d", pag.Limit())
	}
	if sel.Fetch {
		b.WriteString(" ")
		b.WriteString(FetchPlan)
	}
	return b.String(), nil
}

func (r *renderer) predicate(p criteria.Predicate) (string, error) {
	switch n := p.(type) {
	case nil, *criteria.Empty:
		return "", nil
	case *criteria.Leaf:
		return r.expression(n.Expr)
	case *criteria.And:
		return r.junction(criteria.BoolAnd, n.Operands)
	case *criteria.Or:
		return r.junction(criteria.BoolOr, n.Operands)
	case *criteria.Group:
		inner, err := r.predicate(n.Operand)
		if err != nil || inner == "" {
			return "", err
		}
		return "(" + inner + ")", nil
	case *criteria.Not:
		operand := n.Operand
		if g, ok := operand.(*criteria.Group); ok {
			operand = g.Operand
		}
		inner, err := r.predicate(operand)
		if err != nil || inner == "" {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// junction joins non-empty operands. An operand that is the opposite
// junction is parenthesized so AND keeps binding tighter than OR.
func (r *renderer) junction(op criteria.BoolOp, operands []criteria.Predicate) (string, error) {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		s, err := r.predicate(operand)
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		if isOpposite(op, operand) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "+op.String()+" "), nil
}

func isOpposite(op criteria.BoolOp, p criteria.Predicate) bool {
	switch p.(type) {
	case *criteria.And:
		return op == criteria.BoolOr
	case *criteria.Or:
		return op == criteria.BoolAnd
	}
	return false
}

var operatorTokens = map[criteria.Operator]string{
	criteria.OpEQ:        " = ",
	criteria.OpLE:        " <= ",
	criteria.OpGE:        " >= ",
	criteria.OpLike:      " LIKE ",
	criteria.OpContains:  " CONTAINS ",
	criteria.OpIsNull:    " IS NULL",
	criteria.OpIsNotNull: " IS NOT NULL",
}

func (r *renderer) expression(e criteria.Expression) (string, error) {
	token, ok := operatorTokens[e.Operator]
	if !ok {
		return "", fmt.Errorf("unsupported operator %q on %s", e.Operator, e.Property)
	}
	if !e.Operator.Binds() {
		return e.Property + token, nil
	}

	name := r.bind(e)
	if e.Operator == criteria.OpContains {
		if collection, elem, ok := strings.Cut(e.Property, "."); ok {
			return collection + token + "(" + elem + " = :" + name + ")", nil
		}
	}
	return e.Property + token + ":" + name, nil
}

func (r *renderer) bind(e criteria.Expression) string {
	name := ParameterName(bindProperty(e), r.n)
	r.n++
	r.params[name] = e.Value
	return name
}
