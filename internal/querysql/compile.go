// Package querysql renders the criteria model to parameterized SQLite over
// the artifact_entries table.
//
// It mirrors internal/compiler clause for clause so the same Selector runs
// against a local index: only the rendering vocabulary differs. Parameter
// names come from compiler.ParameterName and are bound with sql.Named.
// Every property the dialect produces has a rendering here.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/aql/internal/compiler"
	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/dialect"
)

// Table is the artifact table every selector targets.
const Table = "artifact_entries"

// Columns is the row projection, in scan order.
const Columns = "id, storage_id, repository_id, path, layout, coordinates_type, coordinates, version, tags, size_bytes, last_updated, created_at"

var columnsByProperty = map[string]string{
	"storageId":                   "storage_id",
	"repositoryId":                "repository_id",
	"artifactCoordinates":         "coordinates",
	"artifactCoordinates.@class":  "coordinates_type",
	"artifactCoordinates.version": "version",
	"lastUpdated":                 "last_updated",
}

// TagProperty is the criteria property of a tag name. Tags live in the
// JSON array column, so it has no plain column.
const TagProperty = "tagSet.name"

// tagOrder sorts by the smallest tag of a row.
const tagOrder = "(SELECT min(value) FROM json_each(" + Table + ".tags))"

// stableOrderKey ends every ORDER BY so results are deterministic.
const stableOrderKey = "id COLLATE BINARY ASC"

// Compile renders sel to SQLite. ORDER BY always ends with the id
// tiebreaker so results are deterministic.
func Compile(sel *criteria.Selector) (*compiler.Query, error) {
	if sel == nil {
		return nil, fmt.Errorf("cannot compile nil selector")
	}
	r := &renderer{params: make(map[string]any)}

	var b strings.Builder
	b.WriteString("SELECT ")
	if sel.Projection == criteria.Count {
		b.WriteString(criteria.Count.Render("*"))
	} else {
		b.WriteString(Columns)
	}
	b.WriteString(" FROM " + Table)

	if !criteria.IsEmpty(sel.Predicate) {
		where, err := r.predicate(sel.Predicate)
		if err != nil {
			return nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE " + where)
	}

	pag := sel.Paginator
	if pag == nil {
		pag = criteria.NewPaginator()
	}
	if sel.Projection != criteria.Count {
		order := stableOrderKey
		if prop := pag.Property(); prop != "" {
			col, err := orderColumn(prop)
			if err != nil {
				return nil, fmt.Errorf("compile order: %w", err)
			}
			order = fmt.Sprintf("%s %s, %s", col, pag.Order(), order)
		}
		b.WriteString(" ORDER BY " + order)

		limit := pag.Limit()
		switch {
		case limit > 0:
			fmt.Fprintf(&b, " LIMIT %d", limit)
		case pag.Skip() > 0:
			b.WriteString(" LIMIT -1")
		}
		if pag.Skip() > 0 {
			fmt.Fprintf(&b, " OFFSET %d", pag.Skip())
		}
	}

	return &compiler.Query{Text: b.String(), Params: r.params}, nil
}

// CountQuery renders the count(*) form of sel without ordering or paging.
func CountQuery(sel *criteria.Selector) (*compiler.Query, error) {
	if sel == nil {
		return nil, fmt.Errorf("cannot compile nil selector")
	}
	count := criteria.NewSelector(sel.TargetType)
	count.Projection = criteria.Count
	count.Predicate = sel.Predicate
	return Compile(count)
}

type renderer struct {
	n      int
	params map[string]any
}

func (r *renderer) predicate(p criteria.Predicate) (string, error) {
	switch n := p.(type) {
	case nil, *criteria.Empty:
		return "", nil
	case *criteria.Leaf:
		return r.expression(n.Expr)
	case *criteria.And:
		return r.junction("AND", n.Operands)
	case *criteria.Or:
		return r.junction("OR", n.Operands)
	case *criteria.Group:
		inner, err := r.predicate(n.Operand)
		if err != nil || inner == "" {
			return "", err
		}
		return "(" + inner + ")", nil
	case *criteria.Not:
		inner, err := r.predicate(n.Operand)
		if err != nil || inner == "" {
			return "", err
		}
		if _, grouped := n.Operand.(*criteria.Group); grouped {
			return "NOT " + inner, nil
		}
		return "NOT (" + inner + ")", nil
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (r *renderer) junction(op string, operands []criteria.Predicate) (string, error) {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		s, err := r.predicate(operand)
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		switch operand.(type) {
		case *criteria.And:
			if op == "OR" {
				s = "(" + s + ")"
			}
		case *criteria.Or:
			if op == "AND" {
				s = "(" + s + ")"
			}
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "+op+" "), nil
}

func (r *renderer) expression(e criteria.Expression) (string, error) {
	if e.Property == TagProperty {
		return r.tag(e)
	}
	if e.Operator == criteria.OpContains {
		return "", fmt.Errorf("CONTAINS is only supported on %s, got %s", TagProperty, e.Property)
	}
	col, err := column(e.Property)
	if err != nil {
		return "", err
	}
	// Dates are day granular while stored values may be timestamps.
	if e.Property == "lastUpdated" && e.Operator != criteria.OpLike {
		col = "date(" + col + ")"
	}
	switch e.Operator {
	case criteria.OpIsNull:
		return col + " IS NULL", nil
	case criteria.OpIsNotNull:
		return col + " IS NOT NULL", nil
	}
	cmp, ok := comparisons[e.Operator]
	if !ok {
		return "", fmt.Errorf("unsupported operator %q on %s", e.Operator, e.Property)
	}
	return col + cmp + ":" + r.bind(e.Property, e.Value), nil
}

var comparisons = map[criteria.Operator]string{
	criteria.OpEQ:   " = ",
	criteria.OpGE:   " >= ",
	criteria.OpLE:   " <= ",
	criteria.OpLike: " LIKE ",
}

// tag renders a condition on the tags array: true when some tag matches.
// IS NULL holds for rows without tags.
func (r *renderer) tag(e criteria.Expression) (string, error) {
	each := "SELECT 1 FROM json_each(" + Table + ".tags)"
	switch e.Operator {
	case criteria.OpIsNull:
		return "NOT EXISTS (" + each + ")", nil
	case criteria.OpIsNotNull:
		return "EXISTS (" + each + ")", nil
	}
	cmp := " = "
	if e.Operator != criteria.OpContains {
		var ok bool
		if cmp, ok = comparisons[e.Operator]; !ok {
			return "", fmt.Errorf("unsupported operator %q on %s", e.Operator, e.Property)
		}
	}
	_, elem, _ := strings.Cut(e.Property, ".")
	name := r.bind(elem, e.Value)
	return fmt.Sprintf("EXISTS (%s WHERE json_each.value%s:%s)", each, cmp, name), nil
}

// bind names parameters like the document renderer. SQLite placeholders
// only take word characters, so anything else in the name becomes '_';
// the counter suffix keeps sanitized names unique.
func (r *renderer) bind(property string, value any) string {
	name := placeholder(compiler.ParameterName(property, r.n))
	r.n++
	r.params[name] = value
	return name
}

func placeholder(name string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			return c
		}
		return '_'
	}, name)
}

// column maps a criteria property to a SQL expression. Coordinate keys
// are quoted inside the JSON path, so any key without quotes, backslashes
// or control characters is accepted.
func column(property string) (string, error) {
	if col, ok := columnsByProperty[property]; ok {
		return col, nil
	}
	if key, ok := strings.CutPrefix(property, dialect.CoordinatesPrefix); ok {
		if !validCoordinateKey(key) {
			return "", fmt.Errorf("invalid coordinate key %q", key)
		}
		return fmt.Sprintf(`json_extract(coordinates, '$."%s"')`, key), nil
	}
	return "", fmt.Errorf("unsupported property %q", property)
}

func orderColumn(property string) (string, error) {
	if property == TagProperty {
		return tagOrder, nil
	}
	return column(property)
}

func validCoordinateKey(key string) bool {
	if key == "" {
		return false
	}
	for _, c := range key {
		if c < 0x20 || c == 0x7f || c == '"' || c == '\'' || c == '\\' {
			return false
		}
	}
	return true
}
