package criteria

import "fmt"

// DefaultTargetType is the record type every AQL statement selects from.
const DefaultTargetType = "ArtifactEntry"

// Projection selects what a query returns for each match.
type Projection int

const (
	// Rows returns the matching records.
	Rows Projection = iota
	// Count returns the number of matching records.
	Count
)

// Template returns the format template of the projection.
func (p Projection) Template() string {
	if p == Count {
		return "count(%s)"
	}
	return "%s"
}

// Render applies the template to target, e.g. Count.Render("*") is "count(*)".
func (p Projection) Render(target string) string {
	return fmt.Sprintf(p.Template(), target)
}

func (p Projection) String() string {
	if p == Count {
		return "COUNT"
	}
	return "ROWS"
}

// Selector is a complete query request: projection, filter, paging and
// the fetch flag.
type Selector struct {
	TargetType string
	Projection Projection
	Predicate  Predicate
	Paginator  *Paginator
	// Fetch asks the engine to load linked records eagerly.
	Fetch bool
}

// NewSelector returns a row selector over targetType with an empty
// predicate and a default paginator.
func NewSelector(targetType string) *Selector {
	return &Selector{
		TargetType: targetType,
		Projection: Rows,
		Predicate:  NewEmpty(),
		Paginator:  NewPaginator(),
	}
}

// ProjectionText renders the projection over all fields.
func (s *Selector) ProjectionText() string {
	return s.Projection.Render("*")
}
