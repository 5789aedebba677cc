package visitor

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/aql/internal/criteria"
	"github.com/roach88/aql/internal/dialect"
	"github.com/roach88/aql/internal/syntax"
)

// DefaultLimit is the page size of an AQL statement without a limit clause.
const DefaultLimit = 25

// PaginatorVisitor reads order, skip and limit clauses.
type PaginatorVisitor struct{}

// Visit returns the paginator for q. Missing clauses keep their defaults.
func (PaginatorVisitor) Visit(q *syntax.Query) (*criteria.Paginator, error) {
	p := criteria.NewPaginator()
	p.SetLimit(DefaultLimit)
	if q == nil {
		return p, nil
	}

	if q.Order != nil {
		p.SetProperty(dialect.ResolveProperty(q.Order.Value))
		p.SetOrder(criteria.ParseOrder(q.Order.Direction))
	}
	if q.Page != nil {
		skip, err := strconv.ParseInt(strings.TrimSpace(q.Page.Literal), 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, pageError("skip", q.Page.Literal, err)
		}
		// ParseInt saturates on overflow, so out-of-range values clamp.
		p.SetSkip(skip)
	}
	if q.Limit != nil {
		limit, err := strconv.Atoi(strings.TrimSpace(q.Limit.Literal))
		switch {
		case errors.Is(err, strconv.ErrRange):
			limit = criteria.MaxLimit
		case err != nil:
			return nil, pageError("limit", q.Limit.Literal, err)
		}
		p.SetLimit(limit)
	}
	return p, nil
}

func pageError(clause, literal string, err error) error {
	qe := criteria.NewQueryParseError(criteria.CodeInvalidPage, literal, "%s must be a number", clause)
	qe.Err = err
	return qe
}
