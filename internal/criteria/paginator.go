package criteria

import "strings"

// MaxLimit is the upper bound on any page size.
const MaxLimit = 1000

// Order is a sort direction.
type Order string

// Sort directions.
const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseOrder returns OrderDesc only for a case-insensitive "desc".
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}

// Paginator holds skip, limit and ordering for a query.
//
// Setters clamp instead of failing: a negative skip becomes 0 and a limit
// outside [0, MaxLimit] becomes MaxLimit. Getters apply defaults, so an
// unset limit reads as MaxLimit and an unset order reads as ASC.
type Paginator struct {
	skip     int64
	limit    int
	limitSet bool
	property string
	order    Order
}

// NewPaginator returns a paginator with every field at its default.
func NewPaginator() *Paginator {
	return &Paginator{}
}

// SetSkip sets the number of rows to skip. Negative values become 0.
func (p *Paginator) SetSkip(n int64) {
	if n < 0 {
		n = 0
	}
	p.skip = n
}

// Skip returns the number of rows to skip.
func (p *Paginator) Skip() int64 {
	return p.skip
}

// SetLimit sets the page size. Values outside [0, MaxLimit] become MaxLimit.
func (p *Paginator) SetLimit(n int) {
	if n < 0 || n > MaxLimit {
		n = MaxLimit
	}
	p.limit = n
	p.limitSet = true
}

// Limit returns the page size, MaxLimit when none was set.
func (p *Paginator) Limit() int {
	if !p.limitSet {
		return MaxLimit
	}
	return p.limit
}

// SetProperty sets the ordering property. Blank means unordered.
func (p *Paginator) SetProperty(property string) {
	p.property = strings.TrimSpace(property)
}

// Property returns the ordering property, "" when unordered.
func (p *Paginator) Property() string {
	return p.property
}

// SetOrder sets the sort direction.
func (p *Paginator) SetOrder(o Order) {
	p.order = o
}

// Order returns the sort direction; anything but DESC reads as ASC.
func (p *Paginator) Order() Order {
	if p.order != OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}
