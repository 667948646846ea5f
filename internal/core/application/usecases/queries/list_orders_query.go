package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the viewer's orders, newest first, optionally limited
// to one status. Customers see the orders they placed, stores the orders
// placed with them, riders the orders they claimed and admins every order.
type ListOrdersQuery struct {
	viewer kernel.Actor
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery builds the query. An empty status lists every status; a
// zero limit means DefaultPageSize.
func NewListOrdersQuery(viewer kernel.Actor, status string, limit, offset int) (ListOrdersQuery, error) {
	if err := viewer.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}

	q := ListOrdersQuery{viewer: viewer, limit: limit, offset: offset}

	if status != "" {
		parsed, err := order.ParseStatus(status)
		if err != nil {
			return ListOrdersQuery{}, err
		}
		q.status = &parsed
	}

	if q.limit == 0 {
		q.limit = DefaultPageSize
	}
	if q.limit < 1 || q.limit > MaxPageSize {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if q.offset < 0 {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	q.guard = guard.NewConstructorGuard()
	return q, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Viewer() kernel.Actor {
	return q.viewer
}

// Status is nil when every status is listed.
func (q ListOrdersQuery) Status() *order.Status {
	return q.status
}

func (q ListOrdersQuery) Limit() int {
	return q.limit
}

func (q ListOrdersQuery) Offset() int {
	return q.offset
}
