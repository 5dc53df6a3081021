// Package search implements the in-memory route search pipeline:
// filter, project, sort and paginate over catalogue routes.
package search

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/route-search-service/internal/domain"
)

// Options configures an Engine.
type Options struct {
	Clock Clock
	// Location is the time zone in which "today" and "now" are evaluated.
	Location        *time.Location
	Holidays        HolidayCalendar
	EnforceDayFlags bool
}

// Engine runs searches over routes already loaded in memory.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	clock           Clock
	location        *time.Location
	holidays        HolidayCalendar
	enforceDayFlags bool
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		clock:           opts.Clock,
		location:        opts.Location,
		holidays:        opts.Holidays,
		enforceDayFlags: opts.EnforceDayFlags,
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.location == nil {
		e.location = time.UTC
	}
	return e
}

// Result - страница результатов и общее количество совпадений
type Result struct {
	Rows       []ResultRow
	TotalCount int
}

// Run filters and expands routes into rows, sorts all of them and returns
// the requested page. Context cancellation is checked between stages.
func (e *Engine) Run(ctx context.Context, routes []*domain.Route, c domain.SearchCriteria, factor decimal.Decimal) (*Result, error) {
	chain := NewFilterChain(c, FilterEnv{
		Now:             e.clock.Now().In(e.location),
		Holidays:        e.holidays,
		EnforceDayFlags: e.enforceDayFlags,
	})

	rows := Project(routes, chain, factor)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Sort(rows, c.SortBy, c.IsAscending)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, total := Paginate(rows, c.PageNumber, c.PageSize)
	return &Result{Rows: page, TotalCount: total}, nil
}
