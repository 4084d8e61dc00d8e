// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fixture

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

// ErrReadOnly is returned by writes to a collection the console cannot modify.
var ErrReadOnly = errors.New("fixture: collection is read-only")

// Op names a data-source call for failure injection.
type Op struct {
	Collection string
	Action     string
	ID         string
}

// Actions passed in [Op].
const (
	ActionLoad   = "load"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionRemove = "remove"
	ActionFlag   = "flag"
)

// Options tunes every table of a [Backend].
type Options struct {
	// Latency delays each call, imitating a network round trip.
	Latency time.Duration
	// Fail, when set, is consulted before each call; a non-nil error
	// aborts the call before it touches any row.
	Fail func(op Op) error
	// Now replaces the wall clock for timestamps.
	Now func() time.Time
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Table is an ordered, concurrency-safe collection of T.
type Table[T any] struct {
	mu       sync.RWMutex
	name     string
	rows     []T
	key      func(T) string
	match    func(pagination.Criteria, T) bool
	options  *Options
	notFound string
}

func newTable[T any](name, notFound string, options *Options, key func(T) string, match func(pagination.Criteria, T) bool, rows []T) *Table[T] {
	return &Table[T]{name: name, notFound: notFound, options: options, key: key, match: match, rows: rows}
}

// enter applies latency and failure injection for one call.
func (o *Options) enter(ctx context.Context, op Op) error {
	if o.Latency > 0 {
		timer := time.NewTimer(o.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.Fail != nil {
		return o.Fail(op)
	}
	return nil
}

func (t *Table[T]) enter(ctx context.Context, action, id string) error {
	return t.options.enter(ctx, Op{Collection: t.name, Action: action, ID: id})
}

// Load filters every row with the shared criteria semantics and slices one page.
func (t *Table[T]) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[T], error) {
	if err := t.enter(ctx, ActionLoad, ""); err != nil {
		return pagination.Page[T]{}, err
	}
	return t.Query(criteria, nil), nil
}

// Query returns one page of rows matching criteria and the optional extra predicate.
func (t *Table[T]) Query(criteria pagination.Criteria, extra func(T) bool) pagination.Page[T] {
	criteria = criteria.WithDefaults()

	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.match != nil && !t.match(criteria, row) {
			continue
		}
		if extra != nil && !extra(row) {
			continue
		}
		matched = append(matched, row)
	}
	return pagination.Slice(matched, criteria.Params)
}

// All returns a copy of every row.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.rows)
}

// Find returns the row with id.
func (t *Table[T]) Find(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if index := t.indexOf(id); index >= 0 {
		return t.rows[index], nil
	}
	var zero T
	return zero, apperr.NotFound(t.notFound)
}

// Len returns the row count.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[T]) indexOf(id string) int {
	return slices.IndexFunc(t.rows, func(row T) bool { return t.key(row) == id })
}

// mutate runs change on the rows under the write lock. A failing change
// leaves the table untouched.
func (t *Table[T]) mutate(ctx context.Context, action, id string, change func(rows []T) ([]T, error)) error {
	if err := t.enter(ctx, action, id); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := change(slices.Clone(t.rows))
	if err != nil {
		return err
	}
	t.rows = next
	return nil
}

// insert appends row.
func (t *Table[T]) insert(ctx context.Context, row T, check func(rows []T) error) (T, error) {
	err := t.mutate(ctx, ActionCreate, "", func(rows []T) ([]T, error) {
		if check != nil {
			if err := check(rows); err != nil {
				return nil, err
			}
		}
		return append(rows, row), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return row, nil
}

// replace applies change to the row with id and returns the stored result.
func (t *Table[T]) replace(ctx context.Context, id string, change func(rows []T, current T) (T, error)) (T, error) {
	var stored T
	err := t.mutate(ctx, ActionUpdate, id, func(rows []T) ([]T, error) {
		index := slices.IndexFunc(rows, func(row T) bool { return t.key(row) == id })
		if index < 0 {
			return nil, apperr.NotFound(t.notFound)
		}
		next, err := change(rows, rows[index])
		if err != nil {
			return nil, err
		}
		rows[index] = next
		stored = next
		return rows, nil
	})
	return stored, err
}

// drop removes the row with id after check accepts it.
func (t *Table[T]) drop(ctx context.Context, id string, check func(rows []T) error) error {
	return t.mutate(ctx, ActionRemove, id, func(rows []T) ([]T, error) {
		index := slices.IndexFunc(rows, func(row T) bool { return t.key(row) == id })
		if index < 0 {
			return nil, apperr.NotFound(t.notFound)
		}
		if check != nil {
			if err := check(rows); err != nil {
				return nil, err
			}
		}
		return slices.Delete(rows, index, index+1), nil
	})
}

// # Read-only Collections

// ReadOnly adapts a table into a data source that rejects writes.
type ReadOnly[T any] struct {
	*Table[T]
}

func (ReadOnly[T]) Create(context.Context, T) (T, error) {
	var zero T
	return zero, ErrReadOnly
}

func (ReadOnly[T]) Update(context.Context, string, T) (T, error) {
	var zero T
	return zero, ErrReadOnly
}

func (ReadOnly[T]) Remove(context.Context, string) error {
	return ErrReadOnly
}

// Filtered narrows a read-only table with a fixed predicate, such as the
// orders of one user.
type Filtered[T any] struct {
	ReadOnly[T]
	keep func(T) bool
}

// Load applies the predicate before paging.
func (f Filtered[T]) Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[T], error) {
	if err := f.enter(ctx, ActionLoad, ""); err != nil {
		return pagination.Page[T]{}, err
	}
	return f.Query(criteria, f.keep), nil
}
