// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listmgr implements the load and mutate contract every console
screen uses over one entity type.

# Data flow

A [Manager] owns exactly one collection view. Load replaces the view with a
page from its [DataSource]. Mutations are optimistic: the view changes
immediately, the write runs without holding the lock, and the outcome is
reconciled afterwards.

# Rollback

Each mutation is a command that remembers what it changed. A failed command
undoes only its own change:

  - create drops its placeholder row, or only its share of total when the
    page was full and the row never showed.
  - remove puts the row back where it was.
  - update, toggle and flag commands are replayed per row: the row is
    rebuilt from its last confirmed value plus the patches still in flight,
    so a later mutation of the same row survives an earlier failure.

# Staleness

Loads are stamped with a generation. A result is discarded with [ErrStale]
when a newer load started, when its context was cancelled, or when the
manager was closed because the operator left the screen. Mutations that
complete after a newer load or after Close leave the view alone.
*/
package listmgr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

var (
	// ErrStale is returned for a load whose result was discarded.
	ErrStale = errors.New("listmgr: result discarded")
	// ErrClosed is returned once the manager has been closed.
	ErrClosed = errors.New("listmgr: manager closed")
	// ErrNoToggle is returned by Toggle when no toggle was configured.
	ErrNoToggle = errors.New("listmgr: entity has no binary status")
	// ErrUnknownFlag is returned for a flag name that was never registered.
	ErrUnknownFlag = errors.New("listmgr: unknown flag")
	// ErrUnsupported is returned when the data source lacks a capability.
	ErrUnsupported = errors.New("listmgr: operation not supported by data source")
)

// DataSource is the backend of one collection. Fixtures and the resource
// client satisfy it interchangeably.
type DataSource[T any] interface {
	Load(ctx context.Context, criteria pagination.Criteria) (pagination.Page[T], error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Remove(ctx context.Context, id string) error
}

// FlagSetter is implemented by sources that persist exclusive flags.
type FlagSetter interface {
	SetFlag(ctx context.Context, id, flag string) error
}

// StatusToggler is implemented by sources with a dedicated status write.
// Without it, Toggle falls back to Update.
type StatusToggler[T any] interface {
	ToggleStatus(ctx context.Context, id string, next T) (T, error)
}

// Identity reads and assigns the identifier of T.
type Identity[T any] struct {
	Key    func(T) string
	SetKey func(T, string) T
}

// Rules are checked under the manager lock against the current view,
// before any optimistic change or write.
type Rules[T any] struct {
	Validate     func(item T) error
	BeforeCreate func(view []T, item T) error
	BeforeUpdate func(view []T, before, after T) error
	BeforeRemove func(view []T, id string) error
	BeforeFlag   func(view []T, id, flag string) error
}

// Toggle flips the binary status of T.
type Toggle[T any] struct {
	Flip func(T) T
}

// Flag is a named boolean at most one row may hold.
type Flag[T any] struct {
	Has func(T) bool
	Set func(T, bool) T
}

// View is a copy of the collection view.
type View[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
	Criteria pagination.Criteria
	Loading  bool
	// Degraded is set when the last load failed in a way the screen should
	// render as "no data".
	Degraded bool
}

// Option configures a [Manager].
type Option[T any] func(*Manager[T])

// WithName sets the resource name used in NotFound messages.
func WithName[T any](name string) Option[T] {
	return func(m *Manager[T]) { m.name = name }
}

// WithRules installs validation and invariant checks.
func WithRules[T any](rules Rules[T]) Option[T] {
	return func(m *Manager[T]) { m.rules = rules }
}

// WithToggle enables Toggle.
func WithToggle[T any](toggle Toggle[T]) Option[T] {
	return func(m *Manager[T]) { m.toggle = &toggle }
}

// WithFlag registers an exclusive flag.
func WithFlag[T any](name string, flag Flag[T]) Option[T] {
	return func(m *Manager[T]) { m.flags[name] = flag }
}

// WithDegrade turns load failures matching degrade into an empty view.
func WithDegrade[T any](degrade func(error) bool) Option[T] {
	return func(m *Manager[T]) { m.degrade = degrade }
}

// WithLogger attaches a logger for reconciliation events.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(m *Manager[T]) { m.logger = logger }
}

// patchEntry is one in-flight row mutation.
type patchEntry[T any] struct {
	id    uint64
	patch func(T) T
}

// chain tracks the confirmed value of one row and its pending patches.
type chain[T any] struct {
	confirmed T
	pending   []patchEntry[T]
}

func (c *chain[T]) current() T {
	state := c.confirmed
	for _, entry := range c.pending {
		state = entry.patch(state)
	}
	return state
}

func (c *chain[T]) take(id uint64) (patchEntry[T], bool) {
	for i, entry := range c.pending {
		if entry.id == id {
			c.pending = slices.Delete(c.pending, i, i+1)
			return entry, true
		}
	}
	return patchEntry[T]{}, false
}

// Manager owns one collection view. It is safe for concurrent use.
type Manager[T any] struct {
	mu sync.Mutex

	name     string
	source   DataSource[T]
	identity Identity[T]
	rules    Rules[T]
	toggle   *Toggle[T]
	flags    map[string]Flag[T]
	degrade  func(error) bool
	logger   zerolog.Logger

	items    []T
	total    int
	page     int
	pageSize int
	criteria pagination.Criteria
	loading  bool
	degraded bool

	loadGen uint64
	viewGen uint64
	closed  bool
	nextID  uint64
	chains  map[string]*chain[T]
}

// New returns a manager over source.
func New[T any](source DataSource[T], identity Identity[T], options ...Option[T]) *Manager[T] {
	manager := &Manager[T]{
		name:     "Item",
		source:   source,
		identity: identity,
		flags:    map[string]Flag[T]{},
		logger:   zerolog.Nop(),
		items:    []T{},
		chains:   map[string]*chain[T]{},
	}
	for _, option := range options {
		option(manager)
	}
	return manager
}

// # Reading

// View returns a copy of the current collection view.
func (m *Manager[T]) View() View[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view()
}

func (m *Manager[T]) view() View[T] {
	return View[T]{
		Items:    slices.Clone(m.items),
		Total:    m.total,
		Page:     m.page,
		PageSize: m.pageSize,
		Criteria: m.criteria,
		Loading:  m.loading,
		Degraded: m.degraded,
	}
}

/*
Load replaces the view with the page matching criteria.

Description: Every call starts a new generation. When the result arrives
after a newer Load, after ctx was cancelled, or after Close, it is dropped
and ErrStale is returned.
*/
func (m *Manager[T]) Load(ctx context.Context, criteria pagination.Criteria) (View[T], error) {
	criteria = criteria.WithDefaults()
	if err := criteria.Validate(); err != nil {
		return View[T]{}, apperr.ValidationError(err.Error())
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return View[T]{}, ErrClosed
	}
	m.loadGen++
	generation := m.loadGen
	m.loading = true
	m.mu.Unlock()

	page, err := m.source.Load(ctx, criteria)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || generation != m.loadGen {
		return View[T]{}, ErrStale
	}
	m.loading = false
	if ctx.Err() != nil {
		return View[T]{}, ErrStale
	}

	if err != nil {
		if m.degrade == nil || !m.degrade(err) {
			return m.view(), err
		}
		m.logger.Debug().Err(err).Str("resource", m.name).Msg("list_load_degraded")
		page = pagination.NewPage([]T{}, 0, criteria.Params)
		m.degraded = true
	} else {
		m.degraded = false
	}

	m.items = slices.Clone(page.List)
	if m.items == nil {
		m.items = []T{}
	}
	m.total = page.Total
	m.page = criteria.Page
	m.pageSize = criteria.PageSize
	m.criteria = criteria
	m.viewGen++
	m.chains = map[string]*chain[T]{}

	return m.view(), nil
}

// Close discards every result that completes from now on.
func (m *Manager[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// # Mutations

/*
Create validates item, appends a placeholder row and writes it.

Description: On success the placeholder is replaced in place by the stored
entity. On failure the placeholder is removed and total restored. When the
current page is already full only total grows, so a page never holds more
than its page size.
*/
func (m *Manager[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := m.validate(item); err != nil {
		return zero, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return zero, ErrClosed
	}
	if m.rules.BeforeCreate != nil {
		if err := m.rules.BeforeCreate(slices.Clone(m.items), item); err != nil {
			m.mu.Unlock()
			return zero, err
		}
	}

	m.nextID++
	placeholder := fmt.Sprintf("pending-%d", m.nextID)
	if m.pageSize <= 0 || len(m.items) < m.pageSize {
		m.items = append(m.items, m.identity.SetKey(item, placeholder))
	}
	m.total++
	generation := m.viewGen
	m.mu.Unlock()

	created, err := m.source.Create(ctx, item)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stale(generation) {
		return created, err
	}

	index := m.indexOf(placeholder)
	if err != nil {
		if index >= 0 {
			m.items = slices.Delete(m.items, index, index+1)
		}
		m.total--
		m.logger.Debug().Err(err).Str("resource", m.name).Msg("list_create_rolled_back")
		return zero, err
	}

	if index >= 0 {
		m.items[index] = created
	}
	return created, nil
}

// Update merges patch into the row id and writes the result.
func (m *Manager[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	return m.mutateRow(ctx, id, patch, m.source.Update)
}

// Toggle flips the binary status of row id.
func (m *Manager[T]) Toggle(ctx context.Context, id string) (T, error) {
	if m.toggle == nil {
		var zero T
		return zero, ErrNoToggle
	}

	write := m.source.Update
	if toggler, ok := m.source.(StatusToggler[T]); ok {
		write = toggler.ToggleStatus
	}
	return m.mutateRow(ctx, id, m.toggle.Flip, write)
}

func (m *Manager[T]) mutateRow(ctx context.Context, id string, patch func(T) T, write func(context.Context, string, T) (T, error)) (T, error) {
	var zero T
	keyed := func(item T) T { return m.identity.SetKey(patch(item), id) }

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return zero, ErrClosed
	}

	index := m.indexOf(id)
	if index < 0 {
		m.mu.Unlock()
		return zero, apperr.NotFound(m.name)
	}

	before := m.items[index]
	after := keyed(before)
	if err := m.validate(after); err != nil {
		m.mu.Unlock()
		return zero, err
	}
	if m.rules.BeforeUpdate != nil {
		if err := m.rules.BeforeUpdate(slices.Clone(m.items), before, after); err != nil {
			m.mu.Unlock()
			return zero, err
		}
	}

	commandID := m.push(id, before, keyed)
	m.items[index] = after
	generation := m.viewGen
	m.mu.Unlock()

	result, err := write(ctx, id, after)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stale(generation) {
		m.settle(id, commandID, err, func(T) T { return result })
	}
	if err != nil {
		return zero, err
	}
	return result, nil
}

/*
Remove deletes row id.

Description: BeforeRemove runs before the row leaves the view and before the
write, so an invariant breach never reaches the data source. On failure the
row is reinserted at its old position.
*/
func (m *Manager[T]) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	index := m.indexOf(id)
	if index < 0 {
		m.mu.Unlock()
		return apperr.NotFound(m.name)
	}
	if m.rules.BeforeRemove != nil {
		if err := m.rules.BeforeRemove(slices.Clone(m.items), id); err != nil {
			m.mu.Unlock()
			return err
		}
	}

	removed := m.items[index]
	m.items = slices.Delete(m.items, index, index+1)
	m.total--
	generation := m.viewGen
	m.mu.Unlock()

	err := m.source.Remove(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil || m.stale(generation) {
		if err == nil {
			delete(m.chains, id)
		}
		return err
	}

	if rows, ok := m.chains[id]; ok {
		removed = rows.current()
	}
	position := min(index, len(m.items))
	m.items = slices.Insert(m.items, position, removed)
	m.total++
	m.logger.Debug().Err(err).Str("resource", m.name).Str("id", id).Msg("list_remove_rolled_back")
	return err
}

/*
SetExclusiveFlag gives flag to row id and clears it on every other row.

Description: The whole view changes under one lock, so no reader ever sees
zero or two flagged rows. A failed write replays each row from its confirmed
value, which restores the previous holder.
*/
func (m *Manager[T]) SetExclusiveFlag(ctx context.Context, id, name string) error {
	flag, ok := m.flags[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFlag, name)
	}
	setter, ok := m.source.(FlagSetter)
	if !ok {
		return ErrUnsupported
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.indexOf(id) < 0 {
		m.mu.Unlock()
		return apperr.NotFound(m.name)
	}
	if m.rules.BeforeFlag != nil {
		if err := m.rules.BeforeFlag(slices.Clone(m.items), id, name); err != nil {
			m.mu.Unlock()
			return err
		}
	}

	commands := make(map[string]uint64, len(m.items))
	for index, item := range m.items {
		key := m.identity.Key(item)
		holds := key == id
		patch := func(row T) T { return flag.Set(row, holds) }
		commands[key] = m.push(key, item, patch)
		m.items[index] = patch(item)
	}
	generation := m.viewGen
	m.mu.Unlock()

	err := setter.SetFlag(ctx, id, name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stale(generation) {
		return err
	}
	for key, commandID := range commands {
		m.settle(key, commandID, err, nil)
	}
	return err
}

// # Internals

func (m *Manager[T]) validate(item T) error {
	if m.rules.Validate == nil {
		return nil
	}
	return m.rules.Validate(item)
}

func (m *Manager[T]) stale(generation uint64) bool {
	return m.closed || generation != m.viewGen
}

func (m *Manager[T]) indexOf(id string) int {
	return slices.IndexFunc(m.items, func(item T) bool { return m.identity.Key(item) == id })
}

// push records a pending patch for row key whose current value is current.
func (m *Manager[T]) push(key string, current T, patch func(T) T) uint64 {
	rows, ok := m.chains[key]
	if !ok {
		rows = &chain[T]{confirmed: current}
		m.chains[key] = rows
	}
	m.nextID++
	rows.pending = append(rows.pending, patchEntry[T]{id: m.nextID, patch: patch})
	return m.nextID
}

// settle retires one pending patch and rebuilds the row. On success the
// confirmed value advances, either to the stored entity returned by confirm
// or, when confirm is nil, by applying the patch itself.
func (m *Manager[T]) settle(key string, commandID uint64, err error, confirm func(T) T) {
	rows, ok := m.chains[key]
	if !ok {
		return
	}
	entry, ok := rows.take(commandID)
	if !ok {
		return
	}

	if err == nil {
		if confirm != nil {
			rows.confirmed = confirm(rows.confirmed)
		} else {
			rows.confirmed = entry.patch(rows.confirmed)
		}
	}

	if index := m.indexOf(key); index >= 0 {
		m.items[index] = rows.current()
	}
	if len(rows.pending) == 0 {
		delete(m.chains, key)
	}
}
