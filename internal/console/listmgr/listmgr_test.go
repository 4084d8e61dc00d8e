// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listmgr_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/merchantdesk/internal/console/listmgr"
	"github.com/taibuivan/merchantdesk/internal/platform/apperr"
	"github.com/taibuivan/merchantdesk/pkg/pagination"
)

type row struct {
	ID     string
	Name   string
	Active bool
}

var identity = listmgr.Identity[row]{
	Key:    func(r row) string { return r.ID },
	SetKey: func(r row, id string) row { r.ID = id; return r },
}

var errBackend = errors.New("backend down")

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

// memorySource is a DataSource whose calls can be failed or held.
type memorySource struct {
	mu   sync.Mutex
	rows []row
	seq  int
	hook func(op, id string) error
}

func newSource(rows ...row) *memorySource {
	return &memorySource{rows: rows, seq: len(rows)}
}

func (s *memorySource) call(op, id string) error {
	if s.hook == nil {
		return nil
	}
	return s.hook(op, id)
}

func (s *memorySource) Load(_ context.Context, criteria pagination.Criteria) (pagination.Page[row], error) {
	if err := s.call("load", ""); err != nil {
		return pagination.Page[row]{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagination.Slice(slices.Clone(s.rows), criteria.Params), nil
}

func (s *memorySource) Create(_ context.Context, item row) (row, error) {
	if err := s.call("create", ""); err != nil {
		return row{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	item.ID = fmt.Sprintf("r%d", s.seq)
	s.rows = append(s.rows, item)
	return item, nil
}

func (s *memorySource) Update(_ context.Context, id string, item row) (row, error) {
	if err := s.call("update", id); err != nil {
		return row{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i] = item
			return item, nil
		}
	}
	return row{}, apperr.NotFound("Row")
}

func (s *memorySource) Remove(_ context.Context, id string) error {
	if err := s.call("remove", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = slices.DeleteFunc(s.rows, func(r row) bool { return r.ID == id })
	return nil
}

func (s *memorySource) SetFlag(_ context.Context, id, _ string) error {
	if err := s.call("flag", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		s.rows[i].Active = s.rows[i].ID == id
	}
	return nil
}

func activeFlag() listmgr.Flag[row] {
	return listmgr.Flag[row]{
		Has: func(r row) bool { return r.Active },
		Set: func(r row, on bool) row { r.Active = on; return r },
	}
}

func loaded(t *testing.T, source *memorySource, options ...listmgr.Option[row]) *listmgr.Manager[row] {
	t.Helper()
	manager := listmgr.New[row](source, identity, options...)
	_, err := manager.Load(context.Background(), pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: 50}})
	require.NoError(t, err)
	return manager
}

func activeCount(rows []row) int {
	count := 0
	for _, r := range rows {
		if r.Active {
			count++
		}
	}
	return count
}

/*
TestCreate_LimitRule rejects a sixth active row before any write.
*/
func TestCreate_LimitRule(t *testing.T) {
	source := newSource()
	writes := 0
	source.hook = func(op, _ string) error {
		if op == "create" {
			writes++
		}
		return nil
	}

	manager := loaded(t, source, listmgr.WithRules(listmgr.Rules[row]{
		BeforeCreate: func(view []row, _ row) error {
			if activeCount(view) >= 5 {
				return apperr.InvariantViolation("at most 5 active")
			}
			return nil
		},
	}))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := manager.Create(ctx, row{Name: fmt.Sprintf("key-%d", i), Active: true})
		require.NoError(t, err)
	}

	_, err := manager.Create(ctx, row{Name: "sixth", Active: true})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))

	view := manager.View()
	assert.Len(t, view.Items, 5)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 5, writes)
}

/*
TestCreate_RollbackAndReplace swaps the placeholder on success and drops it
on failure.
*/
func TestCreate_RollbackAndReplace(t *testing.T) {
	source := newSource(row{ID: "r1", Name: "first"})
	manager := loaded(t, source)
	ctx := context.Background()

	created, err := manager.Create(ctx, row{Name: "second"})
	require.NoError(t, err)
	assert.Equal(t, "r2", created.ID)
	assert.Equal(t, []row{{ID: "r1", Name: "first"}, {ID: "r2", Name: "second"}}, manager.View().Items)

	before := manager.View()
	source.hook = func(string, string) error { return errBackend }

	_, err = manager.Create(ctx, row{Name: "third"})
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, before, manager.View())
}

/*
TestCreate_FullPageKeepsPageSize counts a row created on a full page without
showing it.
*/
func TestCreate_FullPageKeepsPageSize(t *testing.T) {
	source := newSource(row{ID: "r1"}, row{ID: "r2"}, row{ID: "r3"})
	manager := listmgr.New[row](source, identity)
	ctx := context.Background()

	_, err := manager.Load(ctx, pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: 2}})
	require.NoError(t, err)

	before := manager.View()
	require.Len(t, before.Items, 2)
	require.Equal(t, 3, before.Total)

	source.hook = func(string, string) error { return errBackend }
	_, err = manager.Create(ctx, row{Name: "failed"})
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, before, manager.View())

	source.hook = nil
	created, err := manager.Create(ctx, row{Name: "fourth"})
	require.NoError(t, err)
	assert.Equal(t, "r4", created.ID)

	view := manager.View()
	assert.LessOrEqual(t, len(view.Items), view.PageSize)
	assert.Equal(t, before.Items, view.Items)
	assert.Equal(t, 4, view.Total)
}

/*
TestRemove_FailureLeavesViewIdentical restores the exact pre-call view.
*/
func TestRemove_FailureLeavesViewIdentical(t *testing.T) {
	source := newSource(row{ID: "a"}, row{ID: "b"}, row{ID: "c"})
	manager := loaded(t, source)
	source.hook = func(string, string) error { return errBackend }

	before := manager.View()
	err := manager.Remove(context.Background(), "b")

	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, before, manager.View())
}

/*
TestRemove_RuleCheckedBeforeWrite never calls the source on an invariant breach.
*/
func TestRemove_RuleCheckedBeforeWrite(t *testing.T) {
	source := newSource(row{ID: "a", Active: true}, row{ID: "b"})
	called := false
	source.hook = func(op, _ string) error {
		if op == "remove" {
			called = true
		}
		return nil
	}

	manager := loaded(t, source, listmgr.WithRules(listmgr.Rules[row]{
		BeforeRemove: func(view []row, id string) error {
			for _, r := range view {
				if r.ID == id && r.Active && activeCount(view) <= 1 {
					return apperr.InvariantViolation("keep one active")
				}
			}
			return nil
		},
	}))

	err := manager.Remove(context.Background(), "a")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvariant))
	assert.False(t, called)
	assert.Len(t, manager.View().Items, 2)
}

/*
TestRollback_IsScopedToFailedCommand undoes one in-flight removal while a
later one still holds.
*/
func TestRollback_IsScopedToFailedCommand(t *testing.T) {
	source := newSource(row{ID: "a"}, row{ID: "b"}, row{ID: "c"})
	manager := loaded(t, source)

	releaseA := make(chan struct{})
	releaseC := make(chan struct{})
	source.hook = func(op, id string) error {
		switch id {
		case "a":
			<-releaseA
			return errBackend
		case "c":
			<-releaseC
		}
		return nil
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.ErrorIs(t, manager.Remove(ctx, "a"), errBackend)
	}()
	require.Eventually(t, func() bool { return len(manager.View().Items) == 2 }, timeout, tick)

	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, manager.Remove(ctx, "c"))
	}()
	require.Eventually(t, func() bool { return len(manager.View().Items) == 1 }, timeout, tick)

	close(releaseA)
	require.Eventually(t, func() bool { return len(manager.View().Items) == 2 }, timeout, tick)
	assert.Equal(t, []row{{ID: "a"}, {ID: "b"}}, manager.View().Items)

	close(releaseC)
	wg.Wait()

	view := manager.View()
	assert.Equal(t, []row{{ID: "a"}, {ID: "b"}}, view.Items)
	assert.Equal(t, 2, view.Total)
}

/*
TestUpdate_ReplaysLaterPatch keeps a later update of the same row when an
earlier one fails.
*/
func TestUpdate_ReplaysLaterPatch(t *testing.T) {
	source := newSource(row{ID: "a", Name: "old"})
	manager := loaded(t, source)

	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	source.hook = func(op, _ string) error {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			<-releaseFirst
			return errBackend
		}
		<-releaseSecond
		return nil
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := manager.Update(ctx, "a", func(r row) row { r.Name = "renamed"; return r })
		assert.ErrorIs(t, err, errBackend)
	}()
	require.Eventually(t, func() bool { return manager.View().Items[0].Name == "renamed" }, timeout, tick)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := manager.Update(ctx, "a", func(r row) row { r.Active = true; return r })
		assert.NoError(t, err)
	}()
	require.Eventually(t, func() bool { return manager.View().Items[0].Active }, timeout, tick)

	close(releaseFirst)
	require.Eventually(t, func() bool { return manager.View().Items[0].Name == "old" }, timeout, tick)
	assert.True(t, manager.View().Items[0].Active)

	close(releaseSecond)
	wg.Wait()
}

/*
TestUpdate_NotFound rejects ids outside the current view.
*/
func TestUpdate_NotFound(t *testing.T) {
	manager := loaded(t, newSource(row{ID: "a"}))

	_, err := manager.Update(context.Background(), "zzz", func(r row) row { return r })
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = manager.Toggle(context.Background(), "a")
	assert.ErrorIs(t, err, listmgr.ErrNoToggle)
}

/*
TestSetExclusiveFlag moves the flag and restores the holder on failure.
*/
func TestSetExclusiveFlag(t *testing.T) {
	source := newSource(row{ID: "a", Active: true}, row{ID: "b"}, row{ID: "c"})
	manager := loaded(t, source, listmgr.WithFlag("active", activeFlag()))
	ctx := context.Background()

	require.NoError(t, manager.SetExclusiveFlag(ctx, "b", "active"))
	items := manager.View().Items
	assert.Equal(t, 1, activeCount(items))
	assert.True(t, items[1].Active)

	source.hook = func(string, string) error { return errBackend }
	assert.ErrorIs(t, manager.SetExclusiveFlag(ctx, "c", "active"), errBackend)

	items = manager.View().Items
	assert.Equal(t, 1, activeCount(items))
	assert.True(t, items[1].Active)

	assert.ErrorIs(t, manager.SetExclusiveFlag(ctx, "c", "primary"), listmgr.ErrUnknownFlag)
}

/*
TestSetExclusiveFlag_NeverExposesTwo samples the view while a flag write is
held open.
*/
func TestSetExclusiveFlag_NeverExposesTwo(t *testing.T) {
	source := newSource(row{ID: "a", Active: true}, row{ID: "b"})
	manager := loaded(t, source, listmgr.WithFlag("active", activeFlag()))

	release := make(chan struct{})
	source.hook = func(string, string) error { <-release; return nil }

	done := make(chan error)
	go func() { done <- manager.SetExclusiveFlag(context.Background(), "b", "active") }()

	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, activeCount(manager.View().Items))
	}
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, activeCount(manager.View().Items))
}

/*
TestLoad_StaleResultDiscarded keeps the newer page when an older load
finishes last.
*/
func TestLoad_StaleResultDiscarded(t *testing.T) {
	source := newSource(row{ID: "a"}, row{ID: "b"})
	manager := listmgr.New[row](source, identity)

	release := make(chan struct{})
	first := true
	var mu sync.Mutex
	source.hook = func(string, string) error {
		mu.Lock()
		hold := first
		first = false
		mu.Unlock()
		if hold {
			<-release
		}
		return nil
	}

	ctx := context.Background()
	done := make(chan error)
	go func() {
		_, err := manager.Load(ctx, pagination.Criteria{Params: pagination.Params{Page: 1, PageSize: 1}})
		done <- err
	}()
	require.Eventually(t, func() bool { return manager.View().Loading }, timeout, tick)

	view, err := manager.Load(ctx, pagination.Criteria{Params: pagination.Params{Page: 2, PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "b"}}, view.Items)

	close(release)
	assert.ErrorIs(t, <-done, listmgr.ErrStale)
	assert.Equal(t, 2, manager.View().Page)
}

/*
TestClose_DiscardsPendingWork drops results that finish after Close.
*/
func TestClose_DiscardsPendingWork(t *testing.T) {
	source := newSource(row{ID: "a"})
	manager := loaded(t, source)

	release := make(chan struct{})
	source.hook = func(string, string) error { <-release; return errBackend }

	done := make(chan error)
	go func() { done <- manager.Remove(context.Background(), "a") }()
	require.Eventually(t, func() bool { return len(manager.View().Items) == 0 }, timeout, tick)

	manager.Close()
	close(release)
	assert.ErrorIs(t, <-done, errBackend)
	assert.Empty(t, manager.View().Items)

	_, err := manager.Load(context.Background(), pagination.Criteria{})
	assert.ErrorIs(t, err, listmgr.ErrClosed)
}

/*
TestLoad_CancelledContext is reported as stale.
*/
func TestLoad_CancelledContext(t *testing.T) {
	manager := listmgr.New[row](newSource(row{ID: "a"}), identity)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.Load(ctx, pagination.Criteria{})
	assert.ErrorIs(t, err, listmgr.ErrStale)
	assert.False(t, manager.View().Loading)
}

/*
TestLoad_Degrade renders matching failures as an empty view.
*/
func TestLoad_Degrade(t *testing.T) {
	source := newSource(row{ID: "a"})
	source.hook = func(string, string) error { return apperr.NetworkUnavailable(errBackend) }

	manager := listmgr.New[row](source, identity, listmgr.WithDegrade[row](func(err error) bool {
		return apperr.IsCode(err, apperr.CodeNetworkUnavailable)
	}))

	view, err := manager.Load(context.Background(), pagination.Criteria{})
	require.NoError(t, err)
	assert.True(t, view.Degraded)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Total)
}
