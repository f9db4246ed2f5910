package client

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/madina/boutique-orders/internal/model"
)

// OrderListState holds the last successfully fetched order list. The
// snapshot is replaced wholesale on each successful fetch; it is never
// patched in place.
type OrderListState struct {
	mu        sync.RWMutex
	orders    []model.WorkOrder
	fetchedAt time.Time
}

func NewOrderListState() *OrderListState {
	return &OrderListState{}
}

// Snapshot returns a copy of the current order list, safe to filter and
// sort without affecting the shared state.
func (s *OrderListState) Snapshot() []model.WorkOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WorkOrder, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *OrderListState) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

func (s *OrderListState) Replace(orders []model.WorkOrder, fetchedAt time.Time) {
	stored := make([]model.WorkOrder, len(orders))
	copy(stored, orders)
	s.mu.Lock()
	s.orders = stored
	s.fetchedAt = fetchedAt
	s.mu.Unlock()
}

// ErrSuperseded is returned by Reload when a newer reload started before
// this one finished; its result was discarded.
var ErrSuperseded = errors.New("reload superseded")

// Reloader serializes order list reloads. Starting a new reload cancels
// the in-flight one, and only the latest result replaces the snapshot.
type Reloader struct {
	fetch func(context.Context) ([]model.WorkOrder, error)
	state *OrderListState

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewReloader(fetch func(context.Context) ([]model.WorkOrder, error), state *OrderListState) *Reloader {
	return &Reloader{fetch: fetch, state: state}
}

// NewReloader binds a reloader to this client's list endpoint.
func (c *Client) NewReloader(state *OrderListState) *Reloader {
	return NewReloader(c.ListWorkOrders, state)
}

func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	defer cancel()

	orders, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return ErrSuperseded
	}
	if err != nil {
		// Last-known-good state stays in place on failure.
		return err
	}
	r.state.Replace(orders, time.Now())
	return nil
}

// Favorites is ephemeral view-state: a like toggle on the storefront
// product cards. It is never persisted.
type Favorites struct {
	mu  sync.Mutex
	ids map[uint]bool
}

func NewFavorites() *Favorites {
	return &Favorites{ids: map[uint]bool{}}
}

// Toggle flips the favorite flag and reports the new value.
func (f *Favorites) Toggle(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids[id] {
		delete(f.ids, id)
		return false
	}
	f.ids[id] = true
	return true
}

func (f *Favorites) Has(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[id]
}

func (f *Favorites) IDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
