// Package cart owns the shopping cart of one browser session: an ordered list of
// line items, deduplicated by item id and variant signature, mirrored to a
// storage.Adapter after every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"

	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/storage"

	"go.uber.org/zap"
)

// Snapshot is what listeners receive after every mutation.
type Snapshot struct {
	Items []LineItem
	Total int64
	Count int
}

type Listener func(Snapshot)

// Store is not safe for concurrent use; callers serialize access through the
// session event loop.
type Store struct {
	adapter storage.Adapter
	key     string

	items     []LineItem
	listeners map[int]Listener
	nextID    int
}

func NewStore(adapter storage.Adapter, key string) *Store {
	return &Store{
		adapter:   adapter,
		key:       key,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a render listener and returns its unsubscribe func.
func (s *Store) Subscribe(l Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() { delete(s.listeners, id) }
}

// AddItem merges candidate into the row with the same dedup key, or appends it.
// A quantity below 1 is treated as 1.
func (s *Store) AddItem(ctx context.Context, candidate LineItem, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	key := candidate.Key()
	for i := range s.items {
		if s.items[i].Key() == key {
			s.items[i].Quantity += quantity
			logger.FromCtx(ctx).Debug("cart row merged",
				zap.String("item_id", candidate.ID),
				zap.Int("quantity", s.items[i].Quantity),
			)
			return s.commit(ctx)
		}
	}

	row := candidate.clone()
	row.Quantity = quantity
	s.items = append(s.items, row)

	logger.FromCtx(ctx).Debug("cart row added",
		zap.String("item_id", candidate.ID),
		zap.String("kind", string(candidate.Kind)),
		zap.Int("quantity", quantity),
	)
	return s.commit(ctx)
}

// RemoveItem deletes the row at index; out-of-range indices are ignored.
func (s *Store) RemoveItem(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return nil
	}

	s.items = append(s.items[:index], s.items[index+1:]...)
	return s.commit(ctx)
}

func (s *Store) IncreaseQuantity(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return nil
	}

	s.items[index].Quantity++
	return s.commit(ctx)
}

// DecreaseQuantity removes the row instead of letting its quantity reach 0.
func (s *Store) DecreaseQuantity(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return nil
	}

	if s.items[index].Quantity <= 1 {
		return s.RemoveItem(ctx, index)
	}

	s.items[index].Quantity--
	return s.commit(ctx)
}

func (s *Store) SetQuantity(ctx context.Context, index, n int) error {
	if !s.inRange(index) {
		return nil
	}

	if n <= 0 {
		return s.RemoveItem(ctx, index)
	}

	s.items[index].Quantity = n
	return s.commit(ctx)
}

// Clear empties the cart. Clearing an empty cart neither persists nor notifies.
func (s *Store) Clear(ctx context.Context) error {
	if len(s.items) == 0 {
		return nil
	}

	s.items = nil
	return s.commit(ctx)
}

func (s *Store) Total() int64 {
	var total int64
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return total
}

// Count is the number of units in the cart, shown on the cart badge.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Items: s.Items(), Total: s.Total(), Count: s.Count()}
}

// Load replaces the in-memory cart with the persisted snapshot. A missing snapshot
// yields an empty cart. An unreadable or corrupt snapshot also yields an empty cart,
// and the wrapped ErrLoad is returned so the caller can report it.
func (s *Store) Load(ctx context.Context) error {
	s.items = nil
	defer s.notify()

	data, err := s.adapter.Read(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("cart snapshot unreadable, starting empty", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	items, err := DecodeSnapshot(data)
	if err != nil {
		logger.FromCtx(ctx).Warn("cart snapshot corrupt, starting empty", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	s.items = items
	logger.FromCtx(ctx).Debug("cart snapshot loaded", zap.String("key", s.key), zap.Int("rows", len(items)))
	return nil
}

// Save writes the current rows to the adapter.
func (s *Store) Save(ctx context.Context) error {
	data, err := EncodeSnapshot(s.items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	if err := s.adapter.Write(ctx, s.key, data); err != nil {
		logger.FromCtx(ctx).Error("cart snapshot write failed", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// commit persists then notifies; listeners run even when the write failed so the
// rendered state always matches memory.
func (s *Store) commit(ctx context.Context) error {
	err := s.Save(ctx)
	s.notify()
	return err
}

func (s *Store) notify() {
	if len(s.listeners) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, l := range s.listeners {
		l(snap)
	}
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.items)
}
