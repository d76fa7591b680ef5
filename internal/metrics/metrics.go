package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the storefront counters shared by every session.
type Registry struct {
	ItemsAdded         Counter
	OrdersHandedOff    Counter
	ValidationFailures Counter
	PersistFailures    Counter
	Commands           Counter
	SessionsOpened     Counter
	SessionsEvicted    Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Snapshot returns the current values keyed by name, e.g. for the health endpoint.
func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"items_added":         r.ItemsAdded.Load(),
		"orders_handed_off":   r.OrdersHandedOff.Load(),
		"validation_failures": r.ValidationFailures.Load(),
		"persist_failures":    r.PersistFailures.Load(),
		"commands":            r.Commands.Load(),
		"sessions_opened":     r.SessionsOpened.Load(),
		"sessions_evicted":    r.SessionsEvicted.Load(),
	}
}
