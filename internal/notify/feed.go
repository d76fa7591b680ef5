// Package notify queues the UI side effects of a session (toasts, overlays,
// outbound links and clipboard writes) until the client drains them.
package notify

import (
	"context"
	"errors"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Kind string

const (
	KindToast     Kind = "toast"
	KindOverlay   Kind = "overlay"
	KindOpenURL   Kind = "open_url"
	KindClipboard Kind = "clipboard"
)

// DefaultLimit bounds how many undrained events a feed keeps.
const DefaultLimit = 64

var ErrEmptyURL = errors.New("empty handoff url")

// Overlay is an informational modal shown on top of the page.
type Overlay struct {
	Title       string   `json:"title"`
	Steps       []string `json:"steps"`
	Acknowledge string   `json:"acknowledge"`
}

type Event struct {
	Kind    Kind     `json:"kind"`
	Level   Level    `json:"level,omitempty"`
	Message string   `json:"message,omitempty"`
	Overlay *Overlay `json:"overlay,omitempty"`
	URL     string   `json:"url,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Feed is safe for concurrent use: the session loop and delayed overlay timers
// both write to it.
type Feed struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

func NewFeed() *Feed {
	return NewFeedWithLimit(DefaultLimit)
}

func NewFeedWithLimit(limit int) *Feed {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Feed{limit: limit}
}

func (f *Feed) Toast(level Level, message string) {
	f.push(Event{Kind: KindToast, Level: level, Message: message})
}

func (f *Feed) ShowOverlay(o Overlay) {
	o.Steps = append([]string(nil), o.Steps...)
	f.push(Event{Kind: KindOverlay, Overlay: &o})
}

// Dispatch queues an outbound link for the client to open in a new tab.
func (f *Feed) Dispatch(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if url == "" {
		return ErrEmptyURL
	}
	f.push(Event{Kind: KindOpenURL, URL: url})
	return nil
}

// WriteText asks the client to place text on its clipboard.
func (f *Feed) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.push(Event{Kind: KindClipboard, Text: text})
	return nil
}

// Drain returns queued events in order and empties the feed.
func (f *Feed) Drain() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.events
	f.events = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

// Restore puts drained events back ahead of anything queued since, for a view
// that never reached the client. The oldest events go first when over the limit.
func (f *Feed) Restore(events []Event) {
	if len(events) == 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	merged := make([]Event, 0, len(events)+len(f.events))
	merged = append(merged, events...)
	merged = append(merged, f.events...)
	if over := len(merged) - f.limit; over > 0 {
		merged = merged[over:]
	}
	f.events = merged
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *Feed) push(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.events) >= f.limit {
		// oldest events are dropped first
		f.events = append(f.events[:0], f.events[1:]...)
	}
	f.events = append(f.events, e)
}
