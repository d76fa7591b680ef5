// Package focus models exclusive modal input focus as an acquire/release pair.
// A workflow acquires a Trap when it opens and releases it on every exit path;
// Release is idempotent so a close path can always call it unconditionally.
package focus

// Scope is the focus stack of one session. The top trap holds focus.
type Scope struct {
	stack []*Trap
}

func NewScope() *Scope {
	return &Scope{}
}

// Acquire pushes a trap that cycles through fields in order. The first field is
// focused.
func (s *Scope) Acquire(owner string, fields ...string) *Trap {
	t := &Trap{scope: s, owner: owner}
	t.SetFields(fields...)
	s.stack = append(s.stack, t)
	return t
}

// Active returns the trap holding focus, or nil when no modal is open.
func (s *Scope) Active() *Trap {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// Holder returns the owner of the active trap, or "".
func (s *Scope) Holder() string {
	if t := s.Active(); t != nil {
		return t.owner
	}
	return ""
}

func (s *Scope) remove(t *Trap) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == t {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return
		}
	}
}

type Trap struct {
	scope    *Scope
	owner    string
	fields   []string
	current  int
	released bool
}

func (t *Trap) Owner() string {
	return t.owner
}

func (t *Trap) Released() bool {
	return t.released
}

// Release gives focus back to whatever held it before.
func (t *Trap) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.scope.remove(t)
}

// SetFields replaces the focusable fields, keeping the focused one when it is
// still present.
func (t *Trap) SetFields(fields ...string) {
	focused := t.Focused()
	t.fields = append([]string(nil), fields...)
	t.current = 0
	for i, f := range t.fields {
		if f == focused {
			t.current = i
			break
		}
	}
}

func (t *Trap) Fields() []string {
	return append([]string(nil), t.fields...)
}

func (t *Trap) Focused() string {
	if t.released || len(t.fields) == 0 {
		return ""
	}
	return t.fields[t.current]
}

// Next moves focus forward (Tab) or backward (Shift+Tab), wrapping at both ends.
func (t *Trap) Next(shift bool) string {
	if t.released || len(t.fields) == 0 {
		return ""
	}

	n := len(t.fields)
	if shift {
		t.current = (t.current - 1 + n) % n
	} else {
		t.current = (t.current + 1) % n
	}
	return t.fields[t.current]
}

// Focus moves focus to field. It reports false when field is not part of the trap.
func (t *Trap) Focus(field string) bool {
	if t.released {
		return false
	}
	for i, f := range t.fields {
		if f == field {
			t.current = i
			return true
		}
	}
	return false
}
