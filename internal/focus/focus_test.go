package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_AcquireRelease(t *testing.T) {
	s := NewScope()
	assert.Nil(t, s.Active())
	assert.Equal(t, "", s.Holder())

	trap := s.Acquire("payment", "name", "phone", "address")
	assert.Equal(t, "payment", s.Holder())
	assert.Equal(t, "name", trap.Focused())

	trap.Release()
	assert.True(t, trap.Released())
	assert.Equal(t, "", s.Holder())
	assert.Equal(t, "", trap.Focused())

	// second release is a no-op
	trap.Release()
	assert.Nil(t, s.Active())
}

func TestScope_NestedTraps(t *testing.T) {
	s := NewScope()
	outer := s.Acquire("payment", "name")
	inner := s.Acquire("overlay", "ok")

	assert.Equal(t, "overlay", s.Holder())

	inner.Release()
	assert.Equal(t, "payment", s.Holder())

	// releasing out of order only removes that trap
	again := s.Acquire("overlay", "ok")
	outer.Release()
	assert.Equal(t, "overlay", s.Holder())
	again.Release()
	assert.Nil(t, s.Active())
}

func TestTrap_Next(t *testing.T) {
	s := NewScope()
	trap := s.Acquire("variant", "flavor", "topping", "quantity", "confirm")

	assert.Equal(t, "topping", trap.Next(false))
	assert.Equal(t, "quantity", trap.Next(false))
	assert.Equal(t, "confirm", trap.Next(false))
	assert.Equal(t, "flavor", trap.Next(false), "tab wraps to the first field")
	assert.Equal(t, "confirm", trap.Next(true), "shift+tab wraps to the last field")

	empty := s.Acquire("empty")
	assert.Equal(t, "", empty.Next(false))
}

func TestTrap_Focus(t *testing.T) {
	s := NewScope()
	trap := s.Acquire("payment", "name", "phone", "address")

	require.True(t, trap.Focus("address"))
	assert.Equal(t, "address", trap.Focused())
	assert.False(t, trap.Focus("senderBank"))
	assert.Equal(t, "address", trap.Focused())

	trap.SetFields("name", "phone", "address", "senderBank", "senderAccount")
	assert.Equal(t, "address", trap.Focused(), "focus survives a field change")
	assert.True(t, trap.Focus("senderBank"))

	trap.SetFields("name")
	assert.Equal(t, "name", trap.Focused())

	trap.Release()
	assert.False(t, trap.Focus("name"))
}
