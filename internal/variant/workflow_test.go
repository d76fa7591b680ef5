package variant

import (
	"context"
	"errors"
	"testing"

	"lezat-lumer/internal/cart"
	"lezat-lumer/internal/catalog"
	"lezat-lumer/internal/focus"
	"lezat-lumer/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCart struct {
	mock.Mock
}

func (m *MockCart) AddItem(ctx context.Context, candidate cart.LineItem, quantity int) error {
	args := m.Called(ctx, candidate, quantity)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Toast(level notify.Level, message string) {
	m.Called(level, message)
}

var cheesePudding = catalog.Item{ID: "menu-3", Name: "CreamChesse Pudding", Price: 12000, Image: "menu-3.jpg", Customizable: true}

func setup() (*Workflow, *MockCart, *MockNotifier, *focus.Scope) {
	c := new(MockCart)
	n := new(MockNotifier)
	scope := focus.NewScope()
	return NewWorkflow(c, catalog.New().Options(), scope, n), c, n, scope
}

func TestWorkflow_Open(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		w, _, _, scope := setup()

		require.NoError(t, w.Open(cheesePudding))
		assert.Equal(t, StateOpen, w.State())
		assert.Equal(t, Owner, scope.Holder())

		d, ok := w.Draft()
		require.True(t, ok)
		assert.Equal(t, "Matcha", d.Flavor)
		assert.Empty(t, d.Toppings)
		assert.Equal(t, 1, d.Quantity)
		assert.Equal(t, FieldFlavor, w.Focus().Focused())
	})

	t.Run("Only from closed", func(t *testing.T) {
		w, _, _, _ := setup()
		require.NoError(t, w.Open(cheesePudding))
		assert.ErrorIs(t, w.Open(cheesePudding), ErrAlreadyOpen)
	})

	t.Run("Plain items are rejected", func(t *testing.T) {
		w, _, _, scope := setup()
		err := w.Open(catalog.Item{ID: "menu-1", Name: "Pudding Balls Coklat"})
		assert.ErrorIs(t, err, ErrNotCustomizable)
		assert.Equal(t, StateClosed, w.State())
		assert.Equal(t, "", scope.Holder())
	})

	t.Run("Reopen starts a fresh draft", func(t *testing.T) {
		w, _, _, _ := setup()
		require.NoError(t, w.Open(cheesePudding))
		require.NoError(t, w.SetFlavor("Taro"))
		require.NoError(t, w.ToggleTopping("Oreo"))
		require.NoError(t, w.SetQuantity(4))
		w.Cancel()

		require.NoError(t, w.Open(cheesePudding))
		d, _ := w.Draft()
		assert.Equal(t, "Matcha", d.Flavor)
		assert.Empty(t, d.Toppings)
		assert.Equal(t, 1, d.Quantity)
	})
}

func TestWorkflow_DraftEdits(t *testing.T) {
	w, _, _, _ := setup()

	assert.ErrorIs(t, w.SetFlavor("Taro"), ErrNotOpen)
	assert.ErrorIs(t, w.ToggleTopping("Oreo"), ErrNotOpen)
	assert.ErrorIs(t, w.SetQuantity(2), ErrNotOpen)
	assert.ErrorIs(t, w.Increment(), ErrNotOpen)
	assert.ErrorIs(t, w.Decrement(), ErrNotOpen)

	require.NoError(t, w.Open(cheesePudding))

	assert.ErrorIs(t, w.SetFlavor("Durian"), ErrUnknownFlavor)
	assert.ErrorIs(t, w.ToggleTopping("Nanas"), ErrUnknownTopping)

	require.NoError(t, w.SetFlavor("Coklat"))
	require.NoError(t, w.ToggleTopping("Keju"))
	require.NoError(t, w.ToggleTopping("Oreo"))
	require.NoError(t, w.ToggleTopping("Almond"))
	require.NoError(t, w.ToggleTopping("Almond"))

	d, _ := w.Draft()
	assert.Equal(t, "Coklat", d.Flavor)
	assert.Equal(t, []string{"Oreo", "Keju"}, d.Toppings, "toppings follow menu order")

	require.NoError(t, w.SetQuantity(-3))
	d, _ = w.Draft()
	assert.Equal(t, 1, d.Quantity)

	assert.ErrorIs(t, w.Decrement(), ErrQuantityTooLow)
	require.NoError(t, w.Increment())
	require.NoError(t, w.Increment())
	require.NoError(t, w.Decrement())
	d, _ = w.Draft()
	assert.Equal(t, 2, d.Quantity)
}

func TestWorkflow_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("Adds the drafted row and closes", func(t *testing.T) {
		w, c, n, scope := setup()
		require.NoError(t, w.Open(cheesePudding))
		require.NoError(t, w.ToggleTopping("Oreo"))
		require.NoError(t, w.ToggleTopping("Keju"))
		require.NoError(t, w.SetQuantity(2))

		c.On("AddItem", ctx, mock.MatchedBy(func(li cart.LineItem) bool {
			return li.Kind == cart.KindCustomized &&
				li.ID == "menu-3" &&
				li.UnitPrice == 12000 &&
				li.VariantText == "Rasa: Matcha, Topping: Oreo, Keju"
		}), 2).Return(nil).Once()
		n.On("Toast", notify.LevelSuccess, "2x CreamChesse Pudding (Rasa: Matcha, Topping: Oreo, Keju) ditambahkan ke keranjang!").Once()

		require.NoError(t, w.Confirm(ctx))

		assert.Equal(t, StateClosed, w.State())
		assert.Equal(t, "", scope.Holder())
		_, ok := w.Draft()
		assert.False(t, ok)
		c.AssertExpectations(t)
		n.AssertExpectations(t)
	})

	t.Run("Closed workflow", func(t *testing.T) {
		w, c, _, _ := setup()
		assert.ErrorIs(t, w.Confirm(ctx), ErrNotOpen)
		c.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Persistence failure still closes", func(t *testing.T) {
		w, c, n, scope := setup()
		require.NoError(t, w.Open(cheesePudding))

		persistErr := errors.New("disk full")
		c.On("AddItem", ctx, mock.Anything, 1).Return(persistErr)
		n.On("Toast", notify.LevelSuccess, mock.Anything)

		assert.ErrorIs(t, w.Confirm(ctx), persistErr)
		assert.Equal(t, StateClosed, w.State())
		assert.Equal(t, "", scope.Holder())
	})
}

func TestWorkflow_Cancel(t *testing.T) {
	w, c, _, scope := setup()

	// idempotent from closed
	w.Cancel()
	assert.Equal(t, StateClosed, w.State())

	require.NoError(t, w.Open(cheesePudding))
	require.NoError(t, w.SetQuantity(5))
	w.Cancel()
	w.Cancel()

	assert.Equal(t, StateClosed, w.State())
	assert.Equal(t, "", scope.Holder())
	assert.Nil(t, w.Focus())
	c.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}
