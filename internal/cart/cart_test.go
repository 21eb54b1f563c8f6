package cart_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruokapaikka/api/internal/cart"
	"github.com/ruokapaikka/api/internal/database"
)

func menuItem(t *testing.T, name, price string) database.MenuItem {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(price); err != nil {
		t.Fatalf("scan price %q: %v", price, err)
	}
	return database.MenuItem{
		ID:          uuid.New(),
		Name:        name,
		Price:       n,
		IsAvailable: true,
	}
}

func TestAddItemMergesQuantity(t *testing.T) {
	c := cart.New()
	item := menuItem(t, "Margherita", "12.50")

	c.AddItem(item, 2, "")
	c.AddItem(item, 3, "")

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", lines[0].Quantity)
	}
}

func TestAddItemDistinctItemsKeepSeparateLines(t *testing.T) {
	c := cart.New()
	a := menuItem(t, "Pizza", "10.00")
	b := menuItem(t, "Kebab", "8.50")

	c.AddItem(a, 2, "")
	c.AddItem(b, 1, "")

	if got := len(c.Lines()); got != 2 {
		t.Fatalf("expected 2 lines, got %d", got)
	}
	if got := c.TotalItems(); got != 3 {
		t.Errorf("total items: got %d, want 3", got)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	c := cart.New()
	c.AddItem(menuItem(t, "Pizza", "10.00"), 0, "")

	if got := c.TotalItems(); got != 1 {
		t.Errorf("total items: got %d, want 1", got)
	}
}

func TestAddItemKeepsExistingSpecialRequest(t *testing.T) {
	c := cart.New()
	item := menuItem(t, "Pizza", "10.00")

	c.AddItem(item, 1, "no onions")
	c.AddItem(item, 1, "")

	if got := c.Lines()[0].SpecialRequest; got != "no onions" {
		t.Errorf("special request: got %q, want %q", got, "no onions")
	}

	c.AddItem(item, 1, "extra cheese")
	if got := c.Lines()[0].SpecialRequest; got != "extra cheese" {
		t.Errorf("special request: got %q, want %q", got, "extra cheese")
	}
}

func TestRemoveItem(t *testing.T) {
	c := cart.New()
	item := menuItem(t, "Pizza", "10.00")
	c.AddItem(item, 2, "")

	c.RemoveItem(item.ID)

	if !c.IsEmpty() {
		t.Error("expected empty cart after remove")
	}

	// Removing an absent item is a no-op.
	c.RemoveItem(uuid.New())
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	c := cart.New()
	item := menuItem(t, "Pizza", "10.00")
	c.AddItem(item, 2, "")

	c.UpdateQuantity(item.ID, 7)

	if got := c.Lines()[0].Quantity; got != 7 {
		t.Errorf("quantity: got %d, want 7", got)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := cart.New()
	item := menuItem(t, "Pizza", "10.00")
	c.AddItem(item, 2, "")

	c.UpdateQuantity(item.ID, 0)

	if !c.IsEmpty() {
		t.Fatal("expected line removed at quantity 0")
	}
	if got := c.TotalItems(); got != 0 {
		t.Errorf("total items: got %d, want 0", got)
	}
	if !c.TotalAmount().IsZero() {
		t.Errorf("total amount: got %s, want 0", c.TotalAmount())
	}
}

func TestTotalAmount(t *testing.T) {
	c := cart.New()
	c.AddItem(menuItem(t, "Pizza", "10.00"), 2, "")
	c.AddItem(menuItem(t, "Soda", "5.50"), 1, "")

	if got := c.TotalAmount().StringFixed(2); got != "25.50" {
		t.Errorf("total amount: got %s, want 25.50", got)
	}
}

func TestClear(t *testing.T) {
	c := cart.New()
	c.AddItem(menuItem(t, "Pizza", "10.00"), 2, "")
	c.Clear()

	if !c.IsEmpty() {
		t.Error("expected empty cart after clear")
	}
}

func TestStoreReturnsSameCartForSession(t *testing.T) {
	store := cart.NewStore(time.Hour)
	id := uuid.New()

	c := store.Get(id)
	c.AddItem(menuItem(t, "Pizza", "10.00"), 1, "")

	again := store.Get(id)
	if got := again.TotalItems(); got != 1 {
		t.Errorf("total items after re-get: got %d, want 1", got)
	}
}

func TestStoreDeleteDestroysCart(t *testing.T) {
	store := cart.NewStore(time.Hour)
	id := uuid.New()

	store.Get(id).AddItem(menuItem(t, "Pizza", "10.00"), 1, "")
	store.Delete(id)

	if got := store.Get(id).TotalItems(); got != 0 {
		t.Errorf("expected fresh cart after delete, got %d items", got)
	}
}

func TestStoreSessionsAreIndependent(t *testing.T) {
	store := cart.NewStore(time.Hour)
	a := store.Get(uuid.New())
	b := store.Get(uuid.New())

	a.AddItem(menuItem(t, "Pizza", "10.00"), 3, "")

	if got := b.TotalItems(); got != 0 {
		t.Errorf("expected empty second cart, got %d items", got)
	}
}
