package cart

import (
	"fmt"
	"testing"
	"time"

	"musiccrib/internal/notify"
	"musiccrib/internal/store"

	"github.com/sirupsen/logrus"
)

// failingStore loads fine but refuses every write, like a store that ran
// out of quota mid-session.
type failingStore struct {
	store.MemoryStore
}

func (f *failingStore) Save(string, any) error {
	return fmt.Errorf("quota exceeded")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return logger
}

func newTestCart(st store.Store) *Cart {
	logger := quietLogger()
	return New(st, notify.NewCenter(logger), logger)
}

func TestAddAndTotals(t *testing.T) {
	c := newTestCart(store.NewMemoryStore())

	c.Add("Trap Vibe", 29.99)
	c.Add("Lofi Chill", 24.99)

	if c.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", c.Len())
	}

	totals := c.Totals()
	wantSubtotal := 29.99 + 24.99
	if totals.Subtotal != wantSubtotal {
		t.Errorf("subtotal = %v, want %v", totals.Subtotal, wantSubtotal)
	}
	if totals.Tax != wantSubtotal*TaxRate {
		t.Errorf("tax = %v, want %v", totals.Tax, wantSubtotal*TaxRate)
	}
	if totals.Total != totals.Subtotal+totals.Tax {
		t.Errorf("total = %v, want subtotal+tax = %v", totals.Total, totals.Subtotal+totals.Tax)
	}
}

func TestTotalsFormatting(t *testing.T) {
	c := newTestCart(store.NewMemoryStore())
	c.Add("Drill Flow", 34.99)

	totals := c.Totals()
	if got := totals.FormatSubtotal(); got != "$34.99" {
		t.Errorf("FormatSubtotal() = %q, want %q", got, "$34.99")
	}
	if got := totals.FormatTax(); got != "$3.50" {
		t.Errorf("FormatTax() = %q, want %q", got, "$3.50")
	}
	if got := totals.FormatTotal(); got != "$38.49" {
		t.Errorf("FormatTotal() = %q, want %q", got, "$38.49")
	}
}

func TestDuplicateItemsGetDistinctIDs(t *testing.T) {
	c := newTestCart(store.NewMemoryStore())

	first := c.Add("Trap Vibe", 29.99)
	second := c.Add("Trap Vibe", 29.99)

	if first.ID == second.ID {
		t.Errorf("duplicate additions share ID %d", first.ID)
	}
	if c.Len() != 2 {
		t.Errorf("expected both duplicates kept, got %d items", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := newTestCart(store.NewMemoryStore())

	item := c.Add("Trap Vibe", 29.99)
	c.Add("Drill Flow", 34.99)

	c.Remove(item.ID)
	if c.Len() != 1 {
		t.Fatalf("expected 1 item after remove, got %d", c.Len())
	}
	if c.Items()[0].Name != "Drill Flow" {
		t.Errorf("wrong item removed, remaining: %s", c.Items()[0].Name)
	}

	// Removing an absent ID is a no-op
	c.Remove(99999)
	if c.Len() != 1 {
		t.Errorf("remove of absent ID changed cart, got %d items", c.Len())
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()

	c := newTestCart(st)
	c.Add("Trap Vibe", 29.99)
	c.Add("Full Beat Pack", 79.99)

	reloaded := newTestCart(st)
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded cart has %d items, want 2", reloaded.Len())
	}

	items := reloaded.Items()
	if items[0].Name != "Trap Vibe" || items[1].Name != "Full Beat Pack" {
		t.Errorf("insertion order lost on reload: %v", items)
	}

	// New IDs must not collide with reloaded ones
	added := reloaded.Add("Lofi Chill", 24.99)
	for _, item := range items {
		if item.ID == added.ID {
			t.Errorf("new item reused ID %d", added.ID)
		}
	}
}

func TestPersistenceFailureKeepsCartAuthoritative(t *testing.T) {
	logger := quietLogger()
	notifier := notify.NewCenter(logger)
	notices := notifier.Subscribe()

	c := New(&failingStore{}, notifier, logger)
	c.Add("Trap Vibe", 29.99)

	// The failed write must not roll back the in-memory state
	if c.Len() != 1 {
		t.Fatalf("cart len = %d after failed save, want 1", c.Len())
	}
	if got := c.Totals().Subtotal; got != 29.99 {
		t.Errorf("subtotal = %v after failed save, want 29.99", got)
	}

	// A warning notice surfaces the failure to the user
	var sawWarning bool
	for !sawWarning {
		select {
		case notice := <-notices:
			if notice.Severity == notify.SeverityWarning {
				sawWarning = true
			}
		case <-time.After(time.Second):
			t.Fatal("no warning notice published for failed save")
		}
	}

	// Later mutations keep working against the in-memory state
	c.Add("Drill Flow", 34.99)
	if c.Len() != 2 {
		t.Errorf("cart len = %d after second add, want 2", c.Len())
	}
}

func TestClear(t *testing.T) {
	st := store.NewMemoryStore()
	c := newTestCart(st)
	c.Add("Trap Vibe", 29.99)

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cart after clear, got %d", c.Len())
	}

	// Cleared state persists
	reloaded := newTestCart(st)
	if reloaded.Len() != 0 {
		t.Errorf("cleared cart came back with %d items", reloaded.Len())
	}
}
