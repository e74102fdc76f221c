package checkout

import (
	"errors"
	"strings"
	"testing"

	"musiccrib/internal/cart"
	"musiccrib/internal/notify"
	"musiccrib/internal/store"

	"github.com/sirupsen/logrus"
)

func newTestCheckout() (*Checkout, *cart.Cart) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	notifier := notify.NewCenter(logger)
	c := cart.New(store.NewMemoryStore(), notifier, logger)
	return New(c, notifier, logger), c
}

func TestConfirmEmptyCart(t *testing.T) {
	ck, _ := newTestCheckout()

	if _, err := ck.Confirm(validDetails()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestConfirmSurfacesFirstError(t *testing.T) {
	ck, c := newTestCheckout()
	c.Add("Trap Vibe", 29.99)

	d := validDetails()
	d.FullName = ""
	d.Email = ""

	_, err := ck.Confirm(d)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "fullName" {
		t.Errorf("surfaced field = %q, want fullName", verr.Field)
	}

	// Failed confirmation must not touch the cart
	if c.Len() != 1 {
		t.Errorf("cart mutated on failed confirm, len = %d", c.Len())
	}
}

func TestConfirmSuccess(t *testing.T) {
	ck, c := newTestCheckout()
	c.Add("Trap Vibe", 29.99)
	c.Add("Drill Flow", 34.99)

	order, err := ck.Confirm(validDetails())
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}

	if !strings.HasPrefix(order.Reference, "ORD-") {
		t.Errorf("reference = %q, want ORD- prefix", order.Reference)
	}
	if order.ItemCount != 2 {
		t.Errorf("item count = %d, want 2", order.ItemCount)
	}
	if order.PaymentMethodLabel != "🏧 Credit/Debit Card" {
		t.Errorf("label = %q", order.PaymentMethodLabel)
	}
	if order.Totals.Total != c.Totals().Total {
		t.Errorf("order total %v != cart total %v", order.Totals.Total, c.Totals().Total)
	}

	// The cart empties only when the flow finishes
	if c.Len() != 2 {
		t.Fatalf("cart emptied before Finish, len = %d", c.Len())
	}
	ck.Finish()
	if c.Len() != 0 {
		t.Errorf("cart not emptied by Finish, len = %d", c.Len())
	}
}
