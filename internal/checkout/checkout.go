package checkout

import (
	"fmt"
	"time"

	"musiccrib/internal/cart"
	"musiccrib/internal/notify"
	"musiccrib/pkg/models"

	"github.com/sirupsen/logrus"
)

// ErrEmptyCart is returned when checkout is attempted with no line items.
var ErrEmptyCart = fmt.Errorf("cart is empty")

// Checkout drives the purchase confirmation flow: validate the form, derive
// totals, mint an order reference. No payment data leaves the process; the
// payment step is presentation-only.
type Checkout struct {
	cart     *cart.Cart
	notifier *notify.Center
	logger   *logrus.Logger
}

// New creates a checkout flow over the given cart.
func New(c *cart.Cart, notifier *notify.Center, logger *logrus.Logger) *Checkout {
	return &Checkout{
		cart:     c,
		notifier: notifier,
		logger:   logger,
	}
}

// Confirm validates the submitted details and, on success, returns the order
// confirmation snapshot. On failure only the first validation error is
// surfaced, and no state is mutated.
func (ck *Checkout) Confirm(d Details) (*models.Order, error) {
	if ck.cart.Len() == 0 {
		return nil, ErrEmptyCart
	}

	if errs := Validate(d); len(errs) > 0 {
		first := errs[0]
		ck.logger.WithFields(logrus.Fields{
			"field":  first.Field,
			"code":   first.Code,
			"errors": len(errs),
		}).Warn("Checkout validation failed")
		ck.notifier.PublishWithDuration(notify.SeverityError, "❌ "+first.Message, 4*time.Second)
		return nil, &first
	}

	order := &models.Order{
		Reference:          NewOrderReference(),
		Totals:             ck.cart.Totals(),
		PaymentMethodLabel: d.PaymentMethod.Label(),
		ItemCount:          ck.cart.Len(),
	}

	ck.logger.WithFields(logrus.Fields{
		"reference": order.Reference,
		"total":     order.Totals.FormatTotal(),
		"method":    string(d.PaymentMethod),
	}).Info("Purchase confirmed")
	ck.notifier.PublishWithDuration(notify.SeveritySuccess,
		"✅ All details valid! Purchase confirmed. Thank you for your order.", 4*time.Second)

	return order, nil
}

// Finish completes the purchase flow after the confirmation screen: the cart
// is emptied and the empty state persisted.
func (ck *Checkout) Finish() {
	ck.cart.Clear()
}

// NewOrderReference mints an order reference of the form "ORD-<unix-ms>".
func NewOrderReference() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}
