package models

import "fmt"

// CartItem is a single purchasable line item (a licensed beat or bundle).
// Items are immutable once created; the ID is a unix-millisecond timestamp
// assigned at creation time.
type CartItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Totals holds derived cart amounts. Values are kept unrounded; rounding to
// two decimal places happens only in the Format helpers for display.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// FormatSubtotal returns the subtotal as a display string, e.g. "$29.00".
func (t Totals) FormatSubtotal() string {
	return FormatUSD(t.Subtotal)
}

// FormatTax returns the tax amount as a display string.
func (t Totals) FormatTax() string {
	return FormatUSD(t.Tax)
}

// FormatTotal returns the grand total as a display string.
func (t Totals) FormatTotal() string {
	return FormatUSD(t.Total)
}

// FormatUSD renders an amount rounded to two decimal places for display.
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// Order is the confirmation snapshot produced by a successful checkout.
// No payment data is retained; the payment step is presentation-only.
type Order struct {
	Reference          string `json:"reference"` // "ORD-<unix-ms>"
	Totals             Totals `json:"totals"`
	PaymentMethodLabel string `json:"paymentMethod"`
	ItemCount          int    `json:"itemCount"`
}
