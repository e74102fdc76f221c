package checkout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PaymentMethod selects the payment UI branch; card is the only method with
// extra fields to validate.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentBank   PaymentMethod = "bank"
	PaymentCrypto PaymentMethod = "crypto"
)

// paymentLabels maps methods to their display labels.
var paymentLabels = map[PaymentMethod]string{
	PaymentCard:   "🏧 Credit/Debit Card",
	PaymentPayPal: "🅿️ PayPal",
	PaymentBank:   "🏦 Bank Transfer",
	PaymentCrypto: "₿ Cryptocurrency",
}

// Label returns the display label for a payment method, falling back to the
// raw value for unknown methods.
func (m PaymentMethod) Label() string {
	if label, ok := paymentLabels[m]; ok {
		return label
	}
	return string(m)
}

// ParsePaymentMethod maps raw input to one of the four known methods. The
// payment selector offers exactly these values; anything else is rejected
// before a Details is built.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := paymentLabels[m]; !ok {
		return "", fmt.Errorf("unknown payment method: %s", strings.TrimSpace(s))
	}
	return m, nil
}

// CardDetails holds the card-payment fields, validated only when the payment
// method is card.
type CardDetails struct {
	Name   string
	Number string
	Expiry string
	CVV    string
}

// Details holds every checkout form field after live sanitization.
type Details struct {
	FullName      string
	Email         string
	Address       string
	City          string
	State         string
	Postal        string
	Country       string
	Phone         string
	PaymentMethod PaymentMethod
	Card          CardDetails
}

var (
	nameRegex    = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lettersRegex = regexp.MustCompile(`^[\p{L}\s]+$`)
	digitsRegex  = regexp.MustCompile(`^\d+$`)
	cardRegex    = regexp.MustCompile(`^\d{16}$`)
	expiryRegex  = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRegex     = regexp.MustCompile(`^\d{3}$`)
)

// Validate runs the submit-time structural checks over every field in fixed
// order and returns all failures. Callers surface only the first one
// (first-error-wins); the full list exists for logging.
func Validate(d Details) []ValidationError {
	var errs []ValidationError

	fullName := strings.TrimSpace(d.FullName)
	if fullName == "" {
		errs = append(errs, ValidationError{"fullName", "Full Name is required", "MISSING_FULL_NAME"})
	} else if !nameRegex.MatchString(fullName) {
		errs = append(errs, ValidationError{"fullName", "Full Name must contain only letters", "INVALID_FULL_NAME"})
	}

	email := strings.TrimSpace(d.Email)
	if email == "" {
		errs = append(errs, ValidationError{"email", "Email is required", "MISSING_EMAIL"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, ValidationError{"email", "Email must be valid (e.g., user@example.com)", "INVALID_EMAIL"})
	}

	if strings.TrimSpace(d.Address) == "" {
		errs = append(errs, ValidationError{"address", "Address is required", "MISSING_ADDRESS"})
	}

	city := strings.TrimSpace(d.City)
	if city == "" {
		errs = append(errs, ValidationError{"city", "City is required", "MISSING_CITY"})
	} else if !lettersRegex.MatchString(city) {
		errs = append(errs, ValidationError{"city", "City must contain letters only", "INVALID_CITY"})
	}

	state := strings.TrimSpace(d.State)
	if state == "" {
		errs = append(errs, ValidationError{"state", "State is required", "MISSING_STATE"})
	} else if !lettersRegex.MatchString(state) {
		errs = append(errs, ValidationError{"state", "State/Province must contain letters only", "INVALID_STATE"})
	}

	postal := strings.TrimSpace(d.Postal)
	if postal == "" {
		errs = append(errs, ValidationError{"postal", "Postal Code is required", "MISSING_POSTAL"})
	} else if !digitsRegex.MatchString(postal) {
		errs = append(errs, ValidationError{"postal", "Postal Code must contain numbers only", "INVALID_POSTAL"})
	}

	country := strings.TrimSpace(d.Country)
	if country == "" {
		errs = append(errs, ValidationError{"country", "Country is required", "MISSING_COUNTRY"})
	} else if !lettersRegex.MatchString(country) {
		errs = append(errs, ValidationError{"country", "Country must contain letters only", "INVALID_COUNTRY"})
	}

	phone := strings.TrimSpace(d.Phone)
	if phone == "" {
		errs = append(errs, ValidationError{"phone", "Phone is required", "MISSING_PHONE"})
	} else if !digitsRegex.MatchString(phone) {
		errs = append(errs, ValidationError{"phone", "Phone must contain numbers only", "INVALID_PHONE"})
	}

	if d.PaymentMethod == PaymentCard {
		errs = append(errs, validateCard(d.Card)...)
	}

	return errs
}

// validateCard checks the card-payment fields in fixed order.
func validateCard(card CardDetails) []ValidationError {
	var errs []ValidationError

	name := strings.TrimSpace(card.Name)
	if name == "" {
		errs = append(errs, ValidationError{"cardName", "Cardholder Name is required", "MISSING_CARD_NAME"})
	} else if !nameRegex.MatchString(name) {
		errs = append(errs, ValidationError{"cardName", "Cardholder Name must contain letters only", "INVALID_CARD_NAME"})
	}

	number := strings.TrimSpace(card.Number)
	if number == "" {
		errs = append(errs, ValidationError{"cardNumber", "Card Number is required", "MISSING_CARD_NUMBER"})
	} else if !cardRegex.MatchString(number) {
		errs = append(errs, ValidationError{"cardNumber", "Card Number must be exactly 16 digits", "INVALID_CARD_NUMBER"})
	}

	expiry := strings.TrimSpace(card.Expiry)
	if expiry == "" {
		errs = append(errs, ValidationError{"cardExpiry", "Card Expiry is required", "MISSING_CARD_EXPIRY"})
	} else if !expiryRegex.MatchString(expiry) {
		errs = append(errs, ValidationError{"cardExpiry", "Card Expiry must be in MM/YY format", "INVALID_CARD_EXPIRY"})
	} else {
		month, _ := strconv.Atoi(expiry[:2])
		if month > 12 || month < 1 {
			errs = append(errs, ValidationError{"cardExpiry", "Card Expiry month must be between 01 and 12", "INVALID_CARD_EXPIRY_MONTH"})
		}
	}

	cvv := strings.TrimSpace(card.CVV)
	if cvv == "" {
		errs = append(errs, ValidationError{"cardCVV", "Card CVV is required", "MISSING_CARD_CVV"})
	} else if !cvvRegex.MatchString(cvv) {
		errs = append(errs, ValidationError{"cardCVV", "Card CVV must be exactly 3 digits", "INVALID_CARD_CVV"})
	}

	return errs
}
