package payment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Payment methods
const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodOnline       = "online"
)

// Payment statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// ValidMethods and ValidStatuses list accepted values.
var (
	ValidMethods  = []string{MethodCash, MethodCard, MethodBankTransfer, MethodOnline}
	ValidStatuses = []string{StatusPending, StatusCompleted, StatusFailed, StatusRefunded}
)

// Domain errors
var (
	ErrEmptyUserID    = errors.New("payment must be associated with a member")
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrInvalidAmount  = errors.New("payment amount must be a number with at most two decimal places")
	ErrInvalidMethod  = errors.New("payment method must be one of: cash, card, bank_transfer, online")
	ErrInvalidStatus  = errors.New("payment status must be one of: pending, completed, failed, refunded")
	ErrNoPaymentDate  = errors.New("payment date must be set")
)

// Payment is an immutable record of money received. Amount is in cents.
type Payment struct {
	ID            string
	UserID        string
	Amount        int64
	PaymentMethod string
	Status        string
	PaymentDate   time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrEmptyUserID
	}
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if !contains(ValidMethods, p.PaymentMethod) {
		return ErrInvalidMethod
	}
	if !contains(ValidStatuses, p.Status) {
		return ErrInvalidStatus
	}
	if p.PaymentDate.IsZero() {
		return ErrNoPaymentDate
	}
	return nil
}

// IsRevenue reports whether the payment counts towards revenue.
func (p *Payment) IsRevenue() bool {
	return p.Status == StatusCompleted
}

// maxUnits is the largest whole amount whose cents still fit in an int64.
const maxUnits = (math.MaxInt64 - 99) / 100

// ParseAmount converts a decimal currency string such as "49.99" into cents.
// PRE: s is a non-negative decimal with at most two fractional digits
// POST: Returns the amount in cents
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxUnits {
		return 0, ErrInvalidAmount
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	return units*100 + cents, nil
}

// FormatAmount renders cents as a decimal string with two places.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
