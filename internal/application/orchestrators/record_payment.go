package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/payment"
)

// PaymentStoreForRecord defines the store interface needed by RecordPayment.
type PaymentStoreForRecord interface {
	Create(ctx context.Context, p payment.Payment) error
}

// RecordPaymentInput carries input for recording a payment.
type RecordPaymentInput struct {
	UserID        string
	Amount        int64 // cents
	PaymentMethod string
	Status        string    // defaults to completed
	PaymentDate   time.Time // defaults to now
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	AccountStore AccountLookup
	PaymentStore PaymentStoreForRecord
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRecordPayment stores a payment against a member.
// PRE: UserID names an existing account; amount >= 0
// POST: Payment persisted
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (payment.Payment, error) {
	p := payment.Payment{
		ID:            newID(deps.GenerateID),
		UserID:        input.UserID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Status:        input.Status,
		PaymentDate:   input.PaymentDate,
	}
	if p.Status == "" {
		p.Status = payment.StatusCompleted
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = nowFrom(deps.Now)
	}
	if err := p.Validate(); err != nil {
		return payment.Payment{}, err
	}

	if _, err := deps.AccountStore.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return payment.Payment{}, ErrMemberNotFound
		}
		return payment.Payment{}, err
	}
	if err := deps.PaymentStore.Create(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	slog.Info("payment_event", "event", "payment_recorded", "user_id", p.UserID, "amount", p.Amount, "method", p.PaymentMethod, "status", p.Status)
	return p, nil
}
