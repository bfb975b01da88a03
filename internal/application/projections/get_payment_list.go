package projections

import (
	"context"
	"time"

	"fitpro/internal/adapters/storage/payment"
	domainPayment "fitpro/internal/domain/payment"
)

// GetPaymentListQuery carries query parameters. An empty UserID lists every member.
type GetPaymentListQuery struct {
	UserID string
	Limit  int
}

// PaymentRow is one payment with its member name and display amount.
type PaymentRow struct {
	ID            string
	UserID        string
	MemberName    string
	Amount        int64  // cents
	AmountDisplay string // "49.99"
	PaymentMethod string
	Status        string
	PaymentDate   time.Time
}

// GetPaymentListResult carries the query result.
type GetPaymentListResult struct {
	Payments []PaymentRow
}

// GetPaymentListDeps holds dependencies for GetPaymentList.
type GetPaymentListDeps struct {
	PaymentStore PaymentStore
	ProfileStore ProfileStore
}

// QueryGetPaymentList lists payments newest first with member names.
func QueryGetPaymentList(ctx context.Context, query GetPaymentListQuery, deps GetPaymentListDeps) (GetPaymentListResult, error) {
	payments, err := deps.PaymentStore.List(ctx, payment.ListFilter{UserID: query.UserID, Limit: query.Limit})
	if err != nil {
		return GetPaymentListResult{}, err
	}
	userIDs := make([]string, len(payments))
	for i, p := range payments {
		userIDs[i] = p.UserID
	}
	names, err := memberNames(ctx, deps.ProfileStore, userIDs)
	if err != nil {
		return GetPaymentListResult{}, err
	}

	rows := make([]PaymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, PaymentRow{
			ID:            p.ID,
			UserID:        p.UserID,
			MemberName:    nameOr(names, p.UserID),
			Amount:        p.Amount,
			AmountDisplay: domainPayment.FormatAmount(p.Amount),
			PaymentMethod: p.PaymentMethod,
			Status:        p.Status,
			PaymentDate:   p.PaymentDate,
		})
	}
	return GetPaymentListResult{Payments: rows}, nil
}
