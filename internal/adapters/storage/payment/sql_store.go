package payment

import (
	"context"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/payment"
)

// SQLStore implements Store over the payments table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new payment store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a Payment.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Create(ctx context.Context, entity domain.Payment) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO payments (id, user_id, amount, payment_method, status, payment_date)
		VALUES (?, ?, ?, ?, ?, ?)`),
		entity.ID, entity.UserID, entity.Amount, entity.PaymentMethod, entity.Status, storage.FormatTime(entity.PaymentDate))
	return storage.Translate(err, "payment")
}

// List returns payments per filter, newest first.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Payment, error) {
	var b strings.Builder
	var args []any
	b.WriteString("SELECT id, user_id, amount, payment_method, status, payment_date FROM payments")
	if filter.UserID != "" {
		b.WriteString(" WHERE user_id = ?")
		args = append(args, filter.UserID)
	}
	b.WriteString(" ORDER BY payment_date DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(b.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var paidAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.PaymentMethod, &p.Status, &paidAt); err != nil {
			return nil, err
		}
		if p.PaymentDate, err = storage.ParseTime(paidAt); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// SumCompleted returns the total of completed payments dated in [from, to), in cents.
// A zero to leaves the range open-ended.
func (s *SQLStore) SumCompleted(ctx context.Context, from, to time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = ? AND payment_date >= ?`
	args := []any{domain.StatusCompleted, storage.FormatTime(from)}
	if !to.IsZero() {
		query += ` AND payment_date < ?`
		args = append(args, storage.FormatTime(to))
	}

	var total int64
	q := storage.Conn(ctx, s.db)
	err := q.QueryRowContext(ctx, q.Rebind(query), args...).Scan(&total)
	return total, err
}
