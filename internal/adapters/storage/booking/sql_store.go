package booking

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/booking"
)

// SQLStore implements Store over the class_bookings table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new booking store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a Booking.
// PRE: entity has been validated
// POST: Entity is persisted, or storage.ErrConflict when the user already holds this session
func (s *SQLStore) Create(ctx context.Context, entity domain.Booking) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO class_bookings (id, user_id, schedule_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		entity.ID, entity.UserID, entity.ScheduleID, entity.Status, storage.FormatTime(entity.CreatedAt))
	return storage.Translate(err, "booking")
}

// Delete removes the user's booking for a session.
// POST: Row is gone, or storage.ErrNotFound when there was none
func (s *SQLStore) Delete(ctx context.Context, userID, scheduleID string) error {
	q := storage.Conn(ctx, s.db)
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM class_bookings WHERE user_id = ? AND schedule_id = ?"), userID, scheduleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("booking for schedule %s: %w", scheduleID, storage.ErrNotFound)
	}
	return nil
}

// ListByUser returns the user's confirmed bookings, newest first.
func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(`SELECT id, user_id, schedule_id, status, created_at FROM class_bookings
		WHERE user_id = ? AND status = ? ORDER BY created_at DESC`), userID, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var createdAt string
		if err := rows.Scan(&b.ID, &b.UserID, &b.ScheduleID, &b.Status, &createdAt); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// BookedScheduleIDs reports which of scheduleIDs the user has booked.
func (s *SQLStore) BookedScheduleIDs(ctx context.Context, userID string, scheduleIDs []string) (map[string]bool, error) {
	booked := make(map[string]bool)
	if len(scheduleIDs) == 0 {
		return booked, nil
	}
	query, args, err := sqlx.In("SELECT schedule_id FROM class_bookings WHERE user_id = ? AND schedule_id IN (?)", userID, scheduleIDs)
	if err != nil {
		return nil, err
	}
	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = true
	}
	return booked, rows.Err()
}
