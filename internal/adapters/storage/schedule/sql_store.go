package schedule

import (
	"context"
	"fmt"
	"strings"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/schedule"
)

const selectSchedule = "SELECT id, class_id, scheduled_date, start_time, end_time, current_bookings FROM class_schedules"

// SQLStore implements Store over the class_schedules table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new schedule store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Schedule by its ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Schedule, error) {
	q := storage.Conn(ctx, s.db)
	sc, err := scanSchedule(q.QueryRowContext(ctx, q.Rebind(selectSchedule+" WHERE id = ?"), id).Scan)
	return sc, storage.Translate(err, "schedule")
}

// Create inserts a Schedule.
// PRE: entity has been validated; the class exists
// POST: Entity is persisted
func (s *SQLStore) Create(ctx context.Context, entity domain.Schedule) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO class_schedules (id, class_id, scheduled_date, start_time, end_time, current_bookings)
		VALUES (?, ?, ?, ?, ?, ?)`),
		entity.ID, entity.ClassID, entity.ScheduledDate, entity.StartTime, entity.EndTime, entity.CurrentBookings)
	return storage.Translate(err, "schedule")
}

// Delete removes a Schedule. Its bookings are removed by cascade.
// POST: Entity is gone, or storage.ErrNotFound
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	q := storage.Conn(ctx, s.db)
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM class_schedules WHERE id = ?"), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// List returns schedules per filter.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Schedule, error) {
	var b strings.Builder
	var args []any
	b.WriteString(selectSchedule)
	if filter.FromDate != "" {
		b.WriteString(" WHERE scheduled_date >= ? ORDER BY scheduled_date ASC, start_time ASC")
		args = append(args, filter.FromDate)
	} else {
		b.WriteString(" ORDER BY scheduled_date DESC, start_time ASC")
	}
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

	var results []domain.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// TryIncrementBookings takes one spot if the session is below its class capacity.
// The check and the increment are a single statement, so concurrent bookings
// cannot overfill a session.
// POST: Returns false when the session is full or does not exist
func (s *SQLStore) TryIncrementBookings(ctx context.Context, id string) (bool, error) {
	q := storage.Conn(ctx, s.db)
	res, err := q.ExecContext(ctx, q.Rebind(`UPDATE class_schedules SET current_bookings = current_bookings + 1
		WHERE id = ? AND current_bookings < (SELECT max_capacity FROM classes WHERE classes.id = class_schedules.class_id)`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DecrementBookings releases one spot. The counter never drops below zero.
func (s *SQLStore) DecrementBookings(ctx context.Context, id string) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind("UPDATE class_schedules SET current_bookings = current_bookings - 1 WHERE id = ? AND current_bookings > 0"), id)
	return err
}

func scanSchedule(scan func(dest ...any) error) (domain.Schedule, error) {
	var sc domain.Schedule
	err := scan(&sc.ID, &sc.ClassID, &sc.ScheduledDate, &sc.StartTime, &sc.EndTime, &sc.CurrentBookings)
	return sc, err
}
