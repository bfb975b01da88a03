package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/attendance"
)

const selectAttendance = "SELECT id, user_id, check_in_time, check_out_time FROM attendance"

// SQLStore implements Store over the attendance table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new attendance store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts an Attendance record.
// PRE: entity has been validated
// POST: Entity is persisted, or storage.ErrConflict when the user already has an open visit
func (s *SQLStore) Create(ctx context.Context, entity domain.Attendance) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind("INSERT INTO attendance (id, user_id, check_in_time, check_out_time) VALUES (?, ?, ?, ?)"),
		entity.ID, entity.UserID, storage.FormatTime(entity.CheckInTime), storage.NullableTime(entity.CheckOutTime))
	return storage.Translate(err, "attendance")
}

// Save updates the check-out time of an existing record.
// PRE: entity exists
// POST: CheckOutTime is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Attendance) error {
	q := storage.Conn(ctx, s.db)
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE attendance SET check_out_time = ? WHERE id = ?"),
		storage.NullableTime(entity.CheckOutTime), entity.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("attendance %s: %w", entity.ID, storage.ErrNotFound)
	}
	return nil
}

// GetOpenByUser returns the user's most recent visit without a check-out.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetOpenByUser(ctx context.Context, userID string) (domain.Attendance, error) {
	q := storage.Conn(ctx, s.db)
	row := q.QueryRowContext(ctx, q.Rebind(selectAttendance+" WHERE user_id = ? AND check_out_time IS NULL ORDER BY check_in_time DESC LIMIT 1"), userID)
	a, err := scanAttendance(row.Scan)
	return a, storage.Translate(err, "open attendance")
}

// List returns records per filter, newest check-in first.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Attendance, error) {
	var b strings.Builder
	var args []any
	b.WriteString(selectAttendance)
	if filter.UserID != "" {
		b.WriteString(" WHERE user_id = ?")
		args = append(args, filter.UserID)
	}
	b.WriteString(" ORDER BY check_in_time DESC")
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

	var results []domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// CountCheckIns returns the number of check-ins in [from, to).
func (s *SQLStore) CountCheckIns(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	q := storage.Conn(ctx, s.db)
	err := q.QueryRowContext(ctx, q.Rebind("SELECT COUNT(*) FROM attendance WHERE check_in_time >= ? AND check_in_time < ?"),
		storage.FormatTime(from), storage.FormatTime(to)).Scan(&n)
	return n, err
}

func scanAttendance(scan func(dest ...any) error) (domain.Attendance, error) {
	var a domain.Attendance
	var checkIn string
	var checkOut sql.NullString
	if err := scan(&a.ID, &a.UserID, &checkIn, &checkOut); err != nil {
		return domain.Attendance{}, err
	}
	var err error
	if a.CheckInTime, err = storage.ParseTime(checkIn); err != nil {
		return domain.Attendance{}, err
	}
	if checkOut.Valid && checkOut.String != "" {
		if a.CheckOutTime, err = storage.ParseTime(checkOut.String); err != nil {
			return domain.Attendance{}, err
		}
	}
	return a, nil
}
