package membership

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/membership"
)

const selectMembership = "SELECT id, user_id, plan_id, start_date, end_date, status FROM member_memberships"

// SQLStore implements Store over the member_memberships table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new membership store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a Membership.
// PRE: entity has been validated
// POST: Entity is persisted, or storage.ErrConflict when the user already has an active membership
func (s *SQLStore) Create(ctx context.Context, entity domain.Membership) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO member_memberships (id, user_id, plan_id, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`),
		entity.ID, entity.UserID, entity.PlanID, entity.StartDate, entity.EndDate, entity.Status)
	return storage.Translate(err, "membership")
}

// Save updates the status and dates of an existing Membership.
// PRE: entity exists
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Membership) error {
	q := storage.Conn(ctx, s.db)
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE member_memberships SET start_date = ?, end_date = ?, status = ? WHERE id = ?"),
		entity.StartDate, entity.EndDate, entity.Status, entity.ID)
	if err != nil {
		return storage.Translate(err, "membership")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("membership %s: %w", entity.ID, storage.ErrNotFound)
	}
	return nil
}

// GetActiveByUser returns the user's active membership.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetActiveByUser(ctx context.Context, userID string) (domain.Membership, error) {
	q := storage.Conn(ctx, s.db)
	row := q.QueryRowContext(ctx, q.Rebind(selectMembership+" WHERE user_id = ? AND status = ?"), userID, domain.StatusActive)
	m, err := scanMembership(row.Scan)
	return m, storage.Translate(err, "active membership")
}

// ListActiveByUsers returns the active membership of each user that has one, keyed by user ID.
func (s *SQLStore) ListActiveByUsers(ctx context.Context, userIDs []string) (map[string]domain.Membership, error) {
	result := make(map[string]domain.Membership, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(selectMembership+" WHERE status = ? AND user_id IN (?)", domain.StatusActive, userIDs)
	if err != nil {
		return nil, err
	}
	list, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		result[m.UserID] = m
	}
	return result, nil
}

// ListByUser returns every membership of a user, newest start first.
func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	return s.query(ctx, selectMembership+" WHERE user_id = ? ORDER BY start_date DESC, id", userID)
}

// ListLapsed returns active memberships whose end date is before today.
func (s *SQLStore) ListLapsed(ctx context.Context, today string) ([]domain.Membership, error) {
	return s.query(ctx, selectMembership+" WHERE status = ? AND end_date < ? ORDER BY end_date", domain.StatusActive, today)
}

// CountActive returns the number of active memberships.
func (s *SQLStore) CountActive(ctx context.Context) (int, error) {
	var n int
	q := storage.Conn(ctx, s.db)
	err := q.QueryRowContext(ctx, q.Rebind("SELECT COUNT(*) FROM member_memberships WHERE status = ?"), domain.StatusActive).Scan(&n)
	return n, err
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]domain.Membership, error) {
	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

func scanMembership(scan func(dest ...any) error) (domain.Membership, error) {
	var m domain.Membership
	err := scan(&m.ID, &m.UserID, &m.PlanID, &m.StartDate, &m.EndDate, &m.Status)
	return m, err
}
