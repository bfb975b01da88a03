package plan

import (
	"context"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/plan"
)

const selectPlan = "SELECT id, name, price, duration_months, is_active FROM membership_plans"

// SQLStore implements Store over the membership_plans table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new plan store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Plan by its ID, active or not.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	q := storage.Conn(ctx, s.db)
	p, err := scanPlan(q.QueryRowContext(ctx, q.Rebind(selectPlan+" WHERE id = ?"), id).Scan)
	return p, storage.Translate(err, "plan")
}

// GetMany returns the plans for ids keyed by ID.
func (s *SQLStore) GetMany(ctx context.Context, ids []string) (map[string]domain.Plan, error) {
	result := make(map[string]domain.Plan, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(selectPlan+" WHERE id IN (?)", ids)
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
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

// Save inserts or updates a Plan.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Plan) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO membership_plans (id, name, price, duration_months, is_active) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, price = excluded.price,
			duration_months = excluded.duration_months, is_active = excluded.is_active`),
		entity.ID, entity.Name, entity.Price, entity.DurationMonths, entity.IsActive)
	return err
}

// List returns plans ordered by price, then name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Plan, error) {
	query := selectPlan
	var args []any
	if filter.ActiveOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY price ASC, name ASC"

	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Count returns the number of plans, active or not.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := storage.Conn(ctx, s.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM membership_plans").Scan(&n)
	return n, err
}

func scanPlan(scan func(dest ...any) error) (domain.Plan, error) {
	var p domain.Plan
	err := scan(&p.ID, &p.Name, &p.Price, &p.DurationMonths, &p.IsActive)
	return p, err
}
