package class

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/class"
)

const selectClass = "SELECT id, name, description, duration_minutes, max_capacity, trainer_id, is_active FROM classes"

// SQLStore implements Store over the classes table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new class store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Class by its ID, active or not.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	q := storage.Conn(ctx, s.db)
	c, err := scanClass(q.QueryRowContext(ctx, q.Rebind(selectClass+" WHERE id = ?"), id).Scan)
	return c, storage.Translate(err, "class")
}

// GetMany returns classes for ids keyed by ID.
func (s *SQLStore) GetMany(ctx context.Context, ids []string) (map[string]domain.Class, error) {
	result := make(map[string]domain.Class, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(selectClass+" WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	list, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		result[c.ID] = c
	}
	return result, nil
}

// Save inserts or updates a Class. An empty TrainerID is stored as NULL.
// PRE: entity has been validated; a non-empty TrainerID references a trainer
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Class) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO classes (id, name, description, duration_minutes, max_capacity, trainer_id, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, description = excluded.description,
			duration_minutes = excluded.duration_minutes, max_capacity = excluded.max_capacity,
			trainer_id = excluded.trainer_id, is_active = excluded.is_active`),
		entity.ID, entity.Name, entity.Description, entity.DurationMinutes, entity.MaxCapacity,
		storage.NullableString(entity.TrainerID), entity.IsActive)
	return err
}

// List returns classes ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Class, error) {
	if filter.ActiveOnly {
		return s.query(ctx, selectClass+" WHERE is_active = ? ORDER BY name", true)
	}
	return s.query(ctx, selectClass+" ORDER BY name")
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]domain.Class, error) {
	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Class
	for rows.Next() {
		c, err := scanClass(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func scanClass(scan func(dest ...any) error) (domain.Class, error) {
	var c domain.Class
	var trainerID sql.NullString
	if err := scan(&c.ID, &c.Name, &c.Description, &c.DurationMinutes, &c.MaxCapacity, &trainerID, &c.IsActive); err != nil {
		return domain.Class{}, err
	}
	c.TrainerID = trainerID.String
	return c, nil
}
