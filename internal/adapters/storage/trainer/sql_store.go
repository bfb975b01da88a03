package trainer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/trainer"
)

const selectTrainer = "SELECT id, name, email, phone, specialization, bio, is_active FROM trainers"

// SQLStore implements Store over the trainers table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new trainer store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Trainer by its ID, active or not.
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	q := storage.Conn(ctx, s.db)
	tr, err := scanTrainer(q.QueryRowContext(ctx, q.Rebind(selectTrainer+" WHERE id = ?"), id).Scan)
	return tr, storage.Translate(err, "trainer")
}

// GetMany returns trainers for ids keyed by ID, including inactive ones.
func (s *SQLStore) GetMany(ctx context.Context, ids []string) (map[string]domain.Trainer, error) {
	result := make(map[string]domain.Trainer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(selectTrainer+" WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	list, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, tr := range list {
		result[tr.ID] = tr
	}
	return result, nil
}

// Save inserts or updates a Trainer.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Trainer) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO trainers (id, name, email, phone, specialization, bio, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email, phone = excluded.phone,
			specialization = excluded.specialization, bio = excluded.bio, is_active = excluded.is_active`),
		entity.ID, entity.Name, entity.Email, entity.Phone, entity.Specialization, entity.Bio, entity.IsActive)
	return err
}

// List returns trainers ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error) {
	if filter.ActiveOnly {
		return s.query(ctx, selectTrainer+" WHERE is_active = ? ORDER BY name", true)
	}
	return s.query(ctx, selectTrainer+" ORDER BY name")
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]domain.Trainer, error) {
	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainer
	for rows.Next() {
		tr, err := scanTrainer(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, tr)
	}
	return results, rows.Err()
}

func scanTrainer(scan func(dest ...any) error) (domain.Trainer, error) {
	var tr domain.Trainer
	err := scan(&tr.ID, &tr.Name, &tr.Email, &tr.Phone, &tr.Specialization, &tr.Bio, &tr.IsActive)
	return tr, err
}
