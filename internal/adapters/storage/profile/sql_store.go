package profile

import (
	"context"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/profile"
)

// SQLStore implements Store over the profiles table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new profile store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Profile by identity ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	q := storage.Conn(ctx, s.db)
	var p domain.Profile
	err := q.QueryRowContext(ctx, q.Rebind("SELECT id, full_name, phone FROM profiles WHERE id = ?"), id).
		Scan(&p.ID, &p.FullName, &p.Phone)
	return p, storage.Translate(err, "profile")
}

// GetMany returns the profiles for ids keyed by ID. Missing ids are absent from the map.
func (s *SQLStore) GetMany(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	result := make(map[string]domain.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In("SELECT id, full_name, phone FROM profiles WHERE id IN (?)", ids)
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
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Phone); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

// Save inserts or updates a Profile.
// PRE: entity has been validated; the identity exists
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Profile) error {
	q := storage.Conn(ctx, s.db)
	_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO profiles (id, full_name, phone) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET full_name = excluded.full_name, phone = excluded.phone`),
		entity.ID, entity.FullName, entity.Phone)
	return err
}
