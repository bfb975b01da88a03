package account

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fitpro/internal/adapters/storage"
	domain "fitpro/internal/domain/account"
)

const selectAccount = `SELECT a.id, a.email, a.password_hash, COALESCE(r.role, ''), a.created_at, a.failed_logins, a.locked_until
	FROM accounts a LEFT JOIN user_roles r ON r.user_id = a.id`

// SQLStore implements Store over the accounts and user_roles tables.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new account store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	q := storage.Conn(ctx, s.db)
	row := q.QueryRowContext(ctx, q.Rebind(selectAccount+" WHERE a.id = ?"), id)
	entity, err := scanAccount(row.Scan)
	return entity, storage.Translate(err, "account")
}

// GetByEmail retrieves an Account by normalized email.
// PRE: email is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	q := storage.Conn(ctx, s.db)
	row := q.QueryRowContext(ctx, q.Rebind(selectAccount+" WHERE a.email = ?"), domain.NormalizeEmail(email))
	entity, err := scanAccount(row.Scan)
	return entity, storage.Translate(err, "account")
}

// Create inserts the identity and its role assignment together.
// PRE: entity has been validated and has a password hash
// POST: Both rows exist, or storage.ErrConflict when the email is taken
func (s *SQLStore) Create(ctx context.Context, entity domain.Account) error {
	return storage.InTx(ctx, s.db, func(ctx context.Context) error {
		q := storage.Conn(ctx, s.db)
		_, err := q.ExecContext(ctx, q.Rebind(`INSERT INTO accounts (id, email, password_hash, created_at, failed_logins, locked_until)
			VALUES (?, ?, ?, ?, ?, ?)`),
			entity.ID,
			domain.NormalizeEmail(entity.Email),
			entity.PasswordHash,
			storage.FormatTime(entity.CreatedAt),
			entity.FailedLogins,
			storage.NullableTime(entity.LockedUntil),
		)
		if err != nil {
			return storage.Translate(err, "account")
		}
		_, err = q.ExecContext(ctx, q.Rebind("INSERT INTO user_roles (user_id, role) VALUES (?, ?)"), entity.ID, entity.Role)
		return storage.Translate(err, "role assignment")
	})
}

// Save updates the mutable identity fields and the role.
// PRE: entity exists
// POST: Password hash, login counters and role are persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Account) error {
	return storage.InTx(ctx, s.db, func(ctx context.Context) error {
		q := storage.Conn(ctx, s.db)
		res, err := q.ExecContext(ctx, q.Rebind("UPDATE accounts SET password_hash = ?, failed_logins = ?, locked_until = ? WHERE id = ?"),
			entity.PasswordHash,
			entity.FailedLogins,
			storage.NullableTime(entity.LockedUntil),
			entity.ID,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("account %s: %w", entity.ID, storage.ErrNotFound)
		}
		_, err = q.ExecContext(ctx, q.Rebind(`INSERT INTO user_roles (user_id, role) VALUES (?, ?)
			ON CONFLICT (user_id) DO UPDATE SET role = excluded.role`), entity.ID, entity.Role)
		return err
	})
}

// List retrieves Accounts based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(selectAccount)
	if filter.Role != "" {
		queryBuilder.WriteString(" WHERE r.role = ?")
		args = append(args, filter.Role)
	}
	queryBuilder.WriteString(" ORDER BY a.created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	q := storage.Conn(ctx, s.db)
	rows, err := q.QueryContext(ctx, q.Rebind(queryBuilder.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of accounts.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	err := storage.Conn(ctx, s.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count)
	return count, err
}

// CountByRole returns the number of accounts tagged with role.
func (s *SQLStore) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	q := storage.Conn(ctx, s.db)
	err := q.QueryRowContext(ctx, q.Rebind("SELECT COUNT(*) FROM user_roles WHERE role = ?"), role).Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if lockedUntil.Valid && lockedUntil.String != "" {
		if entity.LockedUntil, err = storage.ParseTime(lockedUntil.String); err != nil {
			return domain.Account{}, err
		}
	}
	return entity, nil
}
