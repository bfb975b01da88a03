package membership

import (
	"context"
	"errors"
	"testing"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/adapters/storage/storagetest"
	domain "fitpro/internal/domain/membership"
)

func setup(t *testing.T) (*SQLStore, storage.SQLDB) {
	t.Helper()
	db := storagetest.Open(t)
	for _, id := range []string{"u1", "u2"} {
		storagetest.Exec(t, db, "INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, 'x', '2024-01-01T00:00:00.000000Z')", id, id+"@x.io")
	}
	storagetest.Exec(t, db, "INSERT INTO membership_plans (id, name, price, duration_months, is_active) VALUES ('p1', 'Monthly', 4999, 1, ?)", true)
	return NewSQLStore(db), db
}

func active(id, user, start, end string) domain.Membership {
	return domain.Membership{ID: id, UserID: user, PlanID: "p1", StartDate: start, EndDate: end, Status: domain.StatusActive}
}

func TestSQLStore_OneActivePerUser(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	if err := store.Create(ctx, active("m1", "u1", "2024-01-01", "2024-02-01")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := store.Create(ctx, active("m2", "u1", "2024-01-05", "2024-02-05"))
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("second active Create = %v, want ErrConflict", err)
	}

	// Once the first is cancelled a new active membership is allowed.
	m1, _ := store.GetActiveByUser(ctx, "u1")
	m1.Cancel()
	if err := store.Save(ctx, m1); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Create(ctx, active("m2", "u1", "2024-01-05", "2024-02-05")); err != nil {
		t.Fatalf("Create after cancel: %v", err)
	}

	got, err := store.GetActiveByUser(ctx, "u1")
	if err != nil || got.ID != "m2" {
		t.Errorf("GetActiveByUser = %+v, %v", got, err)
	}
	history, _ := store.ListByUser(ctx, "u1")
	if len(history) != 2 || history[0].ID != "m2" {
		t.Errorf("ListByUser = %+v", history)
	}
}

func TestSQLStore_GetActiveByUser_None(t *testing.T) {
	store, _ := setup(t)
	if _, err := store.GetActiveByUser(context.Background(), "u2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetActiveByUser = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_LapsedAndCounts(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	store.Create(ctx, active("m1", "u1", "2024-01-01", "2024-02-01"))
	store.Create(ctx, active("m2", "u2", "2024-01-20", "2024-02-20"))

	lapsed, err := store.ListLapsed(ctx, "2024-02-10")
	if err != nil {
		t.Fatalf("ListLapsed: %v", err)
	}
	if len(lapsed) != 1 || lapsed[0].ID != "m1" {
		t.Errorf("ListLapsed = %+v, want m1", lapsed)
	}

	if n, _ := store.CountActive(ctx); n != 2 {
		t.Errorf("CountActive = %d, want 2", n)
	}

	byUser, err := store.ListActiveByUsers(ctx, []string{"u1", "u2", "u3"})
	if err != nil || len(byUser) != 2 || byUser["u2"].ID != "m2" {
		t.Errorf("ListActiveByUsers = %+v, %v", byUser, err)
	}

	if err := store.Save(ctx, domain.Membership{ID: "ghost", Status: domain.StatusExpired}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Save(ghost) = %v, want ErrNotFound", err)
	}
}
