package payment

import (
	"context"
	"testing"
	"time"

	"fitpro/internal/adapters/storage/storagetest"
	domain "fitpro/internal/domain/payment"
)

func TestSQLStore_Payments(t *testing.T) {
	db := storagetest.Open(t)
	store := NewSQLStore(db)
	ctx := context.Background()
	for _, id := range []string{"u1", "u2"} {
		storagetest.Exec(t, db, "INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, 'x', '2024-01-01T00:00:00.000000Z')", id, id+"@x.io")
	}

	may := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []domain.Payment{
		{ID: "p1", UserID: "u1", Amount: 4999, PaymentMethod: domain.MethodCard, Status: domain.StatusCompleted, PaymentDate: may.Add(time.Hour)},
		{ID: "p2", UserID: "u2", Amount: 13499, PaymentMethod: domain.MethodCash, Status: domain.StatusCompleted, PaymentDate: may.Add(48 * time.Hour)},
		{ID: "p3", UserID: "u1", Amount: 999, PaymentMethod: domain.MethodOnline, Status: domain.StatusFailed, PaymentDate: may.Add(2 * time.Hour)},
		{ID: "p4", UserID: "u1", Amount: 500, PaymentMethod: domain.MethodCard, Status: domain.StatusCompleted, PaymentDate: may.Add(-time.Hour)},
		{ID: "p5", UserID: "u2", Amount: 2500, PaymentMethod: domain.MethodBankTransfer, Status: domain.StatusCompleted, PaymentDate: may.AddDate(0, 1, 3)},
	} {
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s): %v", p.ID, err)
		}
	}

	total, err := store.SumCompleted(ctx, may, may.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("SumCompleted: %v", err)
	}
	if total != 4999+13499 {
		t.Errorf("SumCompleted = %d, want %d", total, 4999+13499)
	}

	empty, err := store.SumCompleted(ctx, may.AddDate(1, 0, 0), may.AddDate(1, 1, 0))
	if err != nil || empty != 0 {
		t.Errorf("SumCompleted(empty range) = %d, %v", empty, err)
	}

	openEnded, err := store.SumCompleted(ctx, may, time.Time{})
	if err != nil {
		t.Fatalf("SumCompleted(open-ended): %v", err)
	}
	if openEnded != 4999+13499+2500 {
		t.Errorf("SumCompleted(open-ended) = %d, want %d", openEnded, 4999+13499+2500)
	}

	mine, _ := store.List(ctx, ListFilter{UserID: "u1"})
	if len(mine) != 3 || mine[0].ID != "p3" || mine[2].ID != "p4" {
		t.Errorf("List(u1) = %+v", mine)
	}
	all, _ := store.List(ctx, ListFilter{Limit: 1})
	if len(all) != 1 || all[0].ID != "p5" {
		t.Errorf("List(limit 1) = %+v", all)
	}
}

func TestSQLStore_Create_RejectsNegativeAmount(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.Exec(t, db, "INSERT INTO accounts (id, email, password_hash, created_at) VALUES ('u1', 'u1@x.io', 'x', '2024-01-01T00:00:00.000000Z')")
	err := NewSQLStore(db).Create(context.Background(), domain.Payment{ID: "p", UserID: "u1", Amount: -1, PaymentMethod: "cash", Status: "completed", PaymentDate: time.Now()})
	if err == nil {
		t.Error("negative amount should violate the CHECK constraint")
	}
}
