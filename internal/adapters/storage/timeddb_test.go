package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"fitpro/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := openTestDB(t)
	db.MustExec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)")
	return db
}

// TestTimedDB_ExecContext verifies ExecContext records timing.
func TestTimedDB_ExecContext(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector)

	_, err := tdb.ExecContext(context.Background(), tdb.Rebind("INSERT INTO test (id, val) VALUES (?, ?)"), "1", "hello")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryRowContext verifies QueryRowContext records timing and returns data.
func TestTimedDB_QueryRowContext(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector)
	ctx := context.Background()

	tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES ('1', 'hello')")

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = '1'").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
}

// TestTimedDB_TransactionStatementsAreTimed verifies InTx routes statements through the timed wrapper.
func TestTimedDB_TransactionStatementsAreTimed(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector)

	err := InTx(context.Background(), tdb, func(ctx context.Context) error {
		_, err := Conn(ctx, tdb).ExecContext(ctx, "INSERT INTO test (id, val) VALUES ('1', 'a')")
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	snap := collector.Snapshot(time.Time{}.Add(time.Nanosecond), 10)
	found := false
	for _, q := range snap.SlowestQueries {
		if q.Path == "Tx.ExecContext" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Tx.ExecContext in %+v", snap.SlowestQueries)
	}
}

// TestTimedDB_NilCollector verifies a nil collector only logs.
func TestTimedDB_NilCollector(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'a')"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
}

// TestTimedDB_Concurrent verifies concurrent use does not race on the collector.
func TestTimedDB_Concurrent(t *testing.T) {
	collector := perf.NewCollector(1000)
	tdb := NewTimedDB(openTimedTestDB(t), collector)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n int
			tdb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM test").Scan(&n)
		}()
	}
	wg.Wait()

	if collector.TotalRecorded() != 20 {
		t.Errorf("TotalRecorded = %d, want 20", collector.TotalRecorded())
	}
}
