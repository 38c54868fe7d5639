package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wallet/internal/core"
)

func openTestDB(t *testing.T) *SQLiteGateway {
	t.Helper()
	g, err := NewSQLiteGateway(filepath.Join(t.TempDir(), "wallet.db"))
	if err != nil {
		t.Fatalf("open sqlite gateway: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestSQLiteEmptyDatabase(t *testing.T) {
	g := openTestDB(t)
	snap, err := g.Load(context.Background())
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(snap.Records) != 0 || !snap.Balance.IsZero() {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	g := openTestDB(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	want := core.Snapshot{
		Balance:     core.Money{Cents: 96000},
		Budget:      core.Money{Cents: 50000},
		LastUpdated: created.Add(time.Hour),
		Records: []core.Record{
			{ID: 1, Kind: core.KindIncome, Category: "Salary", Amount: core.Money{Cents: 100000}, Description: "May pay", CreatedAt: created},
			{ID: 2, Kind: core.KindExpense, Category: "Food", Amount: core.Money{Cents: 4000}, Description: core.DefaultDescription, CreatedAt: created.Add(time.Minute)},
			{ID: 5, Kind: core.KindTask, Category: "Home", Priority: core.PriorityHigh, Description: "fix sink", Done: true, CreatedAt: created.Add(2 * time.Minute)},
		},
	}
	if err := g.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := g.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Balance != want.Balance || got.Budget != want.Budget {
		t.Errorf("state mismatch: %+v", got)
	}
	if !got.LastUpdated.Equal(want.LastUpdated) {
		t.Errorf("last_updated %v != %v", got.LastUpdated, want.LastUpdated)
	}
	if len(got.Records) != len(want.Records) {
		t.Fatalf("got %d records, want %d", len(got.Records), len(want.Records))
	}
	for i, w := range want.Records {
		r := got.Records[i]
		if r.ID != w.ID || r.Kind != w.Kind || r.Category != w.Category ||
			r.Amount != w.Amount || r.Done != w.Done || r.Priority != w.Priority ||
			r.Description != w.Description || !r.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, r, w)
		}
	}
}

func TestSQLiteSaveReplacesPreviousState(t *testing.T) {
	g := openTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	first := core.Snapshot{
		Balance: core.Money{Cents: 1000},
		Records: []core.Record{
			{ID: 1, Kind: core.KindIncome, Category: "Salary", Amount: core.Money{Cents: 1000}, Description: "x", CreatedAt: created},
			{ID: 2, Kind: core.KindIncome, Category: "Bonus", Amount: core.Money{Cents: 500}, Description: "y", CreatedAt: created},
		},
	}
	if err := g.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := core.Snapshot{
		Balance: core.Money{Cents: 500},
		Records: []core.Record{
			{ID: 3, Kind: core.KindIncome, Category: "Other", Amount: core.Money{Cents: 500}, Description: "z", CreatedAt: created},
		},
	}
	if err := g.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := g.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 1 || got.Records[0].ID != 3 {
		t.Errorf("save did not replace previous records: %+v", got.Records)
	}
	if got.Balance.Cents != 500 {
		t.Errorf("balance = %d", got.Balance.Cents)
	}
}
