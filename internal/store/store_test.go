package store

import (
	"errors"
	"testing"
	"time"

	"wallet/internal/core"
)

func newLedger(t *testing.T) *Store {
	t.Helper()
	return New(core.DefaultCategories())
}

func TestAddIncomeAndExpense(t *testing.T) {
	s := newLedger(t)

	rec, err := s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "1000.00"})
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("first ID = %d, want 1", rec.ID)
	}
	if got := s.Balance().Decimal(); got != "1000.00" {
		t.Errorf("balance = %s, want 1000.00", got)
	}

	if _, err := s.Add(AddInput{Kind: core.KindExpense, Category: "Food", Amount: "40.00"}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if got := s.Balance().Decimal(); got != "960.00" {
		t.Errorf("balance = %s, want 960.00", got)
	}

	// Overdraft is rejected before any mutation.
	_, err = s.Add(AddInput{Kind: core.KindExpense, Category: "Food", Amount: "9999.00"})
	if !errors.Is(err, core.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := s.Balance().Decimal(); got != "960.00" {
		t.Errorf("balance after rejection = %s, want 960.00", got)
	}
	if s.Count() != 2 {
		t.Errorf("count after rejection = %d, want 2", s.Count())
	}
}

func TestAddValidation(t *testing.T) {
	s := newLedger(t)

	cases := []struct {
		name string
		in   AddInput
		want error
	}{
		{"bad amount", AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "abc"}, core.ErrInvalidAmount},
		{"zero amount", AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "0"}, core.ErrInvalidAmount},
		{"wrong category", AddInput{Kind: core.KindIncome, Category: "Food", Amount: "1"}, core.ErrInvalidCategory},
		{"empty category", AddInput{Kind: core.KindExpense, Category: "", Amount: "1"}, core.ErrInvalidCategory},
		{"unknown kind", AddInput{Kind: core.Kind("Transfer"), Category: "Food", Amount: "1"}, core.ErrInvalidCategory},
		{"blank task", AddInput{Kind: core.KindTask, Category: "Home", Description: "  "}, core.ErrEmptyText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Add(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
	if s.Count() != 0 {
		t.Errorf("failed adds must not mutate the store, count = %d", s.Count())
	}
}

func TestDescriptionPlaceholder(t *testing.T) {
	s := newLedger(t)
	rec, err := s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "5"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Description != core.DefaultDescription {
		t.Errorf("description = %q, want placeholder", rec.Description)
	}
}

func TestDeleteReversesBalance(t *testing.T) {
	s := newLedger(t)
	if _, err := s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "100"}); err != nil {
		t.Fatal(err)
	}
	exp, err := s.Add(AddInput{Kind: core.KindExpense, Category: "Food", Amount: "30"})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(exp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := s.Balance().Decimal(); got != "100.00" {
		t.Errorf("balance after delete = %s, want 100.00", got)
	}

	// Second delete of the same ID reports NotFound and changes nothing.
	if err := s.Delete(exp.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
	if got := s.Balance().Decimal(); got != "100.00" {
		t.Errorf("balance after double delete = %s", got)
	}
}

func TestIDsNeverReused(t *testing.T) {
	s := newLedger(t)
	a, _ := s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "10"})
	b, _ := s.Add(AddInput{Kind: core.KindIncome, Category: "Bonus", Amount: "10"})
	if err := s.Delete(b.ID); err != nil {
		t.Fatal(err)
	}
	c, _ := s.Add(AddInput{Kind: core.KindIncome, Category: "Other", Amount: "10"})
	if c.ID <= b.ID || c.ID <= a.ID {
		t.Errorf("ID %d reused after delete (previous %d, %d)", c.ID, a.ID, b.ID)
	}
}

func TestBalanceMatchesSignedSum(t *testing.T) {
	s := newLedger(t)
	for i := 0; i < 20; i++ {
		if _, err := s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "13.37"}); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Add(AddInput{Kind: core.KindExpense, Category: "Food", Amount: "4.2"}); err != nil {
			t.Fatal(err)
		}
	}
	// Delete every third record.
	for _, r := range s.All() {
		if r.ID%3 == 0 {
			if err := s.Delete(r.ID); err != nil {
				t.Fatal(err)
			}
		}
	}
	var sum int64
	for _, r := range s.All() {
		sum += r.Signed().Cents
	}
	if got := s.Balance().Cents; got != sum {
		t.Errorf("balance drifted: %d cents, signed sum %d", got, sum)
	}
}

func TestToggleDone(t *testing.T) {
	s := New(core.DefaultCategories())
	rec, err := s.Add(AddInput{Kind: core.KindTask, Category: "Home", Description: "water plants"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Done {
		t.Fatal("new task must start pending")
	}

	got, err := s.ToggleDone(rec.ID)
	if err != nil || !got.Done {
		t.Fatalf("toggle: done=%v err=%v", got.Done, err)
	}
	got, err = s.ToggleDone(rec.ID)
	if err != nil || got.Done {
		t.Fatalf("toggle back: done=%v err=%v", got.Done, err)
	}

	if _, err := s.ToggleDone(999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("toggle missing: got %v, want ErrNotFound", err)
	}
}

func TestTaskPriorityDefault(t *testing.T) {
	s := New(core.DefaultCategories())
	rec, err := s.Add(AddInput{Kind: core.KindTask, Category: "Gym", Description: "leg day"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Priority != core.PriorityMedium {
		t.Errorf("priority = %q, want Medium", rec.Priority)
	}
}

func TestAllNewestFirst(t *testing.T) {
	s := newLedger(t)
	for i := 0; i < 5; i++ {
		if _, err := s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "1"}); err != nil {
			t.Fatal(err)
		}
	}
	all := s.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID <= all[i].ID {
			t.Fatalf("All not descending at %d: %d then %d", i, all[i-1].ID, all[i].ID)
		}
	}
	// Mutating the copy must not reach the store.
	all[0].Category = "tampered"
	if s.All()[0].Category == "tampered" {
		t.Error("All returned a live reference")
	}
}

func TestClear(t *testing.T) {
	s := newLedger(t)
	s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "10"})
	s.Add(AddInput{Kind: core.KindExpense, Category: "Food", Amount: "4"})
	if n := s.Clear(); n != 2 {
		t.Errorf("Clear removed %d, want 2", n)
	}
	if s.Count() != 0 || !s.Balance().IsZero() {
		t.Errorf("store not empty after clear: count=%d balance=%s", s.Count(), s.Balance())
	}
	if n := s.Clear(); n != 0 {
		t.Errorf("Clear on empty removed %d", n)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := newLedger(t)
	s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "500"})
	s.Add(AddInput{Kind: core.KindExpense, Category: "Bills", Amount: "120.50"})
	if _, err := s.SetBudget("300"); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()

	restored := New(core.DefaultCategories())
	restored.Restore(snap)

	if restored.Balance() != s.Balance() {
		t.Errorf("balance %s != %s", restored.Balance(), s.Balance())
	}
	if restored.Budget() != s.Budget() {
		t.Errorf("budget %s != %s", restored.Budget(), s.Budget())
	}
	if restored.Count() != s.Count() {
		t.Errorf("count %d != %d", restored.Count(), s.Count())
	}
	if restored.Dirty() {
		t.Error("restored store must start clean")
	}

	// IDs continue after the highest restored ID.
	rec, err := restored.Add(AddInput{Kind: core.KindIncome, Category: "Bonus", Amount: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 3 {
		t.Errorf("next ID after restore = %d, want 3", rec.ID)
	}
}

func TestSetBudget(t *testing.T) {
	s := newLedger(t)
	if _, err := s.SetBudget("250.75"); err != nil {
		t.Fatal(err)
	}
	if got := s.Budget().Decimal(); got != "250.75" {
		t.Errorf("budget = %s", got)
	}
	if _, err := s.SetBudget("0"); err != nil {
		t.Fatalf("zero budget should unset: %v", err)
	}
	if !s.Budget().IsZero() {
		t.Error("budget not unset")
	}
	if _, err := s.SetBudget("nope"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("invalid budget: got %v", err)
	}
}

func TestDirtyTracking(t *testing.T) {
	s := newLedger(t)
	if s.Dirty() {
		t.Fatal("fresh store must be clean")
	}
	s.Add(AddInput{Kind: core.KindIncome, Category: "Salary", Amount: "1"})
	if !s.Dirty() {
		t.Fatal("add must mark dirty")
	}
	s.MarkClean()
	if s.Dirty() {
		t.Fatal("MarkClean did not clear the flag")
	}
	snap := s.Snapshot()
	if snap.LastUpdated.IsZero() || time.Since(snap.LastUpdated) > time.Minute {
		t.Error("snapshot LastUpdated not maintained")
	}
}
