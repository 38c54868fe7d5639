// Package store owns the authoritative in-memory record collection: ID
// assignment, add/delete/toggle mutations and the running balance.
//
// Every mutation is validate-then-commit: all invariant checks run before
// any state changes, so a failed call leaves the store untouched. Consumers
// never see the internal slice; All and Snapshot hand out copies.
package store

import (
	"strings"
	"sync"
	"time"

	"wallet/internal/core"
)

// Store is the single source of truth for records and the running balance.
type Store struct {
	mu          sync.Mutex
	records     []core.Record // ascending ID order
	balance     core.Money
	budget      core.Money
	nextID      int64
	categories  core.CategorySet
	lastUpdated time.Time
	dirty       bool
}

// New returns an empty store using the given category sets.
func New(categories core.CategorySet) *Store {
	return &Store{
		nextID:     1,
		categories: categories,
	}
}

// AddInput carries one add request. Amount is the raw user-entered decimal
// string for ledger kinds and ignored for tasks.
type AddInput struct {
	Kind        core.Kind
	Category    string
	Amount      string
	Priority    core.Priority
	Description string
}

// Add validates the input, assigns the next sequential ID and appends the
// record, updating the running balance for ledger kinds. IDs are never
// reused, even after deletes.
func (s *Store) Add(in AddInput) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !in.Kind.IsValid() {
		return core.Record{}, core.ErrInvalidCategory
	}
	if !s.categories.Allows(in.Kind, in.Category) {
		return core.Record{}, core.ErrInvalidCategory
	}

	rec := core.Record{
		Kind:      in.Kind,
		Category:  strings.TrimSpace(in.Category),
		CreatedAt: time.Now(),
	}

	if in.Kind.IsLedger() {
		amount, err := core.ParseAmount(in.Amount)
		if err != nil {
			return core.Record{}, err
		}
		if in.Kind == core.KindExpense && amount.Cents > s.balance.Cents {
			return core.Record{}, core.ErrInsufficientBalance
		}
		rec.Amount = amount
		rec.Description = strings.TrimSpace(in.Description)
		if rec.Description == "" {
			rec.Description = core.DefaultDescription
		}
	} else {
		text := strings.TrimSpace(in.Description)
		if text == "" {
			return core.Record{}, core.ErrEmptyText
		}
		rec.Description = text
		rec.Priority = in.Priority
		if rec.Priority == "" {
			rec.Priority = core.PriorityMedium
		}
	}

	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, rec)
	s.balance = s.balance.Add(rec.Signed())
	s.touch()
	return rec, nil
}

// Delete removes the record with the given ID, reversing its effect on the
// running balance. The relative order of the remaining records is kept.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.ErrNotFound
	}
	s.balance = s.balance.Sub(s.records[idx].Signed())
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.touch()
	return nil
}

// ToggleDone flips the completion flag of the record with the given ID and
// returns the updated record.
func (s *Store) ToggleDone(id int64) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.Record{}, core.ErrNotFound
	}
	s.records[idx].Done = !s.records[idx].Done
	s.touch()
	return s.records[idx], nil
}

// Clear removes every record, reversing each one's balance effect, and
// returns the number removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	if n == 0 {
		return 0
	}
	for _, r := range s.records {
		s.balance = s.balance.Sub(r.Signed())
	}
	s.records = nil
	s.touch()
	return n
}

// SetBudget parses and stores the monthly budget. Zero unsets it.
func (s *Store) SetBudget(amount string) (core.Money, error) {
	budget, err := core.ParseNonNegativeAmount(amount)
	if err != nil {
		return core.Money{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = budget
	s.touch()
	return budget, nil
}

// All returns a copy of the records, newest first (descending ID).
func (s *Store) All() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Record, len(s.records))
	for i, r := range s.records {
		out[len(s.records)-1-i] = r
	}
	return out
}

// Balance returns the current running balance.
func (s *Store) Balance() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Budget returns the configured monthly budget (zero when unset).
func (s *Store) Budget() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// Count returns the number of records currently present.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Categories returns the category sets the store validates against.
func (s *Store) Categories() core.CategorySet {
	return s.categories
}

// Dirty reports whether the store has unsaved mutations.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkClean clears the dirty flag after a successful save.
func (s *Store) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// Snapshot returns a copy of the full state for persistence, records in
// ascending ID order.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]core.Record, len(s.records))
	copy(records, s.records)
	return core.Snapshot{
		Balance:     s.balance,
		Budget:      s.budget,
		LastUpdated: s.lastUpdated,
		Records:     records,
	}
}

// Restore replaces the store state with a loaded snapshot. The next ID
// resumes after the highest loaded ID.
func (s *Store) Restore(snap core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]core.Record, len(snap.Records))
	copy(s.records, snap.Records)
	s.balance = snap.Balance
	s.budget = snap.Budget
	s.lastUpdated = snap.LastUpdated
	s.nextID = 1
	for _, r := range s.records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	s.dirty = false
}

func (s *Store) indexOf(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) touch() {
	s.lastUpdated = time.Now()
	s.dirty = true
}
