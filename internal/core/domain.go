package core

import (
	"errors"
	"strings"
	"time"
)

// Kind tags a record as one ledger side or a task entry.
type Kind string

const (
	KindIncome  Kind = "Income"
	KindExpense Kind = "Expense"
	KindTask    Kind = "Task"
)

// IsValid returns true if the kind is one of the known tags.
func (k Kind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindTask:
		return true
	default:
		return false
	}
}

// IsLedger returns true for the money-carrying kinds.
func (k Kind) IsLedger() bool {
	return k == KindIncome || k == KindExpense
}

// Priority is the task urgency tag.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// ParsePriority maps a user- or file-supplied string to a Priority,
// ignoring case and defaulting to Medium for empty or unknown values so
// old files keep loading.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	case "urgent":
		return PriorityUrgent
	default:
		return PriorityMedium
	}
}

// Timestamp layouts used in the persisted files.
const (
	LedgerTimeLayout = "2006-01-02 15:04:05"
	TaskTimeLayout   = "2006-01-02 15:04"
)

// DefaultDescription replaces an empty ledger description.
const DefaultDescription = "No description"

// DefaultTaskCategory replaces a missing task category on load.
const DefaultTaskCategory = "General"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("record not found")
	ErrEmptyText           = errors.New("empty task text")
	ErrPersistence         = errors.New("persistence failure")
	ErrCorruptData         = errors.New("corrupt data file")
)

// Record is one ledger transaction or one task entry. Identity (ID, Kind,
// CreatedAt) is immutable after creation; only Done may flip, and only
// through the store.
type Record struct {
	ID          int64
	Kind        Kind
	Category    string
	Amount      Money // ledger kinds only, always positive
	Done        bool  // tasks only
	Priority    Priority
	Description string // task text for KindTask
	CreatedAt   time.Time
}

// IsTask reports whether the record is a task entry.
func (r Record) IsTask() bool {
	return r.Kind == KindTask
}

// Signed returns the record's effect on the running balance:
// positive for income, negative for expenses, zero for tasks.
func (r Record) Signed() Money {
	switch r.Kind {
	case KindIncome:
		return r.Amount
	case KindExpense:
		return Money{Cents: -r.Amount.Cents}
	default:
		return Money{}
	}
}

// CategorySet holds the enumerated categories per ledger kind. Task
// categories are free-form; the Task list only seeds UI choices.
type CategorySet struct {
	Income  []string
	Expense []string
	Task    []string
}

// DefaultCategories returns the stock category sets.
func DefaultCategories() CategorySet {
	return CategorySet{
		Income:  []string{"Salary", "Freelance", "Investment", "Bonus", "Other"},
		Expense: []string{"Food", "Transport", "Entertainment", "Utilities", "Shopping", "Healthcare", "Bills", "Other"},
		Task:    []string{"Home", "Gym", "College"},
	}
}

// ForKind returns the category list for the given kind.
func (cs CategorySet) ForKind(k Kind) []string {
	switch k {
	case KindIncome:
		return cs.Income
	case KindExpense:
		return cs.Expense
	default:
		return cs.Task
	}
}

// Allows reports whether category is acceptable for kind. Ledger kinds are
// restricted to their enumerated set; tasks accept any non-empty name.
func (cs CategorySet) Allows(k Kind, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return false
	}
	if k == KindTask {
		return true
	}
	for _, c := range cs.ForKind(k) {
		if c == category {
			return true
		}
	}
	return false
}

// Snapshot is the full persistable state of a record store.
type Snapshot struct {
	Balance     Money
	Budget      Money
	LastUpdated time.Time
	Records     []Record // ascending ID order
}
