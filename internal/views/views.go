// Package views derives presentation-ready projections from a record
// snapshot: filtered feeds, aggregate statistics, category and period
// groupings, and budget status. Everything here is pure: functions take the
// records they project over and never touch the store.
package views

import (
	"sort"
	"strings"
	"time"

	"wallet/internal/core"
)

// Query is a conjunctive record filter. Zero-valued predicates match all.
type Query struct {
	Kind     core.Kind // "" matches every kind
	Category string    // "" matches every category
	From     *time.Time
	To       *time.Time
	Text     string // case-insensitive match over category, text, priority and timestamp
}

// Filter returns the records matching every set predicate, newest first.
// Records sharing a timestamp keep their insertion order before the final
// reversal, so the output ordering is stable.
func Filter(records []core.Record, q Query) []core.Record {
	sorted := make([]core.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]core.Record, 0, len(sorted))
	for _, r := range sorted {
		if q.Kind != "" && r.Kind != q.Kind {
			continue
		}
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		if q.From != nil && r.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && r.CreatedAt.After(*q.To) {
			continue
		}
		if needle != "" && !strings.Contains(haystack(r), needle) {
			continue
		}
		out = append(out, r)
	}
	// Newest first for display, matching the store's All ordering.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func haystack(r core.Record) string {
	layout := core.LedgerTimeLayout
	if r.IsTask() {
		layout = core.TaskTimeLayout
	}
	return strings.ToLower(strings.Join([]string{
		r.Category,
		r.Description,
		string(r.Priority),
		r.CreatedAt.Format(layout),
	}, " "))
}

// Statistics are the ledger aggregates shown on the analytics panel.
// AvgExpense is a plain per-transaction mean.
type Statistics struct {
	TotalIncome   core.Money
	TotalExpenses core.Money
	Net           core.Money
	Count         int
	AvgExpense    core.Money
	MaxExpense    core.Money
}

// Aggregate computes ledger statistics over the given records. Tasks are
// ignored; an empty expense set yields zero mean and max.
func Aggregate(records []core.Record) Statistics {
	var stats Statistics
	var expenseCount int64
	for _, r := range records {
		switch r.Kind {
		case core.KindIncome:
			stats.TotalIncome = stats.TotalIncome.Add(r.Amount)
		case core.KindExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(r.Amount)
			expenseCount++
			if r.Amount.Cents > stats.MaxExpense.Cents {
				stats.MaxExpense = r.Amount
			}
		default:
			continue
		}
		stats.Count++
	}
	stats.Net = stats.TotalIncome.Sub(stats.TotalExpenses)
	if expenseCount > 0 {
		// Half-up rounded mean in cents.
		total := stats.TotalExpenses.Cents
		stats.AvgExpense = core.Money{Cents: (total + expenseCount/2) / expenseCount}
	}
	return stats
}

// TaskStats summarize completion state across task records.
type TaskStats struct {
	Completed  int
	Pending    int
	Total      int
	ByCategory map[string]int
}

// SummarizeTasks counts completed/pending tasks and the per-category totals.
func SummarizeTasks(records []core.Record) TaskStats {
	stats := TaskStats{ByCategory: make(map[string]int)}
	for _, r := range records {
		if !r.IsTask() {
			continue
		}
		stats.Total++
		if r.Done {
			stats.Completed++
		} else {
			stats.Pending++
		}
		stats.ByCategory[r.Category]++
	}
	return stats
}

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Name   string
	Amount core.Money
}

// GroupByCategory sums amounts of the given ledger kind per category,
// sorted by category name for deterministic chart input.
func GroupByCategory(records []core.Record, kind core.Kind) []CategoryAmount {
	sums := make(map[string]core.Money)
	for _, r := range records {
		if r.Kind != kind {
			continue
		}
		sums[r.Category] = sums[r.Category].Add(r.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PeriodFlow is the income/expense pair for one month.
type PeriodFlow struct {
	Period  string // "2006-01"
	Income  core.Money
	Expense core.Money
}

const periodLayout = "2006-01"

// GroupByPeriod returns exactly window monthly flows ending at now's month,
// chronological ascending. Months without activity appear with zero sums;
// activity outside the window is dropped.
func GroupByPeriod(records []core.Record, window int, now time.Time) []PeriodFlow {
	if window <= 0 {
		return nil
	}
	sums := make(map[string]*PeriodFlow)
	out := make([]PeriodFlow, 0, window)
	// Truncate to the first of the month before stepping back, so month-end
	// dates do not normalize into the wrong month.
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	anchor := current.AddDate(0, -(window-1), 0)
	for i := 0; i < window; i++ {
		key := anchor.AddDate(0, i, 0).Format(periodLayout)
		out = append(out, PeriodFlow{Period: key})
		sums[key] = &out[len(out)-1]
	}
	for _, r := range records {
		if !r.Kind.IsLedger() {
			continue
		}
		flow, ok := sums[r.CreatedAt.Format(periodLayout)]
		if !ok {
			continue
		}
		if r.Kind == core.KindIncome {
			flow.Income = flow.Income.Add(r.Amount)
		} else {
			flow.Expense = flow.Expense.Add(r.Amount)
		}
	}
	return out
}

// BudgetLevel tiers the budget alerts the way the wallet surfaces them.
type BudgetLevel string

const (
	BudgetOK      BudgetLevel = "ok"      // under 75% used
	BudgetNotice  BudgetLevel = "notice"  // 75% or more used
	BudgetWarning BudgetLevel = "warning" // budget exceeded
)

// BudgetStatus reports spending against the monthly budget.
type BudgetStatus struct {
	Budget      core.Money
	Spent       core.Money
	Remaining   core.Money
	PercentUsed float64
	Level       BudgetLevel
}

// BudgetReport computes the current-month budget status, or nil when no
// budget is set.
func BudgetReport(records []core.Record, budget core.Money, now time.Time) *BudgetStatus {
	if budget.IsZero() {
		return nil
	}
	month := now.Format(periodLayout)
	var spent core.Money
	for _, r := range records {
		if r.Kind == core.KindExpense && r.CreatedAt.Format(periodLayout) == month {
			spent = spent.Add(r.Amount)
		}
	}
	status := &BudgetStatus{
		Budget:      budget,
		Spent:       spent,
		Remaining:   budget.Sub(spent),
		PercentUsed: float64(spent.Cents) / float64(budget.Cents) * 100,
	}
	switch {
	case status.PercentUsed >= 100:
		status.Level = BudgetWarning
	case status.PercentUsed >= 75:
		status.Level = BudgetNotice
	default:
		status.Level = BudgetOK
	}
	return status
}
