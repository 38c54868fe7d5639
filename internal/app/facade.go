// Package app is the facade presentation layers call: it sequences store
// mutation, synchronous persistence and view refresh, so a front end only
// ever submits intents and renders the returned snapshots.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wallet/internal/backend"
	"wallet/internal/cache"
	"wallet/internal/core"
	"wallet/internal/log"
	"wallet/internal/store"
	"wallet/internal/views"
)

const (
	viewCacheSize = 16
	viewCacheTTL  = 5 * time.Minute
)

// Facade owns the store and gateway. All operations run to completion
// (validate, mutate, persist, project) before returning, matching the
// single-threaded event model of the desktop front ends.
type Facade struct {
	store   *store.Store
	gateway backend.Gateway
	logger  *log.Logger
	now     func() time.Time

	// Auto-save is latched off when the data file was corrupt at load, so
	// the next save cannot clobber a file the user may want to recover.
	saveEnabled bool

	revision   uint64
	flowCache  *cache.LRU[[]views.PeriodFlow]
	categCache *cache.LRU[[]views.CategoryAmount]
}

// New loads persisted state through the gateway and returns a ready facade.
// When the stored data is corrupt the facade still comes back usable (empty,
// with auto-save disabled) together with the CorruptData error, so the
// caller can warn the user instead of losing the file.
func New(ctx context.Context, gw backend.Gateway, categories core.CategorySet, logger *log.Logger) (*Facade, error) {
	if logger == nil {
		logger = log.New(log.ParseLevel(""), log.ComponentApp)
	}
	f := &Facade{
		store:       store.New(categories),
		gateway:     gw,
		logger:      logger.WithComponent(log.ComponentApp),
		now:         time.Now,
		saveEnabled: true,
		flowCache:   cache.NewLRU[[]views.PeriodFlow](viewCacheSize, viewCacheTTL),
		categCache:  cache.NewLRU[[]views.CategoryAmount](viewCacheSize, viewCacheTTL),
	}

	snap, err := gw.Load(ctx)
	if err != nil {
		if errors.Is(err, core.ErrCorruptData) {
			f.saveEnabled = false
			f.logger.Error("Data file is corrupt; starting empty with saving disabled",
				log.FieldOperation, log.OpLoad, log.FieldError, err)
			return f, err
		}
		return nil, err
	}
	f.store.Restore(snap)
	f.logger.Info("Loaded persisted state",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, f.store.Count(),
		log.FieldBalance, f.store.Balance().Decimal())
	return f, nil
}

// Result is what every mutation hands back for the front end to render.
type Result struct {
	Record  core.Record
	Balance core.Money
	Stats   views.Statistics
}

// AddTransaction records an income or expense. The amount is the raw
// user-entered decimal string; parsing and all invariant checks happen
// before anything is committed.
func (f *Facade) AddTransaction(ctx context.Context, kind core.Kind, category, amount, description string) (Result, error) {
	rec, err := f.store.Add(store.AddInput{
		Kind:        kind,
		Category:    category,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return Result{}, err
	}
	f.logger.Info("Transaction added",
		log.FieldOperation, log.OpAdd,
		log.FieldRecordID, rec.ID,
		log.FieldKind, string(rec.Kind),
		log.FieldCategory, rec.Category,
		log.FieldAmountCents, rec.Amount.Cents)
	return f.commit(ctx, rec)
}

// AddTask records a new pending task.
func (f *Facade) AddTask(ctx context.Context, category, priority, text string) (Result, error) {
	rec, err := f.store.Add(store.AddInput{
		Kind:        core.KindTask,
		Category:    category,
		Priority:    core.ParsePriority(priority),
		Description: text,
	})
	if err != nil {
		return Result{}, err
	}
	f.logger.Info("Task added",
		log.FieldOperation, log.OpAdd,
		log.FieldRecordID, rec.ID,
		log.FieldCategory, rec.Category)
	return f.commit(ctx, rec)
}

// Delete removes a record by ID, reversing its balance effect.
func (f *Facade) Delete(ctx context.Context, id int64) (Result, error) {
	if err := f.store.Delete(id); err != nil {
		return Result{}, err
	}
	f.logger.Info("Record deleted", log.FieldOperation, log.OpDelete, log.FieldRecordID, id)
	return f.commit(ctx, core.Record{})
}

// ToggleDone flips a task's completion state.
func (f *Facade) ToggleDone(ctx context.Context, id int64) (Result, error) {
	rec, err := f.store.ToggleDone(id)
	if err != nil {
		return Result{}, err
	}
	f.logger.Info("Task toggled",
		log.FieldOperation, log.OpToggle,
		log.FieldRecordID, id, "done", rec.Done)
	return f.commit(ctx, rec)
}

// SetBudget sets (or with zero, unsets) the monthly budget.
func (f *Facade) SetBudget(ctx context.Context, amount string) (Result, error) {
	budget, err := f.store.SetBudget(amount)
	if err != nil {
		return Result{}, err
	}
	f.logger.Info("Budget set",
		log.FieldOperation, log.OpBudget,
		log.FieldAmountCents, budget.Cents)
	return f.commit(ctx, core.Record{})
}

// ClearAll removes every record.
func (f *Facade) ClearAll(ctx context.Context) (Result, error) {
	n := f.store.Clear()
	f.logger.Info("Cleared all records", log.FieldOperation, log.OpClear, log.FieldCount, n)
	if n == 0 {
		return f.result(core.Record{}), nil
	}
	return f.commit(ctx, core.Record{})
}

// EnableSave re-arms persistence after a corrupt load, once the caller has
// decided the old file may be replaced.
func (f *Facade) EnableSave() {
	f.saveEnabled = true
}

// commit persists the mutated state and assembles the result. A failed
// save keeps the in-memory mutation and reports it via core.ErrPersistence;
// the session stays authoritative, only durability is at risk.
func (f *Facade) commit(ctx context.Context, rec core.Record) (Result, error) {
	f.revision++
	f.flowCache.Purge()
	f.categCache.Purge()

	res := f.result(rec)
	if !f.saveEnabled {
		f.logger.Warn("Skipping save: disabled after corrupt load", log.FieldOperation, log.OpSave)
		return res, fmt.Errorf("%w: saving disabled after corrupt load", core.ErrPersistence)
	}
	if err := f.gateway.Save(ctx, f.store.Snapshot()); err != nil {
		f.logger.Error("Save failed; in-memory state retained",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		if errors.Is(err, core.ErrPersistence) {
			return res, err
		}
		return res, fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	f.store.MarkClean()
	return res, nil
}

func (f *Facade) result(rec core.Record) Result {
	return Result{
		Record:  rec,
		Balance: f.store.Balance(),
		Stats:   views.Aggregate(f.store.All()),
	}
}

// Records returns all records, newest first.
func (f *Facade) Records() []core.Record {
	return f.store.All()
}

// Search returns the records matching the query, newest first.
func (f *Facade) Search(q views.Query) []core.Record {
	return views.Filter(f.store.All(), q)
}

// Statistics returns the ledger aggregates over the current records.
func (f *Facade) Statistics() views.Statistics {
	return views.Aggregate(f.store.All())
}

// TaskStats returns completion counts over the current tasks.
func (f *Facade) TaskStats() views.TaskStats {
	return views.SummarizeTasks(f.store.All())
}

// ExpensesByCategory returns per-category expense sums, memoized until the
// next mutation.
func (f *Facade) ExpensesByCategory() []views.CategoryAmount {
	key := strconv.FormatUint(f.revision, 10)
	if cached, ok := f.categCache.Get(key); ok {
		return cached
	}
	out := views.GroupByCategory(f.store.All(), core.KindExpense)
	f.categCache.Set(key, out)
	return out
}

// MonthlyFlows returns income/expense sums for the last window months,
// memoized until the next mutation.
func (f *Facade) MonthlyFlows(window int) []views.PeriodFlow {
	key := strconv.FormatUint(f.revision, 10) + ":" + strconv.Itoa(window)
	if cached, ok := f.flowCache.Get(key); ok {
		return cached
	}
	out := views.GroupByPeriod(f.store.All(), window, f.now())
	f.flowCache.Set(key, out)
	return out
}

// BudgetStatus reports current-month spending against the budget, nil when
// no budget is set.
func (f *Facade) BudgetStatus() *views.BudgetStatus {
	return views.BudgetReport(f.store.All(), f.store.Budget(), f.now())
}

// Balance returns the running balance.
func (f *Facade) Balance() core.Money {
	return f.store.Balance()
}

// Budget returns the configured monthly budget.
func (f *Facade) Budget() core.Money {
	return f.store.Budget()
}

// Categories returns the configured category sets.
func (f *Facade) Categories() core.CategorySet {
	return f.store.Categories()
}
