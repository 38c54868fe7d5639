// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wallet/internal/core"
)

// Variant names which of the two programs this process runs as.
const (
	VariantLedger = "ledger"
	VariantTasks  = "tasks"
)

type Config struct {
	// Program variant: "ledger" (wallet) or "tasks" (task panel)
	Variant string

	// Persistence backend selection: "json" or "sqlite"
	DataBackend string

	// JSON file paths, one per variant
	WalletDataFile string
	TasksDataFile  string

	// SQLite
	SQLiteDBPath string

	// Logging
	LogLevel string

	// Category sets; comma-separated overrides of the built-in defaults
	IncomeCategories  []string
	ExpenseCategories []string
	TaskCategories    []string

	// Months shown in the income-vs-expense overview
	OverviewMonths int
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		Variant:           getEnv("WALLET_VARIANT", VariantLedger),
		DataBackend:       getEnv("DATA_BACKEND", "json"),
		WalletDataFile:    getEnv("WALLET_DATA_FILE", "./data/wallet_data.json"),
		TasksDataFile:     getEnv("TASKS_DATA_FILE", "./data/tasks.json"),
		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/wallet.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		IncomeCategories:  getEnvList("INCOME_CATEGORIES", nil),
		ExpenseCategories: getEnvList("EXPENSE_CATEGORIES", nil),
		TaskCategories:    getEnvList("TASK_CATEGORIES", nil),
		OverviewMonths:    getEnvInt("OVERVIEW_MONTHS", 6),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Variant {
	case VariantLedger, VariantTasks:
	default:
		errs = append(errs, fmt.Sprintf("invalid variant '%s': must be one of [%s %s]", c.Variant, VariantLedger, VariantTasks))
	}

	switch c.DataBackend {
	case "json", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [json sqlite]", c.DataBackend))
	}

	if c.DataBackend == "json" {
		if c.DataFile() == "" {
			errs = append(errs, "data file path cannot be empty when using the json backend")
		}
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.OverviewMonths < 1 || c.OverviewMonths > 120 {
		errs = append(errs, fmt.Sprintf("invalid overview months %d: must be between 1 and 120", c.OverviewMonths))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// DataFile returns the JSON file path for the configured variant.
func (c *Config) DataFile() string {
	if c.Variant == VariantTasks {
		return c.TasksDataFile
	}
	return c.WalletDataFile
}

// Categories builds the category sets, falling back to the built-in
// defaults for any list left unset.
func (c *Config) Categories() core.CategorySet {
	cs := core.DefaultCategories()
	if len(c.IncomeCategories) > 0 {
		cs.Income = c.IncomeCategories
	}
	if len(c.ExpenseCategories) > 0 {
		cs.Expense = c.ExpenseCategories
	}
	if len(c.TaskCategories) > 0 {
		cs.Task = c.TaskCategories
	}
	return cs
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
