package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"wallet/internal/app"
	"wallet/internal/cli"
	"wallet/internal/config"
	"wallet/internal/core"
	"wallet/internal/log"
	"wallet/internal/views"
)

const usage = `usage: wallet <command> [args]

commands:
  income <category> <amount> [description]   record an income
  expense <category> <amount> [description]  record an expense
  delete <id>                                remove a transaction
  list                                       show all transactions, newest first
  search <text>                              filter transactions by text
  stats                                      show totals and averages
  budget [amount]                            show or set the monthly budget
  monthly [months]                           income/expense per month
  categories                                 per-category expense totals
  clear                                      remove all transactions
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("wallet")

	cfg := cli.LoadAndValidateConfig(logger)
	cfg.Variant = config.VariantLedger

	res := cli.OpenBackend(logger, cfg)
	defer func() {
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	}()

	ctx, stop := cli.SignalContext()
	defer stop()

	facade, err := app.New(ctx, res.Gateway, cfg.Categories(), logger)
	if err != nil {
		if !errors.Is(err, core.ErrCorruptData) {
			logger.Error("Failed to load wallet data", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "warning: %s is corrupt; starting empty, saving disabled\n", cfg.DataFile())
	}

	if err := run(ctx, facade, cfg, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f *app.Facade, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "income":
		return addTransaction(ctx, f, core.KindIncome, rest)
	case "expense":
		return addTransaction(ctx, f, core.KindExpense, rest)
	case "delete":
		if len(rest) != 1 {
			return errors.New("delete wants exactly one id")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", rest[0])
		}
		res, err := f.Delete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted #%d. Balance: %s\n", id, res.Balance)
		return nil
	case "list":
		printRecords(f.Records())
		fmt.Printf("\nBalance: %s\n", f.Balance())
		return nil
	case "search":
		if len(rest) == 0 {
			return errors.New("search wants a text argument")
		}
		printRecords(f.Search(views.Query{Text: strings.Join(rest, " ")}))
		return nil
	case "stats":
		printStats(f.Statistics())
		return nil
	case "budget":
		return budget(ctx, f, rest)
	case "monthly":
		months := cfg.OverviewMonths
		if len(rest) == 1 {
			n, err := strconv.Atoi(rest[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid month count %q", rest[0])
			}
			months = n
		}
		printFlows(f.MonthlyFlows(months))
		return nil
	case "categories":
		printCategories(f.ExpensesByCategory())
		return nil
	case "clear":
		res, err := f.ClearAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared. Balance: %s\n", res.Balance)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func addTransaction(ctx context.Context, f *app.Facade, kind core.Kind, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%s wants <category> <amount> [description]", strings.ToLower(string(kind)))
	}
	category, amount := args[0], args[1]
	description := strings.Join(args[2:], " ")

	res, err := f.AddTransaction(ctx, kind, category, amount, description)
	if err != nil {
		return err
	}
	fmt.Printf("Added #%d %s %s (%s). Balance: %s\n",
		res.Record.ID, res.Record.Kind, res.Record.Amount, res.Record.Category, res.Balance)
	return nil
}

func budget(ctx context.Context, f *app.Facade, args []string) error {
	if len(args) == 1 {
		if _, err := f.SetBudget(ctx, args[0]); err != nil {
			return err
		}
	} else if len(args) > 1 {
		return errors.New("budget wants at most one amount")
	}

	status := f.BudgetStatus()
	if status == nil {
		fmt.Println("No budget set.")
		return nil
	}
	fmt.Printf("Budget:    %s\n", status.Budget)
	fmt.Printf("Spent:     %s (%.1f%%)\n", status.Spent, status.PercentUsed)
	fmt.Printf("Remaining: %s\n", status.Remaining)
	switch status.Level {
	case views.BudgetWarning:
		fmt.Println("Budget exceeded!")
	case views.BudgetNotice:
		fmt.Println("Approaching budget limit.")
	}
	return nil
}

func printRecords(records []core.Record) {
	if len(records) == 0 {
		fmt.Println("No transactions.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.Format(core.LedgerTimeLayout),
			r.Kind,
			r.Category,
			r.Amount.SignedDisplay(r.Kind),
			r.Description)
	}
	w.Flush()
}

func printStats(s views.Statistics) {
	fmt.Printf("Transactions:   %d\n", s.Count)
	fmt.Printf("Total income:   %s\n", s.TotalIncome)
	fmt.Printf("Total expenses: %s\n", s.TotalExpenses)
	fmt.Printf("Net:            %s\n", s.Net)
	fmt.Printf("Avg expense:    %s\n", s.AvgExpense)
	fmt.Printf("Max expense:    %s\n", s.MaxExpense)
}

func printFlows(flows []views.PeriodFlow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSES")
	for _, p := range flows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Period, p.Income, p.Expense)
	}
	w.Flush()
}

func printCategories(cats []views.CategoryAmount) {
	if len(cats) == 0 {
		fmt.Println("No expenses.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Amount)
	}
	w.Flush()
}
