package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
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

const usage = `usage: taskpanel <command> [args]

commands:
  add <category> <priority> <text>  add a task (priority: low|medium|high|urgent)
  done <id>                         toggle a task's completion
  delete <id>                       remove a task
  list                              show all tasks, newest first
  search <text>                     filter tasks by text
  stats                             completion counts per category
  clear                             remove all tasks
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("taskpanel")

	cfg := cli.LoadAndValidateConfig(logger)
	cfg.Variant = config.VariantTasks

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
			logger.Error("Failed to load task data", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "warning: %s is corrupt; starting empty, saving disabled\n", cfg.DataFile())
	}

	if err := run(ctx, facade, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f *app.Facade, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		if len(rest) < 3 {
			return errors.New("add wants <category> <priority> <text>")
		}
		res, err := f.AddTask(ctx, rest[0], rest[1], strings.Join(rest[2:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added #%d [%s] %s\n", res.Record.ID, res.Record.Priority, res.Record.Description)
		return nil
	case "done":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		res, err := f.ToggleDone(ctx, id)
		if err != nil {
			return err
		}
		state := "pending"
		if res.Record.Done {
			state = "done"
		}
		fmt.Printf("Task #%d is now %s.\n", id, state)
		return nil
	case "delete":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		if _, err := f.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted #%d.\n", id)
		return nil
	case "list":
		printTasks(f.Records())
		return nil
	case "search":
		if len(rest) == 0 {
			return errors.New("search wants a text argument")
		}
		printTasks(f.Search(views.Query{Text: strings.Join(rest, " ")}))
		return nil
	case "stats":
		printStats(f.TaskStats())
		return nil
	case "clear":
		if _, err := f.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("All tasks removed.")
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("command wants exactly one id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printTasks(records []core.Record) {
	if len(records) == 0 {
		fmt.Println("No tasks.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tPRIORITY\tCATEGORY\tCREATED\tTASK")
	for _, r := range records {
		state := "[ ]"
		if r.Done {
			state = "[x]"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, state, r.Priority, r.Category,
			r.CreatedAt.Format(core.TaskTimeLayout), r.Description)
	}
	w.Flush()
}

func printStats(s views.TaskStats) {
	fmt.Printf("Total:     %d\n", s.Total)
	fmt.Printf("Completed: %d\n", s.Completed)
	fmt.Printf("Pending:   %d\n", s.Pending)
	if len(s.ByCategory) == 0 {
		return
	}
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("By category:")
	for _, name := range names {
		fmt.Printf("  %s: %d\n", name, s.ByCategory[name])
	}
}
