package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taskmaster/todo/internal/adapters/repository"
	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/infrastructure/server"
	"github.com/taskmaster/todo/internal/ports"
)

// Build information, overridden with -ldflags at release time
var (
	Version   = "dev"
	GitCommit = "development"
	BuildDate = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the todo API server",
		Long:  "Start the HTTP server: the todo JSON API, health and metrics endpoints, and the front-end bundle.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "todo %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "Go: %s\n", runtime.Version())
		},
	}
}

// NewTodosCommand creates the todo management command. It works directly
// on the configured storage, so the server does not need to be running.
func NewTodosCommand() *cobra.Command {
	todosCmd := &cobra.Command{
		Use:   "todos",
		Short: "Manage todos from the command line",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return withTodoService(cmd, func(ctx context.Context, svc *services.TodoService) error {
				todos, err := svc.ListTodos(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, todos)
				}
				return printTable(cmd, todos)
			})
		},
	}
	listCmd.Flags().Bool("json", false, "Print todos as JSON")

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ports.CreateTodoRequest{Title: args[0]}
			if cmd.Flags().Changed("due") {
				due, _ := cmd.Flags().GetString("due")
				req.DueAt = &due
			}
			return withTodoService(cmd, func(ctx context.Context, svc *services.TodoService) error {
				todo, err := svc.CreateTodo(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd, todo)
			})
		},
	}
	addCmd.Flags().String("due", "", "Due date in ISO-8601 format")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title, due date or completion of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := updateRequestFromFlags(cmd)
			if err != nil {
				return err
			}
			return withTodoService(cmd, func(ctx context.Context, svc *services.TodoService) error {
				todo, err := svc.UpdateTodo(ctx, args[0], req)
				if err != nil {
					return err
				}
				return printJSON(cmd, todo)
			})
		},
	}
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("due", "", "New due date in ISO-8601 format, empty to clear")
	updateCmd.Flags().Bool("completed", false, "Completion state")

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completion state of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTodoService(cmd, func(ctx context.Context, svc *services.TodoService) error {
				todo, err := svc.ToggleTodo(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, todo)
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTodoService(cmd, func(ctx context.Context, svc *services.TodoService) error {
				todo, err := svc.DeleteTodo(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, todo)
			})
		},
	}

	todosCmd.AddCommand(listCmd, addCmd, updateCmd, toggleCmd, deleteCmd)
	return todosCmd
}

func updateRequestFromFlags(cmd *cobra.Command) (ports.UpdateTodoRequest, error) {
	var req ports.UpdateTodoRequest
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		req.Title = &title
	}
	if flags.Changed("due") {
		due, _ := flags.GetString("due")
		req.SetDueAt = true
		req.DueAt = &due
	}
	if flags.Changed("completed") {
		completed, _ := flags.GetBool("completed")
		req.Completed = &completed
	}

	if req.Title == nil && !req.SetDueAt && req.Completed == nil {
		return req, fmt.Errorf("nothing to update: set at least one of --title, --due, --completed")
	}
	return req, nil
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to open todo storage", "error", err)
		return err
	}
	defer repo.Close()

	todoService := services.NewTodoService(repo, appLogger)

	srv, err := server.New(cfg, todoService, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to initialize server", "error", err)
		return err
	}

	appLogger.Infow("Starting todo API server",
		"address", cfg.Server.GetAddr(),
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Driver,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(cfg.Server.GetAddr())
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Errorw("Server stopped with error", "error", err)
		return err
	}

	appLogger.Infow("Server stopped")
	return nil
}

// withTodoService opens the configured storage for the duration of fn.
// Only warnings and errors are logged so command output stays readable.
func withTodoService(cmd *cobra.Command, fn func(ctx context.Context, svc *services.TodoService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := cfg.Logger
	logCfg.Level = "warn"
	logCfg.Format = "console"
	appLogger, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, err := repository.Open(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(ctx, services.NewTodoService(repo, appLogger))
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(cmd *cobra.Command, todos []entities.Todo) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tDUE\tTITLE")
	for _, todo := range todos {
		done := " "
		if todo.Completed {
			done = "x"
		}
		due := "-"
		if todo.DueAt != nil {
			due = *todo.DueAt
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", todo.ID, done, due, todo.Title)
	}
	return w.Flush()
}
