package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/ordermgmt/pkg/database"
	"github.com/shashiranjanraj/ordermgmt/pkg/migration"
)

// Command returns the root CLI command.
func (a *Application) Command(name string) *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         "Order management API",
		SilenceUsage: true,
	}

	root.AddCommand(
		a.serveCmd(),
		migrateCmd(),
		migrateRollbackCmd(),
		migrateStatusCmd(),
		a.seedCmd(),
		a.routeListCmd(),
	)
	root.AddCommand(a.commands...)
	return root
}

func (a *Application) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"run", "start"},
		Short:   "Start the HTTP server (and the gRPC health server when GRPC_PORT is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
}

// withDB runs fn between Boot and Shutdown.
func withDB(fn func() error) error {
	if err := Boot(); err != nil {
		return err
	}
	defer Shutdown()
	return fn()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func() error {
				return migration.New(database.DB).Run()
			})
		},
	}
}

func migrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate:rollback",
		Aliases: []string{"migrate:down"},
		Short:   "Roll back the last batch of migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func() error {
				return migration.New(database.DB).Rollback()
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func() error {
				return migration.New(database.DB).PrintStatus()
			})
		},
	}
}

func (a *Application) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run the database seeders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.seed == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No seeders registered.")
				return nil
			}
			return withDB(func() error {
				return a.seed(contextOf(cmd), database.DB)
			})
		},
	}
}

func (a *Application) routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List every registered route",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.Router(nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range r.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Main executes root and exits non-zero on failure.
func Main(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
