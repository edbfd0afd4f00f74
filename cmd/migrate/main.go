package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/review-analyzer-api/internal/infrastructure/postgres"
	"github.com/jhoicas/review-analyzer-api/pkg/config"
)

var timeout time.Duration

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Migraciones del esquema PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "tiempo máximo de la operación")

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
				applied, err := m.Up(ctx)
				for _, name := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "aplicada: %s\n", name)
				}
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
				}
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Lista las migraciones y si ya fueron aplicadas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
				list, err := m.Status(ctx)
				if err != nil {
					return err
				}
				for _, s := range list {
					state := "pendiente"
					if s.AppliedAt != nil {
						state = s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", s.Name, state)
				}
				return nil
			})
		},
	}
}

func withMigrator(parent context.Context, fn func(context.Context, *postgres.Migrator) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	var pool *pgxpool.Pool
	pool, err = postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	return fn(ctx, postgres.NewMigrator(pool))
}
