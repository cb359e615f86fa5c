package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"billing/internal/config"
	"billing/internal/invoice"
	"billing/internal/logger"
	"billing/internal/profile"
	"billing/internal/store"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "billing",
	Short: "Billing - create and track invoices from the command line",
	Long: `Billing keeps a business profile and a collection of invoices in a local
record store and computes every total for you.

Invoices come in three shapes: hotel stays (room, check-in, check-out,
nights), grocery sales (unit or weight based quantities) and custom
invoices with free-form fields. Reports summarise revenue over time, by
billing type and by customer; exports produce CSV, printable HTML and
Google Sheets rows.

Records are stored as JSON files in the data directory by default.
Set BILLING_STORE=sqlite to keep them in a SQLite database instead.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "Record store backend: file, sqlite or memory (default from BILLING_STORE)")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default from BILLING_DATA_DIR)")
}

// app holds the services a command works with.
type app struct {
	cfg      *config.Config
	store    store.Store
	invoices *invoice.Service
	profiles *profile.Manager
}

// openApp loads the configuration, applies the global flags and opens the record store.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		cfg.Store = backend
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, handleBillingError(err, logger.WithComponent("cmd"))
	}

	return &app{
		cfg:      cfg,
		store:    st,
		invoices: invoice.NewService(st),
		profiles: profile.NewManager(st),
	}, nil
}

// Close releases the record store.
func (a *app) Close() {
	if c, ok := a.store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			logger.Error(err, "Failed to close record store")
		}
	}
}
