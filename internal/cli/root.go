package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpmoralesv/finanzas-cli/internal/config"
	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/mail"
	"github.com/jpmoralesv/finanzas-cli/pkg/notify"
	"github.com/jpmoralesv/finanzas-cli/pkg/session"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
	"github.com/jpmoralesv/finanzas-cli/pkg/stores"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "finanzas",
	Short: "Finanzas - Personal finance tracking from the terminal",
	Long: `Finanzas talks to your personal finance API: accounts, transactions,
categories, budgets, goals, bets and debts, plus client-local alerts
with optional email reminders.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.finanzas/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// app bundles the wired collaborators behind every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Store
	client  *api.Client
	session *session.Session
}

// newApp loads config and wires storage, API client and session.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	store, err := storage.NewSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	timeout, _ := time.ParseDuration(cfg.API.Timeout)
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := api.New(cfg.API.BaseURL, store, logger, api.WithTimeout(timeout))

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		client:  client,
		session: session.New(client, store, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("close store", "error", err)
	}
}

func (a *app) accounts() *stores.Accounts { return stores.NewAccounts(a.client, a.logger) }
func (a *app) transactions() *stores.Transactions {
	return stores.NewTransactions(a.client, a.logger)
}
func (a *app) categories() *stores.Categories { return stores.NewCategories(a.client, a.logger) }
func (a *app) secondaryCategories() *stores.SecondaryCategories {
	return stores.NewSecondaryCategories(a.client, a.logger)
}
func (a *app) budgets() *stores.Budgets { return stores.NewBudgets(a.client, a.logger) }
func (a *app) goals() *stores.Goals     { return stores.NewGoals(a.client, a.logger) }
func (a *app) bets() *stores.Bets       { return stores.NewBets(a.client, a.logger) }
func (a *app) debts() *stores.Debts     { return stores.NewDebts(a.client, a.logger) }

// mailer returns the email adapter, nil when email is disabled.
func (a *app) mailer() notify.Mailer {
	if !a.cfg.Email.Enabled {
		return nil
	}
	return mail.New(mail.Config{
		Endpoint:         a.cfg.Email.Endpoint,
		ServiceID:        a.cfg.Email.ServiceID,
		UserID:           a.cfg.Email.UserID,
		DebtTemplateID:   a.cfg.Email.DebtTemplateID,
		BudgetTemplateID: a.cfg.Email.BudgetTemplateID,
	}, a.store, a.logger)
}
