package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerstat/internal/adapter/http/dto"
	postgresRepo "github.com/iho/ledgerstat/internal/adapter/repository/postgres"
	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/logger"
	"github.com/iho/ledgerstat/internal/usecase"
)

const defaultCurrency = "CAD"

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	snapshotPath string
	demo         bool
	user         string
	from         string
	to           string
	months       int
	asJSON       bool
	logLevel     string

	now func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &options{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "ledgerstat",
		Short: "Ledger analytics from the command line",
		Long: `Monthly summaries, trends, top-K rankings and balance reconciliation
over a ledger snapshot file. Use --demo to try it on a built-in ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.snapshotPath, "snapshot", envOr("SNAPSHOT_PATH", "ledger.json"), "Path of the ledger snapshot")
	flags.BoolVar(&opts.demo, "demo", false, "Use the built-in demo ledger instead of a snapshot")
	flags.StringVar(&opts.user, "user", "", "User ID (defaults to the snapshot's only user)")
	flags.StringVar(&opts.from, "from", "", "First month of the window, YYYY-MM")
	flags.StringVar(&opts.to, "to", "", "Last month of the window, YYYY-MM")
	flags.IntVar(&opts.months, "months", 0, fmt.Sprintf("Last N months when --from/--to are unset (default %d)", domain.DefaultMonths))
	flags.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newTrendCmd(opts),
		newPieCmd(opts),
		newTopCmd(opts),
		newAccountsCmd(opts),
		newReconcileCmd(opts),
		newDemoCmd(),
		newTokenCmd(opts),
	)

	return rootCmd
}

// session is one opened ledger with the use cases over it.
type session struct {
	ledger    *domain.Ledger
	userID    uuid.UUID
	timephase domain.Timephase
	currency  string

	analytics *usecase.AnalyticsUseCase
	reconcile *usecase.ReconciliationUseCase
}

func (o *options) loadLedger() (*domain.Ledger, error) {
	if o.demo {
		return snapshot.Demo(), nil
	}
	return snapshot.ReadFile(o.snapshotPath)
}

func (o *options) resolveUser(l *domain.Ledger) (uuid.UUID, error) {
	if o.user != "" {
		return domain.ParseUserID(o.user)
	}
	if len(l.Users) == 1 {
		return l.Users[0].ID, nil
	}
	return uuid.Nil, fmt.Errorf("snapshot has %d users, pass --user", len(l.Users))
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	l, err := o.loadLedger()
	if err != nil {
		return nil, err
	}

	userID, err := o.resolveUser(l)
	if err != nil {
		return nil, err
	}

	tp, err := dto.Window{From: o.from, To: o.to, Months: o.months}.Timephase(o.now())
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: o.logLevel, Format: "console", Output: cmd.ErrOrStderr()})
	repo := memoryRepository{ledger: l}

	currency := defaultCurrency
	if accounts := l.AccountsForUser(userID); len(accounts) > 0 && accounts[0].Currency != "" {
		currency = accounts[0].Currency
	}

	return &session{
		ledger:    l,
		userID:    userID,
		timephase: tp,
		currency:  currency,
		analytics: usecase.NewAnalyticsUseCase(repo, log, nil),
		reconcile: usecase.NewReconciliationUseCase(repo, postgresRepo.NewULIDGenerator(), log, nil),
	}, nil
}

// memoryRepository serves an already loaded ledger.
type memoryRepository struct {
	ledger *domain.Ledger
}

func (r memoryRepository) LoadLedger(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := r.ledger.User(userID); !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.ledger.ForUser(userID), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
