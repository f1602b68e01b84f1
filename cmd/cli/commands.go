package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerstat/internal/adapter/http/dto"
	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
	"github.com/iho/ledgerstat/internal/usecase"
)

// filterFlags are the --account/--category pair shared by several commands.
type filterFlags struct {
	account  int64
	category string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.account, "account", 0, "Restrict to one account ID")
	cmd.Flags().StringVar(&f.category, "category", "", `Restrict to one category ID ("none" for uncategorized)`)
}

func (f *filterFlags) filter(cmd *cobra.Command) (analytics.Filter, error) {
	var filter analytics.Filter
	if cmd.Flags().Changed("account") {
		filter = filter.WithAccount(f.account)
	}
	key, err := parseCategoryFlag(f.category)
	if err != nil {
		return filter, err
	}
	if key != nil {
		filter = filter.WithCategory(*key)
	}
	return filter, nil
}

func parseCategoryFlag(val string) (*domain.CategoryKey, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "":
		return nil, nil
	case dto.UncategorizedKey:
		key := domain.Uncategorized
		return &key, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --category %q", val)
	}
	key := domain.CategoryKeyOf(&id)
	return &key, nil
}

func newSummaryCmd(opts *options) *cobra.Command {
	var (
		purpose string
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total spending, income or net over the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := domain.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			filter, err := filters.filter(cmd)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			summary, err := s.analytics.Summary(cmd.Context(), s.query(filter, p))
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), dto.SummaryFromUseCase(summary))
			}
			fmt.Fprintln(cmd.OutOrStdout(), summarySentence(summary, s.currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "outcome", "outcome, income or net")
	filters.register(cmd)
	return cmd
}

func newTrendCmd(opts *options) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Month by month income, spending and net",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filters.filter(cmd)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			trend, err := s.analytics.LineTrend(cmd.Context(), s.query(filter, domain.PurposeOutcome))
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), dto.TrendFromUseCase(trend, false, dto.MonthKey))
			}
			return printFlowTable(cmd.OutOrStdout(), "MONTH", trend.Labels, trend.Trend, s.currency, false)
		},
	}

	filters.register(cmd)
	return cmd
}

func newPieCmd(opts *options) *cobra.Command {
	var (
		normalize bool
		filters   filterFlags
	)

	cmd := &cobra.Command{
		Use:       "pie categories|accounts",
		Short:     "Totals per category or per account over the window",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"categories", "accounts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := filters.filter(cmd)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			q := s.query(filter, domain.PurposeOutcome)
			q.Normalize = normalize

			switch args[0] {
			case "categories":
				trend, err := s.analytics.CategoryPie(cmd.Context(), q)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), dto.TrendFromUseCase(trend, normalize, dto.CategoryKey))
				}
				return printFlowTable(cmd.OutOrStdout(), "CATEGORY", trend.Labels, trend.Trend, s.currency, normalize)
			case "accounts":
				trend, err := s.analytics.AccountPie(cmd.Context(), q)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), dto.TrendFromUseCase(trend, normalize, dto.AccountKey))
				}
				return printFlowTable(cmd.OutOrStdout(), "ACCOUNT", trend.Labels, trend.Trend, s.currency, normalize)
			default:
				return fmt.Errorf("unknown pie %q, want categories or accounts", args[0])
			}
		},
	}

	cmd.Flags().BoolVar(&normalize, "normalize", false, "Scale every series to shares summing to 1")
	filters.register(cmd)
	return cmd
}

func newTopCmd(opts *options) *cobra.Command {
	var (
		k         int
		purpose   string
		normalize bool
		filters   filterFlags
	)

	cmd := &cobra.Command{
		Use:       "top categories|accounts",
		Short:     "The K largest categories or accounts over the window",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"categories", "accounts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			filter, err := filters.filter(cmd)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			q := s.query(filter, p)
			q.K = k
			q.Normalize = normalize

			switch args[0] {
			case "categories":
				trend, err := s.analytics.TopCategories(cmd.Context(), q)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), dto.TrendFromUseCase(trend, normalize, dto.CategoryKey))
				}
				printTopList(cmd.OutOrStdout(), trend.Labels, trend.Series(p), p, normalize, s.currency)
				return nil
			case "accounts":
				trend, err := s.analytics.TopAccounts(cmd.Context(), q)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), dto.TrendFromUseCase(trend, normalize, dto.AccountKey))
				}
				printTopList(cmd.OutOrStdout(), trend.Labels, trend.Series(p), p, normalize, s.currency)
				return nil
			default:
				return fmt.Errorf("unknown ranking %q, want categories or accounts", args[0])
			}
		},
	}

	cmd.Flags().IntVar(&k, "k", domain.DefaultTopK, "Number of entries to keep")
	cmd.Flags().StringVar(&purpose, "purpose", "outcome", "outcome, income or net")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Scale the ranked series to shares summing to 1")
	filters.register(cmd)
	return cmd
}

func newAccountsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Every account with its current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			accounts, err := s.analytics.Accounts(cmd.Context(), s.userID)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), dto.AccountsFromAnalytics(accounts))
			}
			return printAccounts(cmd.OutOrStdout(), accounts)
		},
	}
}

func newReconcileCmd(opts *options) *cobra.Command {
	var (
		balance string
		account int64
		topK    int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the ledger with an external balance and list likely culprits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			external, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("%w: --balance %q", domain.ErrInvalidAmount, balance)
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			req := usecase.ReconcileRequest{
				UserID:          s.userID,
				ExternalBalance: external,
				Timephase:       s.timephase,
				TopK:            topK,
			}
			if cmd.Flags().Changed("account") {
				req.AccountID = &account
			}

			report, err := s.reconcile.Reconcile(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), dto.ReconcileFromUseCase(report))
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "", "External balance to compare with")
	cmd.Flags().Int64Var(&account, "account", 0, "Reconcile one account instead of all of them")
	cmd.Flags().IntVar(&topK, "top-k", domain.ReconcileTopK, "Number of suspicious entries to list")
	_ = cmd.MarkFlagRequired("balance")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the built-in demo ledger as a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out != "" {
				if err := snapshot.WriteFile(out, snapshot.Demo()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Demo ledger written to %s\n", out)
				return nil
			}
			return snapshot.Encode(cmd.OutOrStdout(), snapshot.Demo())
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the snapshot to a file instead of stdout")
	return cmd
}

func newTokenCmd(opts *options) *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			l, err := opts.loadLedger()
			if err != nil {
				return err
			}
			userID, err := opts.resolveUser(l)
			if err != nil {
				return err
			}
			user, ok := l.User(userID)
			if !ok {
				return domain.ErrUserNotFound
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", envOr("JWT_SECRET", ""), "HMAC secret shared with the server")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func (s *session) query(filter analytics.Filter, purpose domain.Purpose) usecase.Query {
	return usecase.Query{
		UserID:    s.userID,
		Timephase: s.timephase,
		Filter:    filter,
		Purpose:   purpose,
		K:         domain.DefaultTopK,
	}
}
