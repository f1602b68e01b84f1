package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/usecase"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// summarySentence reports spending as a positive amount.
func summarySentence(s *usecase.Summary, currency string) string {
	from, to := s.Timephase.Start, s.Timephase.End
	switch s.Purpose {
	case domain.PurposeIncome:
		return fmt.Sprintf("Total income from %s to %s is %s %s.", from, to, s.Total.StringFixed(2), currency)
	case domain.PurposeNet:
		return fmt.Sprintf("Total net income/outcome from %s to %s is %s %s.", from, to, s.Total.StringFixed(2), currency)
	default:
		return fmt.Sprintf("Total spending from %s to %s is %s %s.", from, to, s.Total.Neg().StringFixed(2), currency)
	}
}

func printFlowTable[K comparable](w io.Writer, axis string, labels []string, t analytics.Trend[K], currency string, normalized bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tINCOME\tSPENDING\tNET\t\n", axis)
	for i := range t.Axis {
		if normalized {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", labels[i], share(t.Income[i]), share(t.Outcome[i]), share(t.Summary[i]))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", labels[i], t.Income[i].StringFixed(2), t.Outcome[i].Neg().StringFixed(2), t.Summary[i].StringFixed(2))
	}

	totals := t.Totals()
	if !normalized {
		fmt.Fprintf(tw, "TOTAL (%s)\t%s\t%s\t%s\t\n", currency, totals.Income.StringFixed(2), totals.Outcome.Neg().StringFixed(2), totals.Net.StringFixed(2))
	}
	return tw.Flush()
}

func printTopList(w io.Writer, labels []string, series []decimal.Decimal, purpose domain.Purpose, normalized bool, currency string) {
	if len(labels) == 0 {
		fmt.Fprintln(w, "No entries in this window.")
		return
	}
	for i, label := range labels {
		if normalized {
			fmt.Fprintf(w, "- %s:%s\n", label, share(series[i]))
			continue
		}
		v := series[i]
		if purpose == domain.PurposeOutcome {
			v = v.Neg()
		}
		fmt.Fprintf(w, "- %s:%s%s\n", label, v.StringFixed(2), currency)
	}
}

func printAccounts(w io.Writer, accounts []analytics.AccountSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tBALANCE\tCURRENCY")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.AccountID, a.Name, a.Type, a.Balance.StringFixed(2), a.Currency)
	}
	return tw.Flush()
}

func printReport(w io.Writer, r *usecase.ReconciliationReport) error {
	fmt.Fprintln(w, r.String())
	if len(r.SuspiciousEntries) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tACCOUNT\tCATEGORY\tAMOUNT\tSCORE\tPAYEE")
	for _, e := range r.SuspiciousEntries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.OccurDate.Format(time.DateOnly),
			e.AccountName,
			e.CategoryName,
			e.Amount.StringFixed(2),
			e.Score.StringFixed(2),
			truncate(deref(e.Payee), 24),
		)
	}
	return tw.Flush()
}

func share(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
