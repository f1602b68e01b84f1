package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("ledgerstat %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestSummarySentences(t *testing.T) {
	tests := []struct {
		purpose string
		want    string
	}{
		{"outcome", "Total spending from 2025-10 to 2025-12 is 2312.30 CAD.\n"},
		{"income", "Total income from 2025-10 to 2025-12 is 9645.00 CAD.\n"},
		{"net", "Total net income/outcome from 2025-10 to 2025-12 is 7332.70 CAD.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			out := mustRun(t, "summary", "--demo", "--from", "2025-10", "--to", "2025-12", "--purpose", tt.purpose)
			if out != tt.want {
				t.Fatalf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestSummaryReversedWindow(t *testing.T) {
	out := mustRun(t, "summary", "--demo", "--from", "2025-12", "--to", "2025-10")
	if !strings.HasPrefix(out, "Total spending from 2025-10 to 2025-12") {
		t.Fatalf("expected reordered window, got %q", out)
	}
}

func TestSummaryFilters(t *testing.T) {
	out := mustRun(t, "summary", "--demo", "--from", "2025-12", "--to", "2025-12", "--account", "2")
	if out != "Total spending from 2025-12 to 2025-12 is 10.00 CAD.\n" {
		t.Fatalf("unexpected account summary %q", out)
	}

	out = mustRun(t, "summary", "--demo", "--from", "2025-11", "--to", "2025-11", "--category", "none", "--purpose", "income")
	if out != "Total income from 2025-11 to 2025-11 is 45.00 CAD.\n" {
		t.Fatalf("unexpected uncategorized summary %q", out)
	}

	if _, err := runCLI(t, "summary", "--demo", "--category", "food"); err == nil {
		t.Fatal("expected error for non-numeric category")
	}
}

func TestSummaryJSON(t *testing.T) {
	out := mustRun(t, "summary", "--demo", "--from", "2025-12", "--to", "2025-12", "--json")

	var resp struct {
		Purpose string `json:"purpose"`
		Total   string `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if resp.Purpose != "outcome" || resp.Total != "-760" {
		t.Fatalf("unexpected summary %+v", resp)
	}
}

func TestTopCategories(t *testing.T) {
	out := mustRun(t, "top", "categories", "--demo", "--from", "2025-10", "--to", "2025-12", "--k", "2")

	want := "- Rent:2100.00CAD\n- Food:205.55CAD\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestTopAccountsIncome(t *testing.T) {
	out := mustRun(t, "top", "accounts", "--demo", "--from", "2025-10", "--to", "2025-12", "--k", "1", "--purpose", "income")
	if out != "- Chequing:9645.00CAD\n" {
		t.Fatalf("unexpected ranking %q", out)
	}
}

func TestTopRejectsUnknownAxis(t *testing.T) {
	if _, err := runCLI(t, "top", "payees", "--demo"); err == nil {
		t.Fatal("expected error for unknown axis")
	}
}

func TestTrendTable(t *testing.T) {
	out := mustRun(t, "trend", "--demo", "--from", "2025-10", "--to", "2025-12")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, three months and a total, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "MONTH") || !strings.Contains(lines[1], "2025-10") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if !strings.Contains(lines[4], "2312.30") {
		t.Fatalf("expected spending total in %q", lines[4])
	}
}

func TestPieNormalizedJSON(t *testing.T) {
	out := mustRun(t, "pie", "categories", "--demo", "--from", "2025-12", "--to", "2025-12", "--normalize", "--json")

	var resp struct {
		Normalized bool `json:"normalized"`
		Points     []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		} `json:"points"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if !resp.Normalized {
		t.Fatal("expected normalized trend")
	}
	labels := make([]string, 0, len(resp.Points))
	for _, p := range resp.Points {
		labels = append(labels, p.Label)
	}
	if strings.Join(labels, ",") != "Food,Rent,Salary" {
		t.Fatalf("unexpected pie labels %v", labels)
	}
}

func TestAccounts(t *testing.T) {
	out := mustRun(t, "accounts", "--demo")

	if !strings.Contains(out, "Chequing") || !strings.Contains(out, "8410.80") {
		t.Fatalf("missing chequing balance:\n%s", out)
	}
	if !strings.Contains(out, "Visa") || !strings.Contains(out, "-78.10") {
		t.Fatalf("missing visa balance:\n%s", out)
	}
}

func TestReconcile(t *testing.T) {
	out := mustRun(t, "reconcile", "--demo", "--from", "2025-12", "--to", "2025-12", "--account", "1", "--balance", "2450")
	if !strings.HasPrefix(out, "Balanced for 2025-12") {
		t.Fatalf("expected balanced report, got %q", out)
	}

	out = mustRun(t, "reconcile", "--demo", "--from", "2025-12", "--to", "2025-12", "--account", "1", "--balance", "2550", "--top-k", "1")
	if !strings.HasPrefix(out, "Out of balance for 2025-12") {
		t.Fatalf("expected discrepancy, got %q", out)
	}
	if !strings.Contains(out, "2025-12-01") || !strings.Contains(out, "Market") {
		t.Fatalf("expected the market entry as best candidate:\n%s", out)
	}
}

func TestReconcileRequiresBalance(t *testing.T) {
	if _, err := runCLI(t, "reconcile", "--demo"); err == nil {
		t.Fatal("expected error without --balance")
	}
	if _, err := runCLI(t, "reconcile", "--demo", "--balance", "lots"); err == nil {
		t.Fatal("expected error for invalid balance")
	}
}

func TestSnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	out := mustRun(t, "demo", "--out", path)
	if !strings.Contains(out, path) {
		t.Fatalf("expected confirmation, got %q", out)
	}

	out = mustRun(t, "summary", "--snapshot", path, "--from", "2025-12", "--to", "2025-12")
	if out != "Total spending from 2025-12 to 2025-12 is 760.00 CAD.\n" {
		t.Fatalf("unexpected summary from file %q", out)
	}

	if _, err := runCLI(t, "summary", "--snapshot", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestDemoPrintsSnapshot(t *testing.T) {
	out := mustRun(t, "demo")

	l, err := snapshot.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("demo output is not a snapshot: %v", err)
	}
	if len(l.Entries) != len(snapshot.Demo().Entries) {
		t.Fatalf("expected %d entries, got %d", len(snapshot.Demo().Entries), len(l.Entries))
	}
}

func TestUnknownUser(t *testing.T) {
	if _, err := runCLI(t, "summary", "--demo", "--user", "not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed user")
	}
	if _, err := runCLI(t, "summary", "--demo", "--user", "00000000-0000-0000-0000-000000000001"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := runCLI(t, "token", "--demo"); err == nil {
		t.Fatal("expected error without a secret")
	}

	out := mustRun(t, "token", "--demo", "--secret", "test-secret", "--ttl", "1h")

	claims, err := auth.NewJWTManager("test-secret", time.Hour).Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.Subject != snapshot.DemoUserID.String() {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}
