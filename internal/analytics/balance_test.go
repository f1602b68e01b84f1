package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
)

func TestCalBalance(t *testing.T) {
	engine := analytics.New(demoLedger())

	require.True(t, engine.CalBalance(checkingID).Equal(dec("250")))
	require.True(t, engine.CalBalance(creditID).Equal(dec("-10")))
	require.True(t, engine.CalBalance(404).IsZero())
}

func TestCalBalanceIgnoresWindowAndOrphans(t *testing.T) {
	b := newLedgerBuilder()
	b.post(demoUser, date(2019, time.March, 1), checkingID, nil, "-100")
	b.post(demoUser, date(2031, time.March, 1), checkingID, nil, "40")
	b.orphan(demoUser, checkingID, "-5")
	engine := analytics.New(b.build())

	// All-time: opening 1000, -100, +40, and the orphan still posts to the account.
	require.True(t, engine.CalBalance(checkingID).Equal(dec("935")))
}

func TestAllAccountSummary(t *testing.T) {
	engine := analytics.New(demoLedger())

	summaries := engine.AllAccountSummary(demoUser)

	require.Len(t, summaries, 2)
	require.Equal(t, "Chequing", summaries[0].Name)
	require.Equal(t, domain.AccountChecking, summaries[0].Type)
	require.Equal(t, "CAD", summaries[0].Currency)
	require.True(t, summaries[0].Balance.Equal(dec("250")))
	require.Equal(t, creditID, summaries[1].AccountID)
	require.True(t, summaries[1].Balance.Equal(dec("-10")))

	require.Empty(t, engine.AllAccountSummary(otherUser))
}
