package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteRoundTrip(t *testing.T) {
	j := newTestJournal(t)

	run := RunRecord{
		RunID:             "01RUN",
		Started:           time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
		Direction:         "increase",
		Percentage:        "5",
		DryRun:            false,
		Cash:              "5000",
		EstimatedCost:     "875",
		EstimatedProceeds: "0",
	}
	require.NoError(t, j.RecordRun(run))

	orders := []OrderRecord{
		{OrderID: "01A", RunID: "01RUN", Symbol: "AAPL", Side: "buy",
			Quantity: "5", Price: "175", Notional: "875", Status: "executed", Detail: "filled"},
		{OrderID: "01B", RunID: "01RUN", Symbol: "TSLA", Side: "buy",
			Quantity: "2", Price: "250", Notional: "500", Status: "skipped"},
	}
	for _, o := range orders {
		require.NoError(t, j.RecordOrder(o))
	}

	got, err := j.OrdersByRun("01RUN")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "executed", got[0].Status)
	assert.Equal(t, "filled", got[0].Detail)
	assert.Equal(t, "skipped", got[1].Status)
}

func TestSQLiteDuplicateRunID(t *testing.T) {
	j := newTestJournal(t)

	run := RunRecord{RunID: "01RUN", Started: time.Now(), Direction: "decrease",
		Percentage: "10", Cash: "0", EstimatedCost: "0", EstimatedProceeds: "1250"}
	require.NoError(t, j.RecordRun(run))
	assert.Error(t, j.RecordRun(run))
}

func TestSQLiteOrdersByRunEmpty(t *testing.T) {
	j := newTestJournal(t)

	got, err := j.OrdersByRun("missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
