package journal

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTradesCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := sampleTrade()
	tr.Tags = []string{"FOMO", "Disciplined"}
	require.NoError(t, WriteTradesCSV(&buf, []Trade{tr}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, TradeCSVHeader, rows[0])
	assert.Equal(t, []string{
		"42", "acct-1", "2024-05-17", "XAUUSD", "Sell", "2030.5", "2025", "2035", "1",
		"550.00", "Win", "FOMO;Disciplined", "followed the plan",
	}, rows[1])
}

func TestWriteTradesCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
