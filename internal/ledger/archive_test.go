package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vortex/internal/gateway/exchange"
)

func TestSQLiteArchiverRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	arch, err := NewSQLiteArchiver(path)
	require.NoError(t, err)
	defer arch.Close()

	arch.Offer(entryWithStatus(1, exchange.StatusFilled))
	arch.Offer(entryWithStatus(2, exchange.StatusRejected))

	var count int64
	require.NoError(t, arch.db.Model(&entryModel{}).Count(&count).Error)
	require.Equal(t, int64(2), count)

	var row entryModel
	require.NoError(t, arch.db.Where("entry_id = ?", "entry-1").First(&row).Error)
	require.Equal(t, "BTC/USDT", row.Symbol)
	require.Equal(t, string(exchange.StatusFilled), row.Status)
	require.Contains(t, string(row.Result), `"status":"FILLED"`)
}

func TestSQLiteArchiverRequiresPath(t *testing.T) {
	_, err := NewSQLiteArchiver("  ")
	require.Error(t, err)
}
