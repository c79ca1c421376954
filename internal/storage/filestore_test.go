package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
	"github.com/ksenieor-creator/telegram-bot/internal/tariff"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	s := NewFileStore(path)

	snap := ledger.Snapshot{Customers: map[string]*ledger.Customer{
		"1": {
			Name:        "ООО Ромашка",
			ActorIDs:    []string{"100", "200"},
			ProjectsSum: 75000,
			Discount:    true,
			Visits: []ledger.Visit{{
				Date:       "2026-04-10",
				Kind:       tariff.KindExact,
				Duration:   tariff.Day8,
				TariffType: tariff.TypeDiscount,
				Price:      25000,
			}},
		},
	}}

	require.NoError(t, s.SaveAll(ctx, snap))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Customers, "1")

	c := got.Customers["1"]
	assert.Equal(t, "ООО Ромашка", c.Name)
	assert.Equal(t, []string{"100", "200"}, c.ActorIDs)
	assert.Equal(t, int64(75000), c.ProjectsSum)
	assert.True(t, c.Discount)
	require.Len(t, c.Visits, 1)
	assert.Equal(t, tariff.KindExact, c.Visits[0].Kind)
	assert.Equal(t, int64(25000), c.Visits[0].Price)
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	snap, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Customers)
	assert.Empty(t, snap.Customers)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{не json"), 0o644))

	_, err := NewFileStore(path).LoadAll(context.Background())
	assert.Error(t, err)
}

// Формат файла совместим со старым data.json: плоские поля name/ids/visits.
func TestFileStoreLegacyFormat(t *testing.T) {
	raw := `{
  "customers": {
    "3": {
      "name": "ИП Иванов",
      "ids": ["424242"],
      "projects_sum": 0,
      "discount": false,
      "visits": [
        {"date": "free", "kind": "free", "duration": "4", "tariff_type": "standard", "price": 22000}
      ]
    }
  }
}`
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	snap, err := NewFileStore(path).LoadAll(context.Background())
	require.NoError(t, err)
	c := snap.Customers["3"]
	require.NotNil(t, c)
	assert.Equal(t, "ИП Иванов", c.Name)
	assert.Equal(t, []string{"424242"}, c.ActorIDs)
	require.Len(t, c.Visits, 1)
	assert.Equal(t, ledger.FreeDate, c.Visits[0].Date)
	assert.Equal(t, int64(22000), c.Visits[0].Price)
}

func TestFileStoreNoTmpLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	s := NewFileStore(path)

	snap := ledger.Snapshot{Customers: map[string]*ledger.Customer{}}
	require.NoError(t, s.SaveAll(context.Background(), snap))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.json", entries[0].Name())
}
