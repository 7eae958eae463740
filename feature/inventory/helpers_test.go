package inventory_test

import (
	"context"
	"testing"

	"section-mirror/core/database"
	"section-mirror/feature/inventory"
	"section-mirror/feature/inventory/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const groceryUUID = "2AB5041B-EF80-4910-8105-EC06B978C5DE"

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, inventory.Migrate(db))
	return db
}

// seededRepo returns a repository holding the grocery store of testdata/seed.json.
func seededRepo(t *testing.T) *inventory.Repository {
	t.Helper()
	repo := inventory.NewRepository(newDB(t))
	seed, err := inventory.LoadSeedFile("testdata/seed.json")
	require.NoError(t, err)
	storeUUID, err := inventory.ApplySeed(context.Background(), repo, seed, "")
	require.NoError(t, err)
	require.Equal(t, groceryUUID, storeUUID)
	return repo
}

func newService(t *testing.T) (*inventory.Service, *inventory.Repository) {
	t.Helper()
	repo := seededRepo(t)
	svc, err := inventory.NewService(context.Background(), repo, groceryUUID, nil, "", inventory.Config{JournalLimit: 100}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc, repo
}

func zapNop() *zap.Logger { return zap.NewNop() }

func names(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func sectionNames(views []inventory.SectionView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func moreItems(t *testing.T) []models.Item {
	t.Helper()
	seed, err := inventory.LoadSeedFile("testdata/more.json")
	require.NoError(t, err)
	items, err := inventory.Models(seed.Items)
	require.NoError(t, err)
	return items
}
