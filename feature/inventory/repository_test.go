package inventory_test

import (
	"context"
	"regexp"
	"testing"

	"section-mirror/feature/inventory"
	"section-mirror/feature/inventory/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestRepository_ListItemsOrder(t *testing.T) {
	repo := seededRepo(t)

	items, err := repo.ListItems(context.Background(), groceryUUID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Apple", "Banana", "Cherry", "Asparagus", "Broccoli", "Celery"}, names(items))
}

func TestRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)

	_, err := repo.ListItems(ctx, "missing")
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	_, err = repo.AddItems(ctx, "missing", []models.Item{{Name: "Fig", ItemType: "fruit"}})
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteItem(ctx, "missing"), inventory.ErrNotFound)

	count := 1
	_, err = repo.UpdateItem(ctx, "missing", inventory.ItemPatch{Count: &count})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestRepository_UpdateItem(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)
	items, err := repo.ListItems(ctx, groceryUUID)
	require.NoError(t, err)

	empty := ""
	_, err = repo.UpdateItem(ctx, items[0].UUID, inventory.ItemPatch{Name: &empty})
	assert.ErrorIs(t, err, inventory.ErrInvalid)

	name, kind := "Apricot", "stone fruit"
	updated, err := repo.UpdateItem(ctx, items[0].UUID, inventory.ItemPatch{Name: &name, ItemType: &kind})
	require.NoError(t, err)
	assert.Equal(t, "Apricot", updated.Name)
	assert.Equal(t, "stone fruit", updated.ItemType)
	assert.Equal(t, items[0].Count, updated.Count)
}

func TestRepository_DeleteItemsByType(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)

	n, err := repo.DeleteItemsByType(ctx, groceryUUID, "fruit")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repo.DeleteItemsByType(ctx, groceryUUID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	items, err := repo.ListItems(ctx, groceryUUID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_GeneratesUUIDs(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)

	added, err := repo.AddItems(ctx, groceryUUID, []models.Item{{Name: "Fig", ItemType: "fruit"}})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Len(t, added[0].UUID, 36)
	assert.NotZero(t, added[0].StoreID)
}

func TestMigrate_MySQLMissingColumns(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	// Fail AutoMigrate early so the error path is exercised without replaying
	// every DDL statement.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DATABASE()")).WillReturnError(assert.AnError)

	err = inventory.Migrate(db)
	assert.ErrorContains(t, err, "failed to migrate inventory tables")
}
