package inventory

import (
	"context"
	"errors"
	"fmt"

	"section-mirror/core/database"
	"section-mirror/feature/inventory/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a store or item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for malformed input.
	ErrInvalid = errors.New("invalid input")
)

// Migrate creates or updates the inventory tables and verifies the columns
// the fetch query depends on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Store{}, &models.Item{}); err != nil {
		return fmt.Errorf("failed to migrate inventory tables: %w", err)
	}
	missing, err := database.MissingColumns(db, models.Item{}.TableName(), models.ItemColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("items table is missing columns %v", missing)
	}
	return nil
}

// Repository performs inventory reads and writes.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateStore inserts a store together with its items. Missing uuids are
// generated.
func (r *Repository) CreateStore(ctx context.Context, store *models.Store) error {
	if store.UUID == "" {
		store.UUID = uuid.NewString()
	}
	for i := range store.Items {
		if err := prepareItem(&store.Items[i]); err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store %s: %w", store.UUID, err)
	}
	return nil
}

// FindStore loads a store by uuid without its items.
func (r *Repository) FindStore(ctx context.Context, storeUUID string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("uuid = ?", storeUUID).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("store %s: %w", storeUUID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store %s: %w", storeUUID, err)
	}
	return &store, nil
}

// ListItems returns the items of a store ordered by item type, then name.
func (r *Repository) ListItems(ctx context.Context, storeUUID string) ([]models.Item, error) {
	store, err := r.FindStore(ctx, storeUUID)
	if err != nil {
		return nil, err
	}
	var items []models.Item
	err = r.db.WithContext(ctx).
		Where("store_id = ?", store.ID).
		Order("item_type ASC").
		Order("name ASC").
		Order("uuid ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items of store %s: %w", storeUUID, err)
	}
	return items, nil
}

// AddItems inserts items into a store and returns them with ids and uuids set.
func (r *Repository) AddItems(ctx context.Context, storeUUID string, items []models.Item) ([]models.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	store, err := r.FindStore(ctx, storeUUID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if err := prepareItem(&items[i]); err != nil {
			return nil, err
		}
		items[i].StoreID = store.ID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to add items to store %s: %w", storeUUID, err)
	}
	return items, nil
}

// DeleteItem removes one item by uuid.
func (r *Repository) DeleteItem(ctx context.Context, itemUUID string) error {
	res := r.db.WithContext(ctx).Where("uuid = ?", itemUUID).Delete(&models.Item{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemUUID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", itemUUID, ErrNotFound)
	}
	return nil
}

// DeleteItemsByType removes every item of the given type from a store. An
// empty itemType removes all items of the store.
func (r *Repository) DeleteItemsByType(ctx context.Context, storeUUID, itemType string) (int64, error) {
	store, err := r.FindStore(ctx, storeUUID)
	if err != nil {
		return 0, err
	}
	q := r.db.WithContext(ctx).Where("store_id = ?", store.ID)
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	res := q.Delete(&models.Item{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete items of store %s: %w", storeUUID, res.Error)
	}
	return res.RowsAffected, nil
}

// ItemPatch lists the fields to change on an item. Nil fields are kept.
type ItemPatch struct {
	Name     *string `json:"name,omitempty" yaml:"name,omitempty"`
	Count    *int    `json:"count,omitempty" yaml:"count,omitempty"`
	ItemType *string `json:"item_type,omitempty" yaml:"item_type,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Count == nil && p.ItemType == nil
}

// UpdateItem applies patch to the item with the given uuid.
func (r *Repository) UpdateItem(ctx context.Context, itemUUID string, patch ItemPatch) (*models.Item, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("empty patch for item %s: %w", itemUUID, ErrInvalid)
	}
	var item models.Item
	err := r.db.WithContext(ctx).Where("uuid = ?", itemUUID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %s: %w", itemUUID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %s: %w", itemUUID, err)
	}

	updates := map[string]any{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("item name must not be empty: %w", ErrInvalid)
		}
		updates["name"] = *patch.Name
	}
	if patch.Count != nil {
		updates["count"] = *patch.Count
	}
	if patch.ItemType != nil {
		if *patch.ItemType == "" {
			return nil, fmt.Errorf("item type must not be empty: %w", ErrInvalid)
		}
		updates["item_type"] = *patch.ItemType
	}
	if err := r.db.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", itemUUID, err)
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Count != nil {
		item.Count = *patch.Count
	}
	if patch.ItemType != nil {
		item.ItemType = *patch.ItemType
	}
	return &item, nil
}

func prepareItem(item *models.Item) error {
	if item.Name == "" {
		return fmt.Errorf("item name must not be empty: %w", ErrInvalid)
	}
	if item.ItemType == "" {
		return fmt.Errorf("item %q has no item type: %w", item.Name, ErrInvalid)
	}
	if item.UUID == "" {
		item.UUID = uuid.NewString()
	}
	return nil
}
