package models

// Store owns the items mirrored by the application.
type Store struct {
	ID    uint   `gorm:"primaryKey" json:"-"`
	UUID  string `gorm:"size:36;uniqueIndex" json:"uuid"`
	Name  string `gorm:"size:255" json:"name"`
	Items []Item `gorm:"foreignKey:StoreID" json:"items,omitempty"`
}

// TableName overrides the table name used by Store to `stores`.
func (Store) TableName() string { return "stores" }

// Item is a grocery item. Items of a store are sectioned by ItemType and
// ordered by Name.
type Item struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	UUID     string `gorm:"size:36;uniqueIndex" json:"uuid"`
	Name     string `gorm:"size:255;index" json:"name"`
	Count    int    `json:"count"`
	ItemType string `gorm:"size:64;index" json:"item_type"`
	StoreID  uint   `gorm:"index" json:"-"`
}

// TableName overrides the table name used by Item to `items`.
func (Item) TableName() string { return "items" }

// SameContent reports whether two rows carry the same user-visible values.
func (i Item) SameContent(o Item) bool {
	return i.Name == o.Name && i.Count == o.Count && i.ItemType == o.ItemType && i.StoreID == o.StoreID
}

// ItemColumns lists the columns the fetch query depends on.
var ItemColumns = []string{"id", "uuid", "name", "count", "item_type", "store_id"}
