package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"section-mirror/core/storage"
	"section-mirror/core/utils"
	"section-mirror/feature/inventory/models"
)

// SeedItem is an item as it appears in a seed document. Count accepts a
// number or a numeric string.
type SeedItem struct {
	UUID     string `json:"uuid" yaml:"uuid"`
	Name     string `json:"name" yaml:"name"`
	Count    any    `json:"count" yaml:"count"`
	ItemType string `json:"itemType" yaml:"item_type"`
}

// SeedStore is a store with its items.
type SeedStore struct {
	UUID  string     `json:"uuid"`
	Name  string     `json:"name"`
	Items []SeedItem `json:"items"`
}

// Seed is a seed document. A document either creates a store or adds items
// to an existing one.
type Seed struct {
	Store *SeedStore `json:"store,omitempty"`
	Items []SeedItem `json:"items,omitempty"`
}

// DecodeSeed parses a JSON seed document.
func DecodeSeed(data []byte) (*Seed, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	if seed.Store == nil && len(seed.Items) == 0 {
		return nil, fmt.Errorf("seed has neither store nor items: %w", ErrInvalid)
	}
	return &seed, nil
}

// LoadSeedFile reads and decodes a seed document from disk.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed %s: %w", path, err)
	}
	return DecodeSeed(data)
}

// LoadSeedObject reads and decodes a seed document from the bucket.
func LoadSeedObject(ctx context.Context, client storage.Client, bucket, object string) (*Seed, error) {
	data, err := storage.ReadObject(ctx, client, bucket, object)
	if err != nil {
		return nil, err
	}
	return DecodeSeed(data)
}

// Model converts the seed item to a row.
func (s SeedItem) Model() (models.Item, error) {
	count := 0
	if s.Count != nil {
		n, err := utils.ToInt(s.Count)
		if err != nil {
			return models.Item{}, fmt.Errorf("item %q has count %q: %w", s.Name, utils.ToString(s.Count), ErrInvalid)
		}
		count = n
	}
	return models.Item{
		UUID:     s.UUID,
		Name:     s.Name,
		Count:    count,
		ItemType: s.ItemType,
	}, nil
}

// Models converts a list of seed items.
func Models(items []SeedItem) ([]models.Item, error) {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		m, err := it.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ApplySeed writes seed to the repository and returns the uuid of the store
// it targets. A store that already exists is left untouched, so seeding at
// every start is safe. Loose items are added to the seed's store or, when the
// seed has none, to storeUUID.
func ApplySeed(ctx context.Context, repo *Repository, seed *Seed, storeUUID string) (string, error) {
	if seed.Store != nil {
		target, err := applySeedStore(ctx, repo, seed.Store)
		if err != nil {
			return "", err
		}
		storeUUID = target
	}
	if len(seed.Items) == 0 {
		return storeUUID, nil
	}
	if storeUUID == "" {
		return "", fmt.Errorf("seed items need a store: %w", ErrInvalid)
	}
	items, err := Models(seed.Items)
	if err != nil {
		return "", err
	}
	if _, err := repo.AddItems(ctx, storeUUID, items); err != nil {
		return "", err
	}
	return storeUUID, nil
}

func applySeedStore(ctx context.Context, repo *Repository, s *SeedStore) (string, error) {
	if s.UUID != "" {
		_, err := repo.FindStore(ctx, s.UUID)
		if err == nil {
			return s.UUID, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	items, err := Models(s.Items)
	if err != nil {
		return "", err
	}
	store := &models.Store{UUID: s.UUID, Name: s.Name, Items: items}
	if err := repo.CreateStore(ctx, store); err != nil {
		return "", err
	}
	return store.UUID, nil
}
