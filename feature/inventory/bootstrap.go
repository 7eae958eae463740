package inventory

import (
	"context"
	"fmt"

	"section-mirror/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Prepare migrates the schema, applies the configured seed and returns the
// uuid of the store to mirror. The configured store uuid wins over the seed's.
func Prepare(ctx context.Context, db *gorm.DB, cfg Config, client storage.Client, bucket string, logger *zap.Logger) (string, error) {
	if err := Migrate(db); err != nil {
		return "", err
	}

	var seed *Seed
	var err error
	switch {
	case cfg.SeedPath != "":
		seed, err = LoadSeedFile(cfg.SeedPath)
	case cfg.SeedObject != "":
		if client == nil {
			return "", fmt.Errorf("seed object %s needs storage", cfg.SeedObject)
		}
		seed, err = LoadSeedObject(ctx, client, bucket, cfg.SeedObject)
	}
	if err != nil {
		return "", err
	}

	storeUUID := cfg.StoreUUID
	if seed != nil {
		seeded, err := ApplySeed(ctx, NewRepository(db), seed, storeUUID)
		if err != nil {
			return "", err
		}
		logger.Info("Applied seed", zap.String("store", seeded))
		if storeUUID == "" {
			storeUUID = seeded
		}
	}
	if storeUUID == "" {
		return "", fmt.Errorf("no store configured: set inventory.store_uuid or a seed: %w", ErrInvalid)
	}
	return storeUUID, nil
}
