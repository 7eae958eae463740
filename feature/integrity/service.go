package integrity

import (
	"context"
	"fmt"

	"section-mirror/core/storage"
	"section-mirror/feature/integrity/checks"
	"section-mirror/feature/inventory"
	"section-mirror/feature/inventory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
	mirror *inventory.Service
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, mirror *inventory.Service) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
		mirror: mirror,
	}
}

// CheckSchema verifies the inventory tables.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, &models.Store{}, &models.Item{})
}

// CheckStorage verifies the bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// CheckMirror compares the mirror with the database.
func (s *Service) CheckMirror(ctx context.Context) (*checks.MirrorReport, error) {
	if s.mirror == nil {
		return nil, fmt.Errorf("mirror is not running")
	}
	rows, err := inventory.NewRepository(s.db).ListItems(ctx, s.mirror.StoreUUID())
	if err != nil {
		return nil, err
	}
	return checks.CheckMirror(s.mirror.Sections(), rows), nil
}

// FixMirror delivers pending database changes to the mirror.
func (s *Service) FixMirror(ctx context.Context) (int, error) {
	if s.mirror == nil {
		return 0, fmt.Errorf("mirror is not running")
	}
	return s.mirror.Refresh(ctx)
}
