package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"section-mirror/core/reconcile"
	"section-mirror/core/storage"
	"section-mirror/feature/inventory/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrExportDisabled is returned by ExportSnapshot when no storage is configured.
var ErrExportDisabled = errors.New("snapshot export is not configured")

// SectionView is a copy of one mirrored section.
type SectionView struct {
	Name  string        `json:"name"`
	Items []models.Item `json:"items"`
}

// Snapshot is the exported state of the mirror.
type Snapshot struct {
	Store    string        `json:"store"`
	TakenAt  time.Time     `json:"taken_at"`
	Journal  int64         `json:"journal_seq"`
	Sections []SectionView `json:"sections"`
}

// Service owns the mirror of one store. Every write goes to the database and
// is then delivered to the mirror as one batch, all under a single lock.
type Service struct {
	mu      sync.Mutex
	repo    *Repository
	source  *FetchedResults
	mirror  *reconcile.Results[*models.Item]
	journal *Journal

	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger

	exports singleflight.Group
}

// NewService builds the mirror of the store with the given uuid. client may
// be nil, which disables snapshot export.
func NewService(ctx context.Context, repo *Repository, storeUUID string, client storage.Client, bucket string, cfg Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("store", storeUUID))

	source := NewFetchedResults(repo, storeUUID, logger)
	mirror, err := reconcile.New(ctx, source, reconcile.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Service{
		repo:    repo,
		source:  source,
		mirror:  mirror,
		journal: NewJournal(mirror, cfg.JournalLimit, logger),
		client:  client,
		bucket:  bucket,
		prefix:  cfg.SnapshotPrefix,
		logger:  logger,
	}, nil
}

// StoreUUID returns the uuid of the mirrored store.
func (s *Service) StoreUUID() string { return s.source.StoreUUID() }

// Mirror returns the underlying mirror. Callers must not use it concurrently
// with the service.
func (s *Service) Mirror() *reconcile.Results[*models.Item] { return s.mirror }

// Close detaches the mirror and stops the journal.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal.Close()
	s.mirror.Close()
}

// Sections returns a copy of the mirrored sections.
func (s *Service) Sections() []SectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sectionsLocked()
}

func (s *Service) sectionsLocked() []SectionView {
	out := make([]SectionView, 0, s.mirror.Len())
	for _, sec := range s.mirror.All() {
		view := SectionView{Name: sec.Name(), Items: make([]models.Item, 0, sec.Len())}
		for _, item := range sec.All() {
			view.Items = append(view.Items, *item)
		}
		out = append(out, view)
	}
	return out
}

// Journal returns the notifications recorded after seq.
func (s *Service) Journal(seq int64) []Entry {
	return s.journal.Since(seq)
}

// Find returns a copy of the first mirrored item with the given name.
func (s *Service) Find(name string) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range s.mirror.All() {
		for _, item := range sec.All() {
			if item.Name == name {
				return *item, true
			}
		}
	}
	return models.Item{}, false
}

// AddItem adds one item to the store.
func (s *Service) AddItem(ctx context.Context, item models.Item) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added, err := s.repo.AddItems(ctx, s.StoreUUID(), []models.Item{item})
	if err != nil {
		return nil, err
	}
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	return &added[0], nil
}

// Import adds many items to the store in one batch.
func (s *Service) Import(ctx context.Context, items []models.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added, err := s.repo.AddItems(ctx, s.StoreUUID(), items)
	if err != nil {
		return 0, err
	}
	if err := s.syncLocked(ctx); err != nil {
		return 0, err
	}
	return len(added), nil
}

// DeleteItem removes one item.
func (s *Service) DeleteItem(ctx context.Context, itemUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.DeleteItem(ctx, itemUUID); err != nil {
		return err
	}
	return s.syncLocked(ctx)
}

// DeleteItemsByType removes all items of a type. An empty type removes every
// item of the store.
func (s *Service) DeleteItemsByType(ctx context.Context, itemType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.repo.DeleteItemsByType(ctx, s.StoreUUID(), itemType)
	if err != nil {
		return 0, err
	}
	if err := s.syncLocked(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateItem applies patch to an item.
func (s *Service) UpdateItem(ctx context.Context, itemUUID string, patch ItemPatch) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.repo.UpdateItem(ctx, itemUUID, patch)
	if err != nil {
		return nil, err
	}
	if err := s.syncLocked(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

// Refresh delivers changes made to the database by other writers.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.source.ProcessPendingChanges(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh mirror: %w", err)
	}
	return n, nil
}

func (s *Service) syncLocked(ctx context.Context) error {
	if _, err := s.source.ProcessPendingChanges(ctx); err != nil {
		return fmt.Errorf("failed to refresh mirror: %w", err)
	}
	return nil
}

// ExportSnapshot writes the current mirror to the bucket and returns the
// object name. Concurrent exports share one upload.
func (s *Service) ExportSnapshot(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", ErrExportDisabled
	}
	// Joined callers share this upload; it outlives the first caller's request.
	v, err, shared := s.exports.Do(s.StoreUUID(), func() (any, error) {
		return s.export(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.logger.Debug("Joined running snapshot export")
	}
	return v.(string), nil
}

func (s *Service) export(ctx context.Context) (string, error) {
	s.mu.Lock()
	snap := Snapshot{
		Store:    s.StoreUUID(),
		TakenAt:  time.Now().UTC(),
		Journal:  s.journal.Last(),
		Sections: s.sectionsLocked(),
	}
	s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	object := path.Join(s.prefix, snap.Store, uuid.NewString()+".json")
	if err := storage.WriteObject(ctx, s.client, s.bucket, object, data, "application/json"); err != nil {
		return "", err
	}
	s.logger.Info("Exported snapshot", zap.String("object", object), zap.Int("sections", len(snap.Sections)))
	return object, nil
}
