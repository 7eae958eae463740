package inventory

import (
	"context"

	"section-mirror/core/reconcile"
	"section-mirror/feature/inventory/models"

	"go.uber.org/zap"
)

// FetchedResults is the change source for the items of one store, sectioned
// by item type and ordered by name. It keeps one *models.Item per uuid so
// content changes are visible through every mirror holding the handle.
type FetchedResults struct {
	repo      *Repository
	storeUUID string
	logger    *zap.Logger

	delegate  reconcile.Delegate[*models.Item]
	items     map[string]*models.Item
	published layout
}

var _ reconcile.Source[*models.Item] = (*FetchedResults)(nil)

// NewFetchedResults creates a source for the store with the given uuid.
func NewFetchedResults(repo *Repository, storeUUID string, logger *zap.Logger) *FetchedResults {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FetchedResults{
		repo:      repo,
		storeUUID: storeUUID,
		logger:    logger,
		items:     make(map[string]*models.Item),
	}
}

// StoreUUID returns the uuid of the mirrored store.
func (f *FetchedResults) StoreUUID() string { return f.storeUUID }

// SetDelegate implements reconcile.Source.
func (f *FetchedResults) SetDelegate(d reconcile.Delegate[*models.Item]) {
	f.delegate = d
}

// Fetch implements reconcile.Source. It loads the store and makes the result
// the baseline of later change batches.
func (f *FetchedResults) Fetch(ctx context.Context) ([]reconcile.SectionSnapshot[*models.Item], error) {
	rows, err := f.repo.ListItems(ctx, f.storeUUID)
	if err != nil {
		return nil, err
	}

	f.absorb(rows)
	f.published = buildLayout(rows)

	snapshot := make([]reconcile.SectionSnapshot[*models.Item], 0, len(f.published))
	for _, sec := range f.published {
		items := make([]*models.Item, len(sec.keys))
		for i, key := range sec.keys {
			items[i] = f.items[key]
		}
		snapshot = append(snapshot, reconcile.SectionSnapshot[*models.Item]{Name: sec.name, Items: items})
	}
	return snapshot, nil
}

// ProcessPendingChanges reloads the store, computes what changed since the
// last fetch and delivers it to the delegate as one batch. It returns the
// number of delivered notifications; nothing is delivered when nothing
// changed.
func (f *FetchedResults) ProcessPendingChanges(ctx context.Context) (int, error) {
	rows, err := f.repo.ListItems(ctx, f.storeUUID)
	if err != nil {
		return 0, err
	}

	changed := make(map[string]bool)
	for _, row := range rows {
		if cur, ok := f.items[row.UUID]; ok && !cur.SameContent(row) {
			changed[row.UUID] = true
		}
	}
	next := buildLayout(rows)
	cs := diffLayouts(f.published, next, changed)

	// Deleted records are delivered with their last known content.
	removed := make(map[string]*models.Item)
	for _, ch := range cs.items {
		if ch.kind == reconcile.ChangeDelete {
			removed[ch.key] = f.items[ch.key]
		}
	}
	f.absorb(rows)
	f.published = next

	if cs.empty() || f.delegate == nil {
		return 0, nil
	}

	d := f.delegate
	d.OnBeginBatch()
	for _, sc := range cs.sections {
		switch sc.kind {
		case reconcile.ChangeInsert:
			d.OnSectionChanged(sc.index, sc.kind, &reconcile.SectionSnapshot[*models.Item]{Name: sc.name})
		default:
			d.OnSectionChanged(sc.index, sc.kind, nil)
		}
	}
	for _, ic := range cs.items {
		record := f.items[ic.key]
		if record == nil {
			record = removed[ic.key]
		}
		d.OnItemChanged(record, ic.from, ic.kind, ic.to)
	}
	d.OnEndBatch()

	total := len(cs.sections) + len(cs.items)
	f.logger.Debug("Delivered change batch",
		zap.String("store", f.storeUUID),
		zap.Int("section_changes", len(cs.sections)),
		zap.Int("item_changes", len(cs.items)),
	)
	return total, nil
}

// absorb makes the identity map match rows, updating surviving handles in
// place.
func (f *FetchedResults) absorb(rows []models.Item) {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.UUID] = struct{}{}
		if cur, ok := f.items[row.UUID]; ok {
			*cur = row
			continue
		}
		item := row
		f.items[row.UUID] = &item
	}
	for key := range f.items {
		if _, ok := seen[key]; !ok {
			delete(f.items, key)
		}
	}
}

// buildLayout groups rows, already ordered by item type, into sections.
func buildLayout(rows []models.Item) layout {
	var out layout
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].name != row.ItemType {
			out = append(out, sectionLayout{name: row.ItemType})
		}
		last := &out[len(out)-1]
		last.keys = append(last.keys, row.UUID)
	}
	return out
}
