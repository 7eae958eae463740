package reconcile

import (
	"context"
	"fmt"
	"iter"

	"section-mirror/core/observable"

	"go.uber.org/zap"
)

// Results is the section reconciler: it owns the ordered sections mirrored
// from a Source and applies staged section and item changes on EndBatch.
type Results[T comparable] struct {
	source   Source[T]
	sections *observable.Array[*Section[T]]
	state    batchState
	logger   *zap.Logger

	pendingInserts []pendingInsert[*Section[T]]
	pendingDeletes []int

	deleted map[int]struct{}
	// crossMoves records source and destination of each cross-section move.
	crossMoves []crossMove[T]
	// projected caches the post-batch section layout; nil when stale.
	projected []*Section[T]
}

type crossMove[T comparable] struct {
	src, dst *Section[T]
}

// Option configures Results.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for per-batch debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New fetches the initial snapshot from source, builds the mirror and
// registers it as the source's delegate. A fetch failure is returned and no
// Results is built.
func New[T comparable](ctx context.Context, source Source[T], opts ...Option) (*Results[T], error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	snapshot, err := source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch initial snapshot: %w", err)
	}

	sections := make([]*Section[T], 0, len(snapshot))
	for _, snap := range snapshot {
		sections = append(sections, NewSection(snap))
	}

	r := &Results[T]{
		source:   source,
		sections: observable.NewArray(sections),
		logger:   o.logger,
	}
	source.SetDelegate(r)
	return r, nil
}

// Close detaches the mirror from its source. Later batches are not delivered.
func (r *Results[T]) Close() {
	if r.source != nil {
		r.source.SetDelegate(nil)
		r.source = nil
	}
}

// Len returns the number of sections.
func (r *Results[T]) Len() int { return r.sections.Len() }

// At returns the section at index i.
func (r *Results[T]) At(i int) *Section[T] { return r.sections.At(i) }

// Sections returns a copy of the section list.
func (r *Results[T]) Sections() []*Section[T] { return r.sections.Values() }

// All iterates over the sections.
func (r *Results[T]) All() iter.Seq2[int, *Section[T]] { return r.sections.All() }

// Subscribe registers an observer of section insert and delete events. Each
// event carries the affected section.
func (r *Results[T]) Subscribe(o observable.Observer[*Section[T]]) (cancel func()) {
	return r.sections.Subscribe(o)
}

// BeginBatch opens a batch on the mirror and on every section.
func (r *Results[T]) BeginBatch() {
	if r.state != stateIdle {
		violate("Results.BeginBatch", "results are %s", r.state)
	}
	if len(r.pendingInserts)+len(r.pendingDeletes) != 0 {
		violate("Results.BeginBatch", "pending section changes from a previous batch")
	}
	r.state = stateStaging
	r.deleted = make(map[int]struct{})
	r.projected = nil
	for _, sec := range r.sections.All() {
		sec.BeginBatch()
	}
}

// StageSectionDelete stages removal of the section at idx.
func (r *Results[T]) StageSectionDelete(idx int) {
	r.checkStaging("Results.StageSectionDelete", idx)
	if _, ok := r.deleted[idx]; ok {
		violate("Results.StageSectionDelete", "section %d already staged for delete", idx)
	}
	r.deleted[idx] = struct{}{}
	r.pendingDeletes = append(r.pendingDeletes, idx)
	r.projected = nil
}

// StageSectionInsert stages sec for insertion at idx. The section is opened
// for the current batch so item changes routed to it are captured.
func (r *Results[T]) StageSectionInsert(sec *Section[T], idx int) {
	r.checkStaging("Results.StageSectionInsert", idx)
	if sec == nil {
		violate("Results.StageSectionInsert", "nil section")
	}
	if !sec.InBatch() {
		sec.BeginBatch()
	}
	r.pendingInserts = append(r.pendingInserts, pendingInsert[*Section[T]]{value: sec, target: idx})
	r.projected = nil
}

// RouteItemChange dispatches an item change to the section(s) owning it. A
// move across sections becomes a delete on the source section and an insert
// on the destination section.
func (r *Results[T]) RouteItemChange(kind ChangeKind, record T, from, to *IndexPath) {
	const op = "Results.RouteItemChange"
	if r.state != stateStaging {
		violate(op, "results are %s", r.state)
	}
	switch kind {
	case ChangeInsert:
		r.requirePath(op, kind, "new", to)
		r.destination(op, to).StageInsert(record, to.Item)
	case ChangeDelete:
		r.requirePath(op, kind, "original", from)
		r.origin(op, from).StageDelete(from.Item)
	case ChangeUpdate:
		r.requirePath(op, kind, "original", from)
		r.origin(op, from).StageUpdate(from.Item)
	case ChangeMove:
		r.requirePath(op, kind, "original", from)
		r.requirePath(op, kind, "new", to)
		src := r.origin(op, from)
		dst := r.destination(op, to)
		if src == dst {
			src.StageMove(record, from.Item, to.Item)
			return
		}
		src.StageDelete(from.Item)
		dst.StageInsert(record, to.Item)
		r.crossMoves = append(r.crossMoves, crossMove[T]{src: src, dst: dst})
	default:
		violate(op, "unknown change kind %s", kind)
	}
}

// EndBatch applies the staged changes: section inserts ascending, section
// deletes descending, then the item changes of every remaining section.
// Inserted sections complete their own batch before they are spliced in, so
// observers receive them fully populated. Remaining sections apply in
// ascending order, except that the source of a cross-section move applies
// before its destination so the moved item is never visible twice.
func (r *Results[T]) EndBatch() {
	if r.state != stateStaging {
		violate("Results.EndBatch", "results are %s", r.state)
	}
	r.state = stateApplying

	var stats Stats
	inserted := len(r.pendingInserts)
	deleted := len(r.pendingDeletes)

	for _, ins := range ascendingInserts(r.pendingInserts) {
		if ins.target > r.sections.Len() {
			violate("Results.EndBatch", "section insert target %d beyond length %d", ins.target, r.sections.Len())
		}
		stats = stats.Add(ins.value.EndBatch())
		r.sections.Insert(ins.target, ins.value)
	}
	for _, idx := range descendingIndices(r.pendingDeletes) {
		if idx >= r.sections.Len() {
			violate("Results.EndBatch", "section delete index %d beyond length %d", idx, r.sections.Len())
		}
		dead := r.sections.Remove(idx)
		if dead.InBatch() {
			dead.EndBatch()
		}
	}
	for _, sec := range r.drainOrder() {
		stats = stats.Add(sec.EndBatch())
	}

	r.pendingInserts = nil
	r.pendingDeletes = nil
	r.deleted = nil
	r.crossMoves = nil
	r.projected = nil
	r.state = stateIdle

	if inserted+deleted > 0 || !stats.Empty() {
		r.logger.Debug("Applied batch",
			zap.Int("sections_inserted", inserted),
			zap.Int("sections_deleted", deleted),
			zap.Int("items_inserted", stats.Inserts),
			zap.Int("items_deleted", stats.Deletes),
			zap.Int("items_updated", stats.Updates),
			zap.Int("sections", r.sections.Len()),
		)
	}
}

// OnBeginBatch implements Delegate.
func (r *Results[T]) OnBeginBatch() { r.BeginBatch() }

// OnEndBatch implements Delegate.
func (r *Results[T]) OnEndBatch() { r.EndBatch() }

// OnSectionChanged implements Delegate. Only inserts and deletes are valid.
func (r *Results[T]) OnSectionChanged(sectionIndex int, kind ChangeKind, snapshot *SectionSnapshot[T]) {
	switch kind {
	case ChangeInsert:
		if snapshot == nil {
			violate("Results.OnSectionChanged", "section insert at %d without snapshot", sectionIndex)
		}
		r.StageSectionInsert(NewSection(*snapshot), sectionIndex)
	case ChangeDelete:
		r.StageSectionDelete(sectionIndex)
	default:
		violate("Results.OnSectionChanged", "sections only change by insert or delete, got %s", kind)
	}
}

// OnItemChanged implements Delegate.
func (r *Results[T]) OnItemChanged(record T, from *IndexPath, kind ChangeKind, to *IndexPath) {
	r.RouteItemChange(kind, record, from, to)
}

func (r *Results[T]) checkStaging(op string, idx int) {
	if r.state != stateStaging {
		violate(op, "results are %s", r.state)
	}
	if idx < 0 {
		violate(op, "negative section index %d", idx)
	}
}

func (r *Results[T]) requirePath(op string, kind ChangeKind, which string, p *IndexPath) {
	if p == nil {
		violate(op, "%s change without %s index path", kind, which)
	}
	if p.Section < 0 || p.Item < 0 {
		violate(op, "%s change with negative %s index path %s", kind, which, p)
	}
}

// origin resolves an original index path against the sections at batch start.
func (r *Results[T]) origin(op string, p *IndexPath) *Section[T] {
	if p.Section >= r.sections.Len() {
		violate(op, "original section %d beyond %d sections", p.Section, r.sections.Len())
	}
	return r.sections.At(p.Section)
}

// destination resolves a new index path against the post-batch layout.
func (r *Results[T]) destination(op string, p *IndexPath) *Section[T] {
	if r.projected == nil {
		r.projected = project(r.sections.Values(), r.pendingInserts, r.pendingDeletes)
		if r.projected == nil {
			violate(op, "staged section changes do not fit %d sections", r.sections.Len())
		}
	}
	if p.Section >= len(r.projected) {
		violate(op, "new section %d beyond %d projected sections", p.Section, len(r.projected))
	}
	return r.projected[p.Section]
}

// drainOrder returns the batch-open sections in the order their batches are
// applied. Sections caught in a cycle of moves fall back to ascending order.
func (r *Results[T]) drainOrder() []*Section[T] {
	var open []*Section[T]
	pos := make(map[*Section[T]]int)
	for _, sec := range r.sections.All() {
		if sec.InBatch() {
			pos[sec] = len(open)
			open = append(open, sec)
		}
	}
	if len(r.crossMoves) == 0 {
		return open
	}

	indegree := make([]int, len(open))
	edges := make([][]int, len(open))
	for _, m := range r.crossMoves {
		s, okSrc := pos[m.src]
		d, okDst := pos[m.dst]
		if !okSrc || !okDst {
			continue
		}
		edges[s] = append(edges[s], d)
		indegree[d]++
	}

	done := make([]bool, len(open))
	out := make([]*Section[T], 0, len(open))
	for len(out) < len(open) {
		pick := -1
		for i := range open {
			if !done[i] && indegree[i] == 0 {
				pick = i
				break
			}
		}
		if pick < 0 {
			for i := range open {
				if !done[i] {
					pick = i
					break
				}
			}
		}
		done[pick] = true
		out = append(out, open[pick])
		for _, d := range edges[pick] {
			indegree[d]--
		}
	}
	return out
}
