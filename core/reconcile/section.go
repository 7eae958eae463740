package reconcile

import (
	"iter"

	"section-mirror/core/observable"
)

// Section is the item reconciler: it owns the ordered items of one section
// and applies staged changes to them atomically on EndBatch.
type Section[T comparable] struct {
	name  string
	items *observable.Array[T]
	state batchState

	pendingInserts []pendingInsert[T]
	pendingDeletes []int
	pendingUpdates []int

	deleted map[int]struct{}
	updated map[int]struct{}
}

// NewSection builds an idle section from a snapshot.
func NewSection[T comparable](snapshot SectionSnapshot[T]) *Section[T] {
	return &Section[T]{
		name:  snapshot.Name,
		items: observable.NewArray(snapshot.Items),
	}
}

// Name returns the section key supplied by the source.
func (s *Section[T]) Name() string { return s.name }

// Len returns the number of items.
func (s *Section[T]) Len() int { return s.items.Len() }

// At returns the item at index i.
func (s *Section[T]) At(i int) T { return s.items.At(i) }

// Values returns a copy of the items.
func (s *Section[T]) Values() []T { return s.items.Values() }

// All iterates over the items.
func (s *Section[T]) All() iter.Seq2[int, T] { return s.items.All() }

// Subscribe registers an observer of item insert, delete and update events.
func (s *Section[T]) Subscribe(o observable.Observer[T]) (cancel func()) {
	return s.items.Subscribe(o)
}

// InBatch reports whether a batch is open on the section.
func (s *Section[T]) InBatch() bool { return s.state != stateIdle }

// BeginBatch opens a batch. Opening a batch while one is open is a contract
// violation.
func (s *Section[T]) BeginBatch() {
	if s.state != stateIdle {
		violate("Section.BeginBatch", "section %q is %s", s.name, s.state)
	}
	if len(s.pendingInserts)+len(s.pendingDeletes)+len(s.pendingUpdates) != 0 {
		violate("Section.BeginBatch", "section %q has pending changes", s.name)
	}
	s.state = stateStaging
	s.deleted = make(map[int]struct{})
	s.updated = make(map[int]struct{})
}

// StageDelete stages removal of the item at idx.
func (s *Section[T]) StageDelete(idx int) {
	s.checkStaging("Section.StageDelete", idx)
	if _, ok := s.deleted[idx]; ok {
		violate("Section.StageDelete", "index %d already staged for delete", idx)
	}
	if _, ok := s.updated[idx]; ok {
		violate("Section.StageDelete", "index %d already staged for update", idx)
	}
	s.deleted[idx] = struct{}{}
	s.pendingDeletes = append(s.pendingDeletes, idx)
}

// StageInsert stages record for insertion at target idx. Inserts sharing a
// target are applied in staging order.
func (s *Section[T]) StageInsert(record T, idx int) {
	s.checkStaging("Section.StageInsert", idx)
	s.pendingInserts = append(s.pendingInserts, pendingInsert[T]{value: record, target: idx})
}

// StageUpdate stages an in-place content change notification for idx.
func (s *Section[T]) StageUpdate(idx int) {
	s.checkStaging("Section.StageUpdate", idx)
	if _, ok := s.updated[idx]; ok {
		violate("Section.StageUpdate", "index %d already staged for update", idx)
	}
	if _, ok := s.deleted[idx]; ok {
		violate("Section.StageUpdate", "index %d already staged for delete", idx)
	}
	s.updated[idx] = struct{}{}
	s.pendingUpdates = append(s.pendingUpdates, idx)
}

// StageMove stages a move inside this section as a delete of from and an
// insert of record. The insert target is to-1 when to is past from.
func (s *Section[T]) StageMove(record T, from, to int) {
	s.checkStaging("Section.StageMove", to)
	s.StageDelete(from)
	s.StageInsert(record, moveTarget(from, to))
}

// EndBatch applies the staged changes and closes the batch: inserts ascending
// by target, deletes descending, then updates. Observers see one group of
// events per non-empty phase, in that order.
func (s *Section[T]) EndBatch() Stats {
	if s.state != stateStaging {
		violate("Section.EndBatch", "section %q is %s", s.name, s.state)
	}
	s.state = stateApplying
	stats := Stats{
		Inserts: len(s.pendingInserts),
		Deletes: len(s.pendingDeletes),
		Updates: len(s.pendingUpdates),
	}

	for _, ins := range ascendingInserts(s.pendingInserts) {
		if ins.target > s.items.Len() {
			violate("Section.EndBatch", "insert target %d beyond length %d of section %q", ins.target, s.items.Len(), s.name)
		}
		s.items.Insert(ins.target, ins.value)
	}
	for _, idx := range descendingIndices(s.pendingDeletes) {
		if idx >= s.items.Len() {
			violate("Section.EndBatch", "delete index %d beyond length %d of section %q", idx, s.items.Len(), s.name)
		}
		s.items.Remove(idx)
	}
	for _, idx := range s.pendingUpdates {
		if idx >= s.items.Len() {
			violate("Section.EndBatch", "update index %d beyond length %d of section %q", idx, s.items.Len(), s.name)
		}
		s.items.Update(idx, s.items.At(idx))
	}

	s.pendingInserts = nil
	s.pendingDeletes = nil
	s.pendingUpdates = nil
	s.deleted = nil
	s.updated = nil
	s.state = stateIdle
	return stats
}

func (s *Section[T]) checkStaging(op string, idx int) {
	if s.state != stateStaging {
		violate(op, "section %q is %s", s.name, s.state)
	}
	if idx < 0 {
		violate(op, "negative index %d", idx)
	}
}

// Stats counts the changes applied by one EndBatch.
type Stats struct {
	Inserts int
	Deletes int
	Updates int
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Inserts: s.Inserts + o.Inserts,
		Deletes: s.Deletes + o.Deletes,
		Updates: s.Updates + o.Updates,
	}
}

// Empty reports whether no change was applied.
func (s Stats) Empty() bool {
	return s.Inserts == 0 && s.Deletes == 0 && s.Updates == 0
}
