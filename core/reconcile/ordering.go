package reconcile

import "sort"

type batchState int

const (
	stateIdle batchState = iota
	stateStaging
	stateApplying
)

func (s batchState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStaging:
		return "staging"
	default:
		return "applying"
	}
}

type pendingInsert[T any] struct {
	value  T
	target int
}

// ascendingInserts returns the staged inserts ordered by target index. Earlier
// insertions only shift positions at or after themselves, so applying in this
// order keeps every later target valid.
func ascendingInserts[T any](pending []pendingInsert[T]) []pendingInsert[T] {
	out := make([]pendingInsert[T], len(pending))
	copy(out, pending)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].target < out[j].target
	})
	return out
}

// descendingIndices returns the indices ordered from highest to lowest so each
// removal refers to a position no earlier removal has shifted.
func descendingIndices(indices []int) []int {
	out := make([]int, len(indices))
	copy(out, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// moveTarget converts the destination of a same-container move into an insert
// target. A destination past the source is shifted down by one for the slot
// the source vacates.
func moveTarget(from, to int) int {
	if to > from {
		return to - 1
	}
	return to
}

// project applies staged inserts and deletes to a copy of current with the
// same arithmetic EndBatch uses. It returns nil if an index falls outside the
// sequence.
func project[T any](current []T, inserts []pendingInsert[T], deletes []int) []T {
	out := make([]T, len(current), len(current)+len(inserts))
	copy(out, current)
	for _, ins := range ascendingInserts(inserts) {
		if ins.target < 0 || ins.target > len(out) {
			return nil
		}
		out = append(out, ins.value)
		copy(out[ins.target+1:], out[ins.target:])
		out[ins.target] = ins.value
	}
	for _, idx := range descendingIndices(deletes) {
		if idx < 0 || idx >= len(out) {
			return nil
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return out
}
