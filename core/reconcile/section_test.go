package reconcile_test

import (
	"testing"

	"section-mirror/core/observable"
	"section-mirror/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSection(name string, items ...string) *reconcile.Section[string] {
	return reconcile.NewSection(reconcile.SectionSnapshot[string]{Name: name, Items: items})
}

func watch[T any](subscribe func(observable.Observer[T]) func()) *[]observable.Event[T] {
	var events []observable.Event[T]
	subscribe(func(ev observable.Event[T]) {
		events = append(events, ev)
	})
	return &events
}

func kinds[T any](events []observable.Event[T]) []observable.Kind {
	out := make([]observable.Kind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestSection_InsertsOnly(t *testing.T) {
	s := newSection("fruit", "A", "B")
	events := watch(s.Subscribe)

	s.BeginBatch()
	s.StageInsert("D", 4)
	s.StageInsert("C", 3)
	s.StageInsert("Z", 0)
	stats := s.EndBatch()

	assert.Equal(t, []string{"Z", "A", "B", "C", "D"}, s.Values())
	assert.Equal(t, reconcile.Stats{Inserts: 3}, stats)
	require.Len(t, *events, 3)
	assert.Equal(t, []int{0, 3, 4}, []int{(*events)[0].Index, (*events)[1].Index, (*events)[2].Index})
	assert.Equal(t, "C", (*events)[1].Value)
}

func TestSection_SharedInsertTargetsApplyInStagingOrder(t *testing.T) {
	t.Run("MoveForwardAndInsert", func(t *testing.T) {
		s := newSection("s", "A", "B", "C", "D")
		events := watch(s.Subscribe)

		s.BeginBatch()
		s.StageMove("A", 0, 2)
		s.StageInsert("Z", 1)
		stats := s.EndBatch()

		assert.Equal(t, []string{"Z", "A", "B", "C", "D"}, s.Values())
		assert.Equal(t, reconcile.Stats{Inserts: 2, Deletes: 1}, stats)
		assert.Equal(t, []observable.Kind{observable.Insert, observable.Insert, observable.Delete}, kinds(*events))
		assert.Equal(t, "A", (*events)[0].Value)
		assert.Equal(t, "Z", (*events)[1].Value)
	})

	t.Run("TwoMovesOntoOneSlot", func(t *testing.T) {
		s := newSection("s", "A", "B", "C", "D", "E")
		events := watch(s.Subscribe)

		s.BeginBatch()
		s.StageMove("A", 0, 2)
		s.StageMove("D", 3, 1)
		s.EndBatch()

		require.Len(t, *events, 4)
		assert.Equal(t, observable.Event[string]{Kind: observable.Insert, Index: 1, Value: "A"}, (*events)[0])
		assert.Equal(t, observable.Event[string]{Kind: observable.Insert, Index: 1, Value: "D"}, (*events)[1])
		assert.Equal(t, observable.Delete, (*events)[2].Kind)
		assert.Equal(t, 3, (*events)[2].Index)
		assert.Equal(t, observable.Delete, (*events)[3].Kind)
		assert.Equal(t, 0, (*events)[3].Index)
		assert.Equal(t, 5, s.Len())
	})
}

func TestSection_DeletesAreOrderIndependent(t *testing.T) {
	orders := [][]int{{0, 2, 4}, {4, 2, 0}, {2, 0, 4}}
	for _, order := range orders {
		s := newSection("s", "A", "B", "C", "D", "E")
		events := watch(s.Subscribe)

		s.BeginBatch()
		for _, idx := range order {
			s.StageDelete(idx)
		}
		s.EndBatch()

		assert.Equal(t, []string{"B", "D"}, s.Values(), "order %v", order)
		assert.Equal(t, []int{4, 2, 0}, []int{(*events)[0].Index, (*events)[1].Index, (*events)[2].Index})
		assert.Equal(t, "E", (*events)[0].Value)
	}
}

func TestSection_EmptyBatchIsIdempotent(t *testing.T) {
	s := newSection("s", "A", "B")
	events := watch(s.Subscribe)

	s.BeginBatch()
	stats := s.EndBatch()

	assert.True(t, stats.Empty())
	assert.Equal(t, []string{"A", "B"}, s.Values())
	assert.Empty(t, *events)
	assert.False(t, s.InBatch())
}

func TestSection_InsertAppliedBeforeDelete(t *testing.T) {
	s := newSection("s", "A", "B", "C")
	events := watch(s.Subscribe)

	s.BeginBatch()
	s.StageDelete(0)
	s.StageInsert("X", 2)
	s.EndBatch()

	assert.Equal(t, []string{"B", "X", "C"}, s.Values())
	assert.Equal(t, []observable.Kind{observable.Insert, observable.Delete}, kinds(*events))
}

func TestSection_PhaseOrder(t *testing.T) {
	s := newSection("s", "A", "B", "C", "D")
	events := watch(s.Subscribe)

	s.BeginBatch()
	s.StageUpdate(1)
	s.StageDelete(3)
	s.StageInsert("X", 0)
	s.StageInsert("Y", 5)
	s.EndBatch()

	assert.Equal(t, []observable.Kind{
		observable.Insert, observable.Insert,
		observable.Delete,
		observable.Update,
	}, kinds(*events))
	assert.Equal(t, []string{"X", "A", "B", "D", "Y"}, s.Values())
	assert.Equal(t, 1, (*events)[3].Index)
	assert.Equal(t, "A", (*events)[3].Value)
}

func TestSection_MoveDecomposition(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		delete   int
		insert   int
	}{
		{"Backward", 3, 1, 3, 1},
		{"Forward", 1, 4, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved := newSection("s", "A", "B", "C", "D", "E")
			movedEvents := watch(moved.Subscribe)
			moved.BeginBatch()
			moved.StageMove("M", tt.from, tt.to)
			moved.EndBatch()

			manual := newSection("s", "A", "B", "C", "D", "E")
			manualEvents := watch(manual.Subscribe)
			manual.BeginBatch()
			manual.StageDelete(tt.delete)
			manual.StageInsert("M", tt.insert)
			manual.EndBatch()

			assert.Equal(t, manual.Values(), moved.Values())
			assert.Equal(t, *manualEvents, *movedEvents)
		})
	}
}

func TestSection_MoveSourceMayBeInsertTarget(t *testing.T) {
	s := newSection("s", "A", "B", "C")

	s.BeginBatch()
	s.StageMove("C", 2, 1)
	s.StageMove("A", 0, 3)
	s.EndBatch()

	assert.Len(t, s.Values(), 3)
}

func TestSection_ContractViolations(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *reconcile.Section[string])
	}{
		{"NestedBatch", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.BeginBatch()
		}},
		{"StageOutsideBatch", func(s *reconcile.Section[string]) {
			s.StageInsert("X", 0)
		}},
		{"EndOutsideBatch", func(s *reconcile.Section[string]) {
			s.EndBatch()
		}},
		{"DeleteThenUpdate", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.StageDelete(1)
			s.StageUpdate(1)
		}},
		{"UpdateThenDelete", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.StageUpdate(1)
			s.StageDelete(1)
		}},
		{"DuplicateDelete", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.StageDelete(0)
			s.StageDelete(0)
		}},
		{"NegativeIndex", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.StageDelete(-1)
		}},
		{"DeleteOutOfRange", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.StageDelete(7)
			s.EndBatch()
		}},
		{"InsertOutOfRange", func(s *reconcile.Section[string]) {
			s.BeginBatch()
			s.StageInsert("X", 9)
			s.EndBatch()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSection("s", "A", "B", "C")
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, ok := r.(*reconcile.ContractViolation)
				assert.True(t, ok, "panic value %T", r)
			}()
			tt.run(s)
		})
	}
}

func TestSection_StageDuringApplyingPanics(t *testing.T) {
	s := newSection("s", "A")
	s.Subscribe(func(observable.Event[string]) {
		s.StageInsert("late", 0)
	})

	s.BeginBatch()
	s.StageInsert("X", 0)
	assert.PanicsWithError(t,
		`reconcile: contract violation in Section.StageInsert: section "s" is applying`,
		func() { s.EndBatch() })
}
