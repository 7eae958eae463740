package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAscendingInserts(t *testing.T) {
	pending := []pendingInsert[string]{
		{value: "c", target: 5},
		{value: "a", target: 0},
		{value: "b", target: 3},
	}

	got := ascendingInserts(pending)

	assert.Equal(t, []int{0, 3, 5}, []int{got[0].target, got[1].target, got[2].target})
	assert.Equal(t, 5, pending[0].target, "input must not be reordered")
}

func TestDescendingIndices(t *testing.T) {
	in := []int{1, 4, 0, 2}
	assert.Equal(t, []int{4, 2, 1, 0}, descendingIndices(in))
	assert.Equal(t, []int{1, 4, 0, 2}, in)
}

func TestMoveTarget(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     int
	}{
		{"Backward", 3, 1, 1},
		{"Forward", 1, 4, 3},
		{"Same", 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, moveTarget(tt.from, tt.to))
		})
	}
}

func TestProject(t *testing.T) {
	current := []string{"A", "B", "C"}

	got := project(current, []pendingInsert[string]{{value: "X", target: 2}}, []int{0})
	assert.Equal(t, []string{"B", "X", "C"}, got)
	assert.Equal(t, []string{"A", "B", "C"}, current)

	assert.Nil(t, project(current, []pendingInsert[string]{{value: "X", target: 9}}, nil))
	assert.Nil(t, project(current, nil, []int{3}))
	assert.NotNil(t, project([]string{}, nil, nil))
}
