package inventory_test

import (
	"context"
	"strings"
	"testing"

	"section-mirror/feature/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScript(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"valid", "steps:\n  - op: delete_all\n  - op: refresh\n", ""},
		{"unknown op", "steps:\n  - op: explode\n", "unknown op"},
		{"add without items", "steps:\n  - op: add\n", "without items"},
		{"delete without target", "steps:\n  - op: delete\n", "needs uuid or name"},
		{"update without patch", "steps:\n  - op: update\n    name: Apple\n", "without patch"},
		{"delete_type without type", "steps:\n  - op: delete_type\n", "without item_type"},
		{"import without path", "steps:\n  - op: import\n", "without path"},
		{"unknown field", "steps:\n  - op: refresh\n    colour: red\n", "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := inventory.DecodeScript(strings.NewReader(tt.doc))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Len(t, s.Steps, 2)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestScript_Run(t *testing.T) {
	svc, _ := newService(t)
	script, err := inventory.LoadScript("testdata/replay.yaml")
	require.NoError(t, err)

	require.NoError(t, script.Run(context.Background(), svc))

	views := svc.Sections()
	require.Equal(t, []string{"fruit", "meat"}, sectionNames(views))
	assert.Equal(t,
		[]string{"Banana", "Cherry", "Date", "Elderberry", "Fig", "Grape", "Huckleberry", "Kiwi"},
		names(views[0].Items))
	assert.Equal(t, []string{"Ground beef"}, names(views[1].Items))

	kinds := []string{}
	for _, e := range svc.Journal(0) {
		kinds = append(kinds, e.Level+":"+e.Kind)
	}
	assert.Equal(t, []string{
		"item:delete",
		"item:update",
		"section:insert",
		"item:insert", "item:insert", "item:insert", "item:insert", "item:insert", "item:insert",
		"section:delete",
	}, kinds)
}

func TestScript_RunStopsAtFailure(t *testing.T) {
	svc, _ := newService(t)
	script, err := inventory.DecodeScript(strings.NewReader("steps:\n  - op: delete\n    name: Durian\n  - op: delete_all\n"))
	require.NoError(t, err)

	err = script.Run(context.Background(), svc)

	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.ErrorContains(t, err, "step 1 (delete)")
	assert.Equal(t, 2, svc.Mirror().Len())
}
