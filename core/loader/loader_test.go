package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	on := &stubFeature{name: "inventory", enabled: true}
	off := &stubFeature{name: "reports"}

	m := NewManager(zap.NewNop())
	m.Register(on)
	m.Register(off)

	loaded, err := m.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.Equal(t, []string{"inventory"}, loaded)
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
}

func TestManager_LoadAllError(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})

	_, err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "broken")
	assert.ErrorContains(t, err, "boom")
}
