package logger

import (
	"fmt"

	"section-mirror/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger from cfg. The debug level selects zap's development
// preset; any other level starts from the production preset.
func New(cfg *Config) (*zap.Logger, error) {
	zc, err := baseConfig(cfg.Level)
	if err != nil {
		return nil, err
	}
	applyFormat(&zc, cfg.Format)
	return zc.Build()
}

func baseConfig(level string) (zap.Config, error) {
	if level == "debug" {
		return zap.NewDevelopmentConfig(), nil
	}
	zc := zap.NewProductionConfig()
	if level == "" {
		return zc, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc, nil
}

func applyFormat(zc *zap.Config, format string) {
	switch format {
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	default:
		zc.Encoding = "json"
	}
	zc.EncoderConfig.LevelKey = "level"
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.MessageKey = "message"
}

// WithRayID tags l with the request's ray id when the rayid middleware ran.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id, ok := c.Locals(rayid.LocalsKey).(string); ok && id != "" {
		return l.With(zap.String("ray_id", id))
	}
	return l
}
