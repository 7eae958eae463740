// Package logger builds the zap loggers used across section-mirror.
//
// New picks zap's development preset for the debug level and the production
// preset otherwise, then applies the json or console encoding. WithRayID
// attaches the ray id stored by the rayid middleware, so the log lines of one
// HTTP request can be correlated:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Failed to route change", zap.Error(err))
//
// The reconciler and the inventory journal receive their logger through
// options and log per-batch detail at debug level.
package logger
