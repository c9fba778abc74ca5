// Package logging provides structured logging for Rackdock.
//
// It wraps Go's standard log/slog package so every component logs the same
// way: JSON for production, text for development, level-based filtering,
// and default service/version fields on every entry.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("server listening", "port", 8080)
//
// Never log secrets: password hashes, JWT secrets, and raw tokens must not
// appear in log output.
package logging
