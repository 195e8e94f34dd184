// Package logging wraps log/slog with the defaults used by every factorycalc
// component: JSON records on stderr, module and version attributes, and
// source locations when running at debug level.
//
// Set the default logger early in main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("factorycalc", version, "info")
//	slog.Info("resolving", "item", "robotic", "rate", 4)
//
// Levels are debug, info, warn and error. Unknown values fall back to info.
package logging
