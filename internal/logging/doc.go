// Package logging assembles the structured slog loggers used across the
// broker daemons and CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers so every component tags log
// lines the same way (component, operation, uid, correlation id). The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
