// Package logging builds slog loggers with console and JSON handlers and
// provides shared attribute helpers.
package logging
