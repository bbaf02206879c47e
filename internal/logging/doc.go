// Package logging provides slog-based loggers with a console handler for
// interactive use and a JSON handler for machine consumption.
package logging
