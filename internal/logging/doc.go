// Package logging builds the slog loggers used by the curator commands:
// a tint console handler for terminals and a JSON handler for captured runs.
package logging
