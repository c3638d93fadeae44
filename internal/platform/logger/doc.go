// Package logger provides structured logging for the application.
//
// It builds on log/slog with a JSON handler, and carries request-scoped
// loggers through context.Context so that every log line emitted while
// serving a request shares its trace_id.
package logger
