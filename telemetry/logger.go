// Package telemetry wires up structured logging the way the teacher's
// own node binary does: cosmossdk.io/log (which wraps zerolog under the
// hood) writing either human-readable console output or JSON, selected by
// the caller the same way a Cosmos node's `--log_format` flag does.
// Logging is an ambient concern SPEC_FULL.md's Non-goals do not exclude,
// so the orchestration layer (poolstate) takes one of these as an
// optional collaborator rather than reaching for the standard library's
// "log" package.
package telemetry

import (
	"io"
	"os"

	"cosmossdk.io/log"
)

// Format selects NewLogger's encoding: FormatPlain writes cosmossdk.io/log's
// human-readable console lines, FormatJSON writes one JSON object per line.
type Format uint8

const (
	FormatPlain Format = iota
	FormatJSON
)

// NewLogger builds a log.Logger writing to w (os.Stdout if nil), matching
// the teacher's own server/start.go logging setup (`log.NewLogger(os.Stdout)`).
func NewLogger(w io.Writer, format Format) log.Logger {
	if w == nil {
		w = os.Stdout
	}
	if format == FormatJSON {
		return log.NewLogger(w, log.OutputJSONOption())
	}
	return log.NewLogger(w)
}

// NewNopLogger returns a logger that discards everything, for tests and
// for callers that have not wired an operator-facing sink yet.
func NewNopLogger() log.Logger {
	return log.NewNopLogger()
}

// PoolEventLogger is the narrow logging surface poolstate depends on, so
// that package doesn't need to import cosmossdk.io/log's
// full interface (or a concrete zerolog type) directly.
type PoolEventLogger interface {
	Info(msg string, keyVals ...interface{})
	Error(msg string, keyVals ...interface{})
}

// Adapt narrows a full log.Logger down to PoolEventLogger.
func Adapt(l log.Logger) PoolEventLogger {
	return l
}
