package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/telemetry"
)

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, telemetry.FormatJSON)
	logger.Info("pool swap executed", "pool_id", 1)
	require.Contains(t, buf.String(), "pool swap executed")
}

func TestNopLoggerDiscardsOutput(t *testing.T) {
	logger := telemetry.NewNopLogger()
	require.NotPanics(t, func() {
		logger.Info("anything")
	})
}

func TestAdaptNarrowsInterface(t *testing.T) {
	var buf bytes.Buffer
	full := telemetry.NewLogger(&buf, telemetry.FormatJSON)
	var narrow telemetry.PoolEventLogger = telemetry.Adapt(full)
	narrow.Error("pool join failed", "pool_id", 2)
	require.Contains(t, buf.String(), "pool join failed")
}
