package testutil

import (
	"fmt"
	"testing"

	"arcgrants/lib/telemetry"
)

// Setup initializes logging (and telemetry, when the environment
// carries a telemetry.json5) for a test, and hands back a scratch
// directory for export artifacts.
func Setup(t testing.TB, name string) string {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
	t.Cleanup(cleanup)
	return t.TempDir()
}
