package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	csvPath, sqlitePath := defaultPaths("", "", now)
	require.Equal(t, "results/arc_grants_20250314_092653.csv", csvPath)
	require.Equal(t, "results/arc_grants_20250314_092653.db", sqlitePath)

	csvPath, sqlitePath = defaultPaths("out/grants.csv", "", now)
	require.Equal(t, "out/grants.csv", csvPath)
	require.Equal(t, "out/grants.db", sqlitePath)

	csvPath, sqlitePath = defaultPaths("", "out/grants.db", now)
	require.Equal(t, "out/grants.csv", csvPath)
	require.Equal(t, "out/grants.db", sqlitePath)

	csvPath, sqlitePath = defaultPaths("a.csv", "b.db", now)
	require.Equal(t, "a.csv", csvPath)
	require.Equal(t, "b.db", sqlitePath)
}
