package export

import (
	"encoding/json"
	"testing"

	"arcgrants/lib/arcapi"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func grantsFromJSON(t *testing.T, data string) []arcapi.Grant {
	t.Helper()
	var grants []arcapi.Grant
	require.NoError(t, json.Unmarshal([]byte(data), &grants))
	return grants
}

func TestFieldnamesUnion(t *testing.T) {
	grants := grantsFromJSON(t, `[
		{"id":"A","attributes":{"scheme":"X","tags":["a","b"]}},
		{"id":"B","attributes":{"scheme":"Y","year-from":2020}}
	]`)

	got := fieldnames(grants)
	if diff := cmp.Diff([]string{"scheme", "tags", "year-from"}, got); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
}

func TestColumnTypeFirstNonNullWins(t *testing.T) {
	// the first non-null funding value is numeric, a later string does
	// not change the column type
	grants := grantsFromJSON(t, `[
		{"id":"A","attributes":{"funding":null}},
		{"id":"B","attributes":{"funding":50000}},
		{"id":"C","attributes":{"funding":"n/a"}}
	]`)
	require.Equal(t, "REAL", columnType(grants, "funding"))

	// and the reverse: a string first keeps the column TEXT
	grants = grantsFromJSON(t, `[
		{"id":"A","attributes":{"funding":"n/a"}},
		{"id":"B","attributes":{"funding":50000}}
	]`)
	require.Equal(t, "TEXT", columnType(grants, "funding"))
}

func TestColumnTypeDefaults(t *testing.T) {
	grants := grantsFromJSON(t, `[
		{"id":"A","attributes":{"summary":null,"active":true,"tags":["x"]}},
		{"id":"B","attributes":{}}
	]`)

	// no non-null value at all
	require.Equal(t, "TEXT", columnType(grants, "summary"))
	// booleans and compounds are stored as TEXT, only numbers are REAL
	require.Equal(t, "TEXT", columnType(grants, "active"))
	require.Equal(t, "TEXT", columnType(grants, "tags"))
	require.Equal(t, "TEXT", columnType(grants, "missing-everywhere"))
}

func TestSafeColumn(t *testing.T) {
	require.Equal(t, "admin_org_short_name", safeColumn("admin-org-short-name"))
	require.Equal(t, "scheme", safeColumn("scheme"))
}
