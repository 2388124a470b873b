package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"arcgrants/lib/sqliteutil"
	"arcgrants/lib/testutil"

	"github.com/stretchr/testify/require"
)

func tableColumns(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()

	rows, err := db.Query("SELECT name, type FROM pragma_table_info('grants')")
	require.NoError(t, err)
	defer rows.Close()

	columns := map[string]string{}
	for rows.Next() {
		var name, typ string
		require.NoError(t, rows.Scan(&name, &typ))
		columns[name] = typ
	}
	require.NoError(t, rows.Err())
	return columns
}

func TestToSQLite(t *testing.T) {
	dir := testutil.Setup(t, "export/sqlite")
	path := filepath.Join(dir, "grants.db")

	grants := grantsFromJSON(t, `[
		{"id":"A","attributes":{"scheme":"X","tags":["a","b"]}},
		{"id":"B","attributes":{"scheme":"Y"}}
	]`)
	require.True(t, ToSQLite(context.Background(), grants, path))

	db, err := sqliteutil.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	columns := tableColumns(t, db)
	require.Equal(t, map[string]string{
		"id":     "TEXT",
		"scheme": "TEXT",
		"tags":   "TEXT",
	}, columns)

	rows, err := db.Query("SELECT id, scheme, tags FROM grants ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()

	var got []struct {
		id, scheme string
		tags       sql.NullString
	}
	for rows.Next() {
		var r struct {
			id, scheme string
			tags       sql.NullString
		}
		require.NoError(t, rows.Scan(&r.id, &r.scheme, &r.tags))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].id)
	require.Equal(t, "X", got[0].scheme)
	require.Equal(t, `["a","b"]`, got[0].tags.String)
	require.Equal(t, "B", got[1].id)
	require.Equal(t, "Y", got[1].scheme)
	require.False(t, got[1].tags.Valid)
}

func TestToSQLiteColumnTypes(t *testing.T) {
	dir := testutil.Setup(t, "export/sqlite")
	path := filepath.Join(dir, "grants.db")

	// funding's first non-null value is numeric, the later string still
	// lands in a REAL column
	grants := grantsFromJSON(t, `[
		{"id":"A","attributes":{"funding-at-announcement":50000,"admin-org-name":"UQ"}},
		{"id":"B","attributes":{"funding-at-announcement":"n/a"}}
	]`)
	require.True(t, ToSQLite(context.Background(), grants, path))

	db, err := sqliteutil.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	columns := tableColumns(t, db)
	require.Equal(t, "REAL", columns["funding_at_announcement"])
	require.Equal(t, "TEXT", columns["admin_org_name"])

	// hyphenated names only exist in their normalized spelling
	_, ok := columns["funding-at-announcement"]
	require.False(t, ok)
}

func TestToSQLiteRecreatesTable(t *testing.T) {
	dir := testutil.Setup(t, "export/sqlite")
	path := filepath.Join(dir, "grants.db")

	first := grantsFromJSON(t, `[{"id":"A","attributes":{"old-field":"x"}}]`)
	require.True(t, ToSQLite(context.Background(), first, path))

	second := grantsFromJSON(t, `[{"id":"B","attributes":{"new-field":"y"}}]`)
	require.True(t, ToSQLite(context.Background(), second, path))

	db, err := sqliteutil.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	columns := tableColumns(t, db)
	_, ok := columns["old_field"]
	require.False(t, ok)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM grants").Scan(&count))
	require.Equal(t, 1, count)
}

// a duplicate id fails the insert loop, keeping the rows already written
func TestToSQLiteDuplicateId(t *testing.T) {
	dir := testutil.Setup(t, "export/sqlite")
	path := filepath.Join(dir, "grants.db")

	grants := grantsFromJSON(t, `[
		{"id":"A","attributes":{"scheme":"X"}},
		{"id":"A","attributes":{"scheme":"Y"}},
		{"id":"B","attributes":{"scheme":"Z"}}
	]`)
	require.False(t, ToSQLite(context.Background(), grants, path))

	db, err := sqliteutil.OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM grants").Scan(&count))
	require.Equal(t, 1, count)
}

func TestToSQLiteEmpty(t *testing.T) {
	dir := testutil.Setup(t, "export/sqlite")
	path := filepath.Join(dir, "grants.db")

	require.False(t, ToSQLite(context.Background(), nil, path))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
