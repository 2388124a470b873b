package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"arcgrants/lib/arcapi"
	"arcgrants/lib/sqliteutil"
)

// ToSQLite drops and recreates the grants table at path, then inserts
// every grant. Column names have hyphens replaced with underscores and
// are typed by columnType; `id` is the primary key. The first failed
// insert (a duplicate id, for instance) aborts the remaining inserts
// and leaves the rows written so far in place. Returns false when there
// is nothing to export or any statement fails.
func ToSQLite(ctx context.Context, grants []arcapi.Grant, path string) bool {
	ctx, span := tracer.Start(ctx, "export:ToSQLite")
	defer span.End()

	if len(grants) == 0 {
		slog.WarnContext(ctx, "no results to export")
		return false
	}

	db, err := sqliteutil.OpenDB(path)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to open database", "path", path, "err", err)
		return false
	}
	defer db.Close()

	fields := fieldnames(grants)

	columns := make([]string, 0, len(fields)+1)
	columns = append(columns, `"id" TEXT PRIMARY KEY`)
	for _, field := range fields {
		columns = append(columns, fmt.Sprintf(
			`"%s" %s`, safeColumn(field), columnType(grants, field),
		))
	}

	// table recreation is destructive, there is no append or migration mode
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS grants"); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to drop grants table", "err", err)
		return false
	}
	create := fmt.Sprintf("CREATE TABLE grants (%s)", strings.Join(columns, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to create grants table", "err", err)
		return false
	}

	names := make([]string, 0, len(fields)+1)
	names = append(names, `"id"`)
	placeholders := make([]string, 0, len(fields)+1)
	placeholders = append(placeholders, "?")
	for _, field := range fields {
		names = append(names, fmt.Sprintf(`"%s"`, safeColumn(field)))
		placeholders = append(placeholders, "?")
	}

	stmt, err := db.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO grants (%s) VALUES (%s)",
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	))
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to prepare insert", "err", err)
		return false
	}
	defer stmt.Close()

	for _, g := range grants {
		args := make([]any, 0, len(fields)+1)
		args = append(args, g.Id)
		for _, field := range fields {
			args = append(args, g.Attributes[field].Arg())
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to insert grant", "id", g.Id, "err", err)
			return false
		}
	}

	slog.InfoContext(ctx, "exported grants to sqlite", "count", len(grants), "path", path)
	return true
}
