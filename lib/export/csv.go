package export

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"

	"arcgrants/lib/arcapi"
)

// ToCSV writes a header of `id` plus the sorted attribute fields, then
// one row per grant in accumulation order. List and map values are
// written as compact JSON text, missing or null attributes as empty
// cells. Returns false when there is nothing to export or the file
// cannot be written; no file is created for an empty record list.
func ToCSV(ctx context.Context, grants []arcapi.Grant, path string) bool {
	ctx, span := tracer.Start(ctx, "export:ToCSV")
	defer span.End()

	if len(grants) == 0 {
		slog.WarnContext(ctx, "no results to export")
		return false
	}

	fields := fieldnames(grants)

	f, err := os.Create(path)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to create csv file", "path", path, "err", err)
		return false
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, 0, len(fields)+1)
	header = append(header, "id")
	header = append(header, fields...)
	if err := w.Write(header); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to write csv header", "path", path, "err", err)
		return false
	}

	for _, g := range grants {
		row := make([]string, 0, len(header))
		row = append(row, g.Id)
		for _, field := range fields {
			row = append(row, g.Attributes[field].Cell())
		}
		if err := w.Write(row); err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to write csv row", "id", g.Id, "err", err)
			return false
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to flush csv file", "path", path, "err", err)
		return false
	}

	slog.InfoContext(ctx, "exported grants to csv", "count", len(grants), "path", path)
	return true
}
