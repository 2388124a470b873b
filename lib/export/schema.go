package export

import (
	"sort"
	"strings"

	"arcgrants/lib/arcapi"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("export")

// fieldnames returns the sorted union of attribute keys across every
// grant, not just the first one. Both exporters call this independently.
func fieldnames(grants []arcapi.Grant) []string {
	set := map[string]struct{}{}
	for _, g := range grants {
		for k := range g.Attributes {
			set[k] = struct{}{}
		}
	}

	fields := make([]string, 0, len(set))
	for k := range set {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// columnType infers a sqlite storage type from the first non-null value
// in accumulation order. Numbers yield REAL, everything else (including
// a column with no non-null value at all) yields TEXT. First match wins,
// a later value of a different kind does not change the column type.
func columnType(grants []arcapi.Grant, field string) string {
	for _, g := range grants {
		v, ok := g.Attributes[field]
		if !ok || v.IsNull() {
			continue
		}
		if v.Kind() == arcapi.KindNumber {
			return "REAL"
		}
		return "TEXT"
	}
	return "TEXT"
}

// sqlite column names can't contain hyphens. Applied by the table
// exporter only, the CSV keeps the portal's hyphenated spelling.
func safeColumn(field string) string {
	return strings.ReplaceAll(field, "-", "_")
}
