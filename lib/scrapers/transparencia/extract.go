package transparencia

import (
	"context"
	"fmt"
	"log/slog"
	"transparencia-backend/lib/htmlutil"
	"transparencia-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	stripedTableSelector = "table.table.table-striped"
	// the first striped table holds the search form summary, records
	// live in the second one
	dataTableIndex = 1
)

// Extractor turns the portal's result page into Records.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return Extractor{logger: logger}
}

// Extract returns one Record per well-formed data row, in document
// order. it never fails: a missing table yields an empty slice, bad rows
// are skipped and bad cells fall back to their field's default.
func (e Extractor) Extract(ctx context.Context, doc *goquery.Document) (records []Record) {
	ctx, span := tracer.Start(ctx, "extractor:Extract")
	defer span.End()

	records = []Record{}
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "extraction aborted, returning partial results", "panic", fmt.Sprint(r), "records", len(records))
			span.SetStatus(codes.Error, "extraction aborted")
		}
	}()

	if doc == nil {
		e.logger.ErrorContext(ctx, "no document to extract from")
		return records
	}

	tables := doc.Find(stripedTableSelector)
	if tables.Length() <= dataTableIndex {
		e.logger.ErrorContext(ctx, "data table not found", "striped_tables", tables.Length())
		span.SetStatus(codes.Error, "data table not found")
		return records
	}
	table := tables.Eq(dataTableIndex)

	columns := e.columns(ctx, table)

	rows := table.Find("tr")
	skipped := 0
	rows.Each(func(i int, row *goquery.Selection) {
		// first row carries the headers
		if i == 0 {
			return
		}
		record, ok := e.row(ctx, i, columns, row)
		if !ok {
			skipped++
			return
		}
		records = append(records, record)
	})

	span.SetAttributes(
		attribute.Int("columns", len(columns)),
		attribute.Int("records", len(records)),
		attribute.Int("skipped_rows", skipped),
	)
	e.logger.DebugContext(ctx, "table extracted", "records", len(records), "skipped_rows", skipped)
	return records
}

func (e Extractor) columns(ctx context.Context, table *goquery.Selection) []column {
	headers := table.Find("th")
	columns := make([]column, 0, headers.Length())
	headers.Each(func(i int, th *goquery.Selection) {
		header := htmlutil.SelectionText(th)
		key := normalizeHeader(header)
		resolved, similarity, known := resolveKey(key)
		if known && resolved != key {
			e.logger.DebugContext(ctx, "header matched approximately", "header", header, "key", resolved, "similarity", similarity)
		}
		if !known {
			e.logger.DebugContext(ctx, "ignoring unknown header", "header", header, "key", key)
			resolved = key
		}

		col := column{header: header, key: resolved, known: known}
		if isNumericPosition(i) && !col.numeric() {
			e.logger.WarnContext(
				ctx, "numeric column position holds a non-numeric header",
				"position", i,
				"header", header,
			)
		}
		columns = append(columns, col)
	})

	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.key
	}
	e.logger.DebugContext(ctx, "headers found", "keys", keys)
	return columns
}

func (e Extractor) row(ctx context.Context, index int, columns []column, row *goquery.Selection) (Record, bool) {
	cells := row.Find("td")
	if cells.Length() == 0 || cells.Length() != len(columns) {
		e.logger.WarnContext(
			ctx, "row skipped due to inconsistent cell count",
			"row", index,
			"cells", cells.Length(),
			"headers", len(columns),
		)
		return Record{}, false
	}

	var builder recordBuilder
	cells.Each(func(i int, td *goquery.Selection) {
		col := columns[i]
		value := cell{text: htmlutil.SelectionText(td)}

		if isNumericPosition(i) {
			number, err := textutil.ParseDecimal(value.text)
			if err != nil {
				e.logger.WarnContext(ctx, "non-numeric value found, using 0.0", "row", index, "column", col.key, "value", value.text)
				number = 0
			}
			value.numeric = true
			value.number = number
		}

		if col.key == keyDetail {
			anchors := htmlutil.GetAnchors(ctx, td.Find("a").First())
			if len(anchors) > 0 {
				value = cell{text: anchors[0].Href}
			}
		}

		if !col.known {
			return
		}
		if !builder.set(col.key, value) {
			e.logger.WarnContext(ctx, "unusable value, using default", "row", index, "column", col.key, "value", value.text)
		}
	})

	return builder.build(), true
}
