package commands

import (
	"io"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderRecords(out io.Writer, records []transparencia.Record) {
	t := newTable(out)
	t.AppendHeader(table.Row{
		"Categoria",
		"Origem",
		"Prevista no ano",
		"Arrecadada",
		"Recolhida",
		"% Realizado",
		"Detalhamento",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	var planned, collected, received float64
	for _, r := range records {
		t.AppendRow(table.Row{
			r.Category,
			r.Origin,
			textutil.FormatDecimal(r.PlannedRevenueYear),
			textutil.FormatDecimal(r.CollectedRevenuePeriod),
			textutil.FormatDecimal(r.ReceivedRevenuePeriod),
			textutil.FormatDecimal(r.PercentRealized),
			r.DetailLink,
		})
		planned += r.PlannedRevenueYear
		collected += r.CollectedRevenuePeriod
		received += r.ReceivedRevenuePeriod
	}
	t.AppendFooter(table.Row{
		"Total",
		"",
		textutil.FormatDecimal(planned),
		textutil.FormatDecimal(collected),
		textutil.FormatDecimal(received),
		"",
		"",
	})
	t.Render()
}
