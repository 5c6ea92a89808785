package transparencia

// DataSource identifies where every Record came from.
const DataSource = "Portal da Transparência de Fortaleza - Receita"

// Record is one row of the portal's revenue ("receita") table.
type Record struct {
	DataSource  string `json:"data_source"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	FiscalYear  string `json:"fiscal_year"`

	Category string `json:"category"`
	Origin   string `json:"origin"`

	PlannedRevenueYear     float64 `json:"planned_revenue_year"`
	CollectedRevenuePeriod float64 `json:"collected_revenue_period"`
	ReceivedRevenuePeriod  float64 `json:"received_revenue_period"`
	PercentRealized        float64 `json:"percent_realized"`

	DetailLink string `json:"detail_link"`
}

// cell is the value of one table cell, `numeric` is set when the cell
// sat in a numeric column and `number` holds its parsed value.
type cell struct {
	text    string
	number  float64
	numeric bool
}

// recordBuilder assembles a Record from (normalized header, cell) pairs.
// keys it does not know are ignored and fields it never sees keep their
// zero value.
type recordBuilder struct {
	record Record
}

func (b *recordBuilder) set(key string, value cell) bool {
	field, ok := recordFields[key]
	if !ok {
		return false
	}
	return field.set(&b.record, value)
}

func (b *recordBuilder) build() Record {
	return b.record
}
