package transparencia

import (
	"strconv"
	"strings"
	"transparencia-backend/lib/htmlutil"
	"transparencia-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// normalized header keys of the revenue table
const (
	keyCategory  = "categoria"
	keyOrigin    = "origem"
	keyPlanned   = "receita_prevista_no_ano"
	keyCollected = "receita_arrecadada_no_período"
	keyReceived  = "receita_recolhida_no_período"
	keyPercent   = "percentual_realizado"
	keyDetail    = "detalhamento"
)

// applied in order to the lower-cased, trimmed header text
var headerSubstitutions = [][2]string{
	{" (r$)", ""},
	{" ", "_"},
	{"%realizado", keyPercent},
	{"receita_arrecadada_no_período_(r$)", keyCollected},
	{"receita_prevista_no_ano_(r$)", keyPlanned},
	{"receita_recolhida_no_período_(r$)", keyReceived},
}

// the portal always renders the currency and percentage columns at these
// positions, cells there are parsed as numbers whatever their header says.
func isNumericPosition(i int) bool {
	return i >= 2 && i <= 5
}

func normalizeHeader(text string) string {
	text = strings.ToLower(htmlutil.CleanText(text))
	return textutil.ReplaceAll(text, headerSubstitutions)
}

type recordField struct {
	numeric bool
	// set reports false when the value could not be used and the field
	// was left at its default.
	set func(r *Record, v cell) bool
}

func textField(assign func(r *Record, value string)) recordField {
	return recordField{
		set: func(r *Record, v cell) bool {
			if v.numeric {
				assign(r, strconv.FormatFloat(v.number, 'f', -1, 64))
				return true
			}
			assign(r, v.text)
			return true
		},
	}
}

func numberField(assign func(r *Record, value float64)) recordField {
	return recordField{
		numeric: true,
		set: func(r *Record, v cell) bool {
			if v.numeric {
				assign(r, v.number)
				return true
			}
			parsed, err := textutil.ParseDecimal(v.text)
			if err != nil {
				return false
			}
			assign(r, parsed)
			return true
		},
	}
}

var recordFields = map[string]recordField{
	keyCategory: textField(func(r *Record, v string) { r.Category = v }),
	keyOrigin:   textField(func(r *Record, v string) { r.Origin = v }),
	keyDetail:   textField(func(r *Record, v string) { r.DetailLink = v }),

	keyPlanned:   numberField(func(r *Record, v float64) { r.PlannedRevenueYear = v }),
	keyCollected: numberField(func(r *Record, v float64) { r.CollectedRevenuePeriod = v }),
	keyReceived:  numberField(func(r *Record, v float64) { r.ReceivedRevenuePeriod = v }),
	keyPercent:   numberField(func(r *Record, v float64) { r.PercentRealized = v }),
}

const fuzzyKeyThreshold = 0.95

// resolveKey maps a normalized header to a known record key. exact
// matches win, otherwise the most similar known key is used if it is
// similar enough (this absorbs accent or spacing drift in the labels).
func resolveKey(key string) (resolved string, similarity float64, ok bool) {
	if _, known := recordFields[key]; known {
		return key, 1, true
	}
	if key == "" {
		return "", 0, false
	}

	for candidate := range recordFields {
		s := matchr.JaroWinkler(key, candidate, false)
		if s > similarity || (s == similarity && candidate < resolved) {
			similarity = s
			resolved = candidate
		}
	}
	if similarity < fuzzyKeyThreshold {
		return "", similarity, false
	}
	return resolved, similarity, true
}

// column is one header of the data table.
type column struct {
	header string
	key    string
	known  bool
}

func (c column) numeric() bool {
	return c.known && recordFields[c.key].numeric
}
