package transparencia

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	testCases := []struct {
		header   string
		expected string
	}{
		{"Categoria", keyCategory},
		{"  Origem ", keyOrigin},
		{"Receita Prevista no Ano (R$)", keyPlanned},
		{"Receita Arrecadada no Período (R$)", keyCollected},
		{"Receita Recolhida\n\t no Período (R$)", keyReceived},
		{"%Realizado", keyPercent},
		{"Detalhamento", keyDetail},
		{"Coluna Nova", "coluna_nova"},
		{"", ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, normalizeHeader(test.header), test.header)
	}
}

func TestResolveKey(t *testing.T) {
	resolved, similarity, ok := resolveKey(keyPlanned)
	require.True(t, ok)
	require.Equal(t, keyPlanned, resolved)
	require.Equal(t, 1.0, similarity)

	resolved, similarity, ok = resolveKey("receita_arrecadada_no_periodo")
	require.True(t, ok)
	require.Equal(t, keyCollected, resolved)
	require.GreaterOrEqual(t, similarity, fuzzyKeyThreshold)

	_, _, ok = resolveKey("coluna_nova")
	require.False(t, ok)

	_, _, ok = resolveKey("")
	require.False(t, ok)
}

func TestRecordBuilder(t *testing.T) {
	var b recordBuilder
	require.True(t, b.set(keyCategory, cell{text: "Receitas"}))
	require.True(t, b.set(keyOrigin, cell{numeric: true, number: 12.5}))
	require.True(t, b.set(keyPlanned, cell{text: "1.234,56"}))
	require.True(t, b.set(keyPercent, cell{numeric: true, number: 99}))
	require.False(t, b.set(keyReceived, cell{text: "n/d"}))
	require.False(t, b.set("coluna_nova", cell{text: "x"}))

	require.Equal(t, Record{
		Category:           "Receitas",
		Origin:             "12.5",
		PlannedRevenueYear: 1234.56,
		PercentRealized:    99,
	}, b.build())
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(nil))
	require.Equal(t, KindUpstreamTimeout, KindOf(classify("consult", errDeadline{})))
	require.Equal(t, KindInvalidInput, KindOf(Query{}.Validate()))
	require.Equal(t, "upstream_unavailable", KindUpstreamUnavailable.String())
}

type errDeadline struct{}

func (errDeadline) Error() string   { return "i/o timeout" }
func (errDeadline) Timeout() bool   { return true }
func (errDeadline) Temporary() bool { return true }
