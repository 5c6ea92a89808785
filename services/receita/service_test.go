package receita

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/testutil"
	"transparencia-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

const resultPage = `<html><body>
<table class="table table-striped"><tr><td>filtros</td></tr></table>
<table class="table table-striped">
	<tr>
		<th>Categoria</th><th>Origem</th>
		<th>Receita Prevista no Ano (R$)</th>
		<th>Receita Arrecadada no Período (R$)</th>
		<th>Receita Recolhida no Período (R$)</th>
		<th>%Realizado</th><th>Detalhamento</th>
	</tr>
	<tr>
		<td>Receitas Correntes</td><td>Impostos</td>
		<td>1.234,56</td><td>100,00</td><td>99,50</td><td>8,10</td>
		<td><a href="/detalhe/1">Ver</a></td>
	</tr>
</table>
</body></html>`

var fixedNow = time.Date(2024, 2, 1, 10, 30, 0, 0, timezone.Location)

func newTestService(t testing.TB, baseUrl string, timeout time.Duration) *Service {
	client, err := transparencia.NewClient(transparencia.ClientOptions{
		BaseUrl: baseUrl,
		Timeout: timeout,
	})
	if err != nil {
		t.Fatal(err)
	}
	service := NewService(client, nil)
	service.now = func() time.Time { return fixedNow }
	return service
}

func TestFetch(t *testing.T) {
	ctx, cleanup := testutil.Setup(t, "services/receita")
	defer cleanup()

	portal := testutil.NewFakePortal(t, testutil.PortalOptions{Page: resultPage})
	service := newTestService(t, portal.URL(), time.Second*10)

	env := service.Fetch(ctx, "01/01/2024", "31/01/2024", "2024")
	require.Equal(t, http.StatusOK, env.Status)
	require.Equal(t, CodeSuccess, env.Code)
	require.Equal(t, MessageSuccess, env.Message)
	require.Equal(t, "2024-02-01T10:30:00.000-03:00", env.Datetime)
	require.Len(t, env.Results, 1)

	record := env.Results[0]
	require.Equal(t, transparencia.DataSource, record.DataSource)
	require.Equal(t, "01/01/2024", record.PeriodStart)
	require.Equal(t, "31/01/2024", record.PeriodEnd)
	require.Equal(t, "2024", record.FiscalYear)
	require.Equal(t, 1234.56, record.PlannedRevenueYear)
	require.Equal(t, "/detalhe/1", record.DetailLink)
}

func TestFetchEmptyResults(t *testing.T) {
	portal := testutil.NewFakePortal(t, testutil.PortalOptions{Page: "<html><body>Nenhum registro</body></html>"})
	service := newTestService(t, portal.URL(), time.Second*10)

	env := service.Fetch(context.Background(), "01/01/2024", "31/01/2024", "2024")
	require.Equal(t, http.StatusOK, env.Status)
	require.NotNil(t, env.Results)
	require.Empty(t, env.Results)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"code": 0,
		"message": "SUCCESS",
		"datetime": "2024-02-01T10:30:00.000-03:00",
		"results": []
	}`, string(body))
}

func TestFetchFailures(t *testing.T) {
	testCases := []struct {
		name     string
		portal   testutil.PortalOptions
		timeout  time.Duration
		start    string
		status   int
		code     int
		message  string
		requests int32
	}{
		{
			name:     "missing parameter",
			portal:   testutil.PortalOptions{Page: resultPage},
			timeout:  time.Second * 10,
			start:    "",
			status:   http.StatusUnprocessableEntity,
			code:     422,
			message:  "Unprocessable Entity",
			requests: 0,
		},
		{
			name:     "upstream unavailable",
			portal:   testutil.PortalOptions{ConsultStatus: http.StatusServiceUnavailable, Page: resultPage},
			timeout:  time.Second * 10,
			start:    "01/01/2024",
			status:   http.StatusBadGateway,
			code:     502,
			message:  "Bad Gateway",
			requests: 2,
		},
		{
			name:     "upstream timeout",
			portal:   testutil.PortalOptions{ConsultDelay: time.Second * 5, Page: resultPage},
			timeout:  time.Millisecond * 200,
			start:    "01/01/2024",
			status:   http.StatusGatewayTimeout,
			code:     504,
			message:  "Gateway Timeout",
			requests: 2,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			portal := testutil.NewFakePortal(t, test.portal)
			service := newTestService(t, portal.URL(), test.timeout)

			env := service.Fetch(context.Background(), test.start, "31/12/2024", "2024")
			require.Equal(t, test.status, env.Status)
			require.Equal(t, test.code, env.Code)
			require.Equal(t, test.message, env.Message)
			require.Nil(t, env.Results)
			require.Equal(t, test.requests, portal.Requests())

			body, err := json.Marshal(env)
			require.NoError(t, err)
			require.NotContains(t, string(body), "results")
		})
	}
}

func TestFailureInternal(t *testing.T) {
	env := Failure(fixedNow, transparencia.KindInternal)
	require.Equal(t, http.StatusInternalServerError, env.Status)
	require.Equal(t, CodeInternal, env.Code)
	require.Equal(t, MessageInternal, env.Message)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"code": 3,
		"message": "INTERNAL_SERVER_ERROR",
		"datetime": "2024-02-01T10:30:00.000-03:00"
	}`, string(body))
}
