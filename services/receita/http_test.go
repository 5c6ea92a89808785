package receita

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t testing.TB, body io.Reader) map[string]any {
	var out map[string]any
	err := json.NewDecoder(body).Decode(&out)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestConsulta(t *testing.T) {
	portal := testutil.NewFakePortal(t, testutil.PortalOptions{Page: resultPage})
	h := NewHandler(newTestService(t, portal.URL(), time.Second*10), nil)

	rec := serve(h, httptest.NewRequest(
		http.MethodGet,
		EndpointPath+"?data_inicio=01/01/2024&data_fim=31/01/2024&ano_exercicio=2024",
		nil,
	))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	_, err := uuid.Parse(rec.Header().Get(requestIdHeader))
	require.NoError(t, err)

	body := decodeEnvelope(t, rec.Body)
	require.Equal(t, float64(0), body["code"])
	require.Equal(t, "SUCCESS", body["message"])
	results, ok := body["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)

	record := results[0].(map[string]any)
	require.Equal(t, "Receitas Correntes", record["category"])
	require.Equal(t, 8.1, record["percent_realized"])
	require.Equal(t, "/detalhe/1", record["detail_link"])
	require.Equal(t, "2024", record["fiscal_year"])
}

func TestConsultaInvalidParams(t *testing.T) {
	portal := testutil.NewFakePortal(t, testutil.PortalOptions{Page: resultPage})
	h := NewHandler(newTestService(t, portal.URL(), time.Second*10), nil)

	testCases := []string{
		"",
		"?data_inicio=01/01/2024&data_fim=31/01/2024",
		"?data_inicio=2024-01-01&data_fim=31/01/2024&ano_exercicio=2024",
		"?data_inicio=01/01/2024&data_fim=31/1/2024&ano_exercicio=2024",
		"?data_inicio=01/01/2024&data_fim=31/01/2024&ano_exercicio=24",
		"?data_inicio=01/01/2024&data_fim=31/01/2024&ano_exercicio=20245",
	}
	for _, query := range testCases {
		rec := serve(h, httptest.NewRequest(http.MethodGet, EndpointPath+query, nil))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, query)

		body := decodeEnvelope(t, rec.Body)
		require.Equal(t, float64(422), body["code"])
		require.Equal(t, "Unprocessable Entity", body["message"])
		require.NotContains(t, body, "results")
	}
	require.Equal(t, int32(0), portal.Requests())
}

func TestConsultaUpstreamError(t *testing.T) {
	portal := testutil.NewFakePortal(t, testutil.PortalOptions{ConsultStatus: http.StatusInternalServerError})
	h := NewHandler(newTestService(t, portal.URL(), time.Second*10), nil)

	rec := serve(h, httptest.NewRequest(
		http.MethodGet,
		EndpointPath+"?data_inicio=01/01/2024&data_fim=31/01/2024&ano_exercicio=2024",
		nil,
	))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeEnvelope(t, rec.Body)
	require.Equal(t, float64(502), body["code"])
	require.Equal(t, "Bad Gateway", body["message"])
}

func TestCors(t *testing.T) {
	h := NewHandler(newTestService(t, "http://127.0.0.1:1", time.Second), nil)

	req := httptest.NewRequest(http.MethodOptions, EndpointPath, nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "X-Custom")
	rec := serve(h, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, EndpointPath, nil)
	req.Header.Set("Origin", "https://example.com")
	rec = serve(h, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticAndDocs(t *testing.T) {
	h := NewHandler(newTestService(t, "http://127.0.0.1:1", time.Second), nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Transparência Receita Fortaleza")

	rec = serve(h, httptest.NewRequest(http.MethodGet, DocsPath+"doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, paths, EndpointPath)
}

func TestConsultaNonNumericCells(t *testing.T) {
	page := strings.Replace(resultPage, "<td>8,10</td>", "<td>NaN</td>", 1)
	portal := testutil.NewFakePortal(t, testutil.PortalOptions{Page: page})
	h := NewHandler(newTestService(t, portal.URL(), time.Second*10), nil)

	rec := serve(h, httptest.NewRequest(
		http.MethodGet,
		EndpointPath+"?data_inicio=01/01/2024&data_fim=31/01/2024&ano_exercicio=2024",
		nil,
	))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body)
	results, ok := body["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	require.Equal(t, float64(0), results[0].(map[string]any)["percent_realized"])
}

func TestWriteEnvelopeEncodeFailure(t *testing.T) {
	h := handler{
		service: newTestService(t, "http://127.0.0.1:1", time.Second),
		logger:  slog.Default(),
	}

	env := Success(fixedNow, []transparencia.Record{{PercentRealized: math.NaN()}})
	rec := httptest.NewRecorder()
	h.writeEnvelope(rec, env)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{
		"code": 3,
		"message": "INTERNAL_SERVER_ERROR",
		"datetime": "2024-02-01T10:30:00.000-03:00"
	}`, rec.Body.String())
}
