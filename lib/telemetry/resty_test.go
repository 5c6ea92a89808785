package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInstrumentResty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Set-Cookie", "PHPSESSID=abc")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := resty.New().SetBaseURL(srv.URL)
	InstrumentResty(client, "test/resty")

	res, err := client.R().Get("/")
	require.NoError(t, err)
	require.Equal(t, "ok", res.String())

	res, err = client.R().
		SetFormData(map[string]string{"exercicio": "2024"}).
		Post("/consulta")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}

func recordRequestBody(t testing.TB, req *http.Request) map[string]string {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer provider.Shutdown(context.Background())

	_, span := provider.Tracer("test").Start(context.Background(), "request")
	instrumentRequestBody(span, req)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	return attrs
}

func TestInstrumentRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.NotContains(t, recordRequestBody(t, req), "request/body")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.GetBody = nil
	require.NotContains(t, recordRequestBody(t, req), "request/body")

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("exercicio=2024")), nil
	}
	require.Equal(t, "exercicio=2024", recordRequestBody(t, req)["request/body"])
}
