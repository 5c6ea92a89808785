package receita

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"
	"transparencia-backend/lib/scrapers/transparencia"

	_ "transparencia-backend/docs"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	EndpointPath = "/api/transparencia-receita-fortaleza/consulta"
	DocsPath     = EndpointPath + "/docs/"

	requestIdHeader = "X-Request-Id"
)

var (
	datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	yearPattern = regexp.MustCompile(`^\d{4}$`)
)

//go:embed static
var staticFiles embed.FS

// NewHandler serves the consulta endpoint, its API docs and the landing
// page, with CORS and tracing applied to all of them.
func NewHandler(service *Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := handler{service: service, logger: logger}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+EndpointPath, h.consulta)
	mux.Handle("GET "+DocsPath, httpSwagger.Handler(
		httpSwagger.URL(DocsPath+"doc.json"),
	))
	mux.Handle("GET /", http.FileServerFS(static))

	return allowCors(otelhttp.NewHandler(
		mux, "receita",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "http " + r.Method + " " + r.URL.Path
		}),
	))
}

type handler struct {
	service *Service
	logger  *slog.Logger
}

// consulta queries the portal's revenue records
//
//	@Summary		Query revenue records
//	@Description	Submits the search to the Fortaleza transparency portal and returns the rows of its revenue table
//	@Tags			receita
//	@Produce		json
//	@Param			data_inicio		query		string	true	"period start (DD/MM/YYYY)"	example(01/01/2024)
//	@Param			data_fim		query		string	true	"period end (DD/MM/YYYY)"	example(31/01/2024)
//	@Param			ano_exercicio	query		string	true	"fiscal year (YYYY)"		example(2024)
//	@Success		200				{object}	Envelope
//	@Failure		422				{object}	Envelope
//	@Failure		500				{object}	Envelope
//	@Failure		502				{object}	Envelope
//	@Failure		504				{object}	Envelope
//	@Router			/api/transparencia-receita-fortaleza/consulta [get]
func (h handler) consulta(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(requestIdHeader, id)
	ctx := WithRequestId(r.Context(), id)

	query := r.URL.Query()
	periodStart := query.Get("data_inicio")
	periodEnd := query.Get("data_fim")
	fiscalYear := query.Get("ano_exercicio")

	invalid := invalidParams(periodStart, periodEnd, fiscalYear)
	if len(invalid) > 0 {
		h.logger.WarnContext(ctx, "rejected request", "request_id", id, "invalid", invalid)
		h.writeEnvelope(w, Failure(h.service.now(), transparencia.KindInvalidInput))
		return
	}

	h.logger.InfoContext(
		ctx, "consulta",
		"request_id", id,
		"data_inicio", periodStart,
		"data_fim", periodEnd,
		"ano_exercicio", fiscalYear,
	)
	env := h.service.Fetch(ctx, periodStart, periodEnd, fiscalYear)
	h.writeEnvelope(w, env)
}

func invalidParams(periodStart, periodEnd, fiscalYear string) []string {
	var invalid []string
	if !datePattern.MatchString(periodStart) {
		invalid = append(invalid, "data_inicio")
	}
	if !datePattern.MatchString(periodEnd) {
		invalid = append(invalid, "data_fim")
	}
	if !yearPattern.MatchString(fiscalYear) {
		invalid = append(invalid, "ano_exercicio")
	}
	return invalid
}

func encodeEnvelope(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(env)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeEnvelope encodes env before writing the status line, an envelope
// that cannot be encoded is replaced by the internal error one.
func (h handler) writeEnvelope(w http.ResponseWriter, env Envelope) {
	body, err := encodeEnvelope(env)
	if err != nil {
		h.logger.Error("failed to encode response", "code", env.Code, "err", err)
		env = Failure(h.service.now(), transparencia.KindInternal)
		body, err = encodeEnvelope(env)
		if err != nil {
			h.logger.Error("failed to encode internal error response", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(env.Status)
	_, err = w.Write(body)
	if err != nil {
		h.logger.Error("failed to write response", "err", err)
	}
}
