package transparencia

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"transparencia-backend/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"
)

const (
	DefaultBaseUrl   = "https://transparencia.fortaleza.ce.gov.br"
	DefaultTimeout   = 180 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36 OPR/107.0.0.0"

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"

	landingPath = "/index.php/receita/index"
	consultPath = "/index.php/receita/consultar"
)

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// bounds a whole query (warm-up and search), defaults to DefaultTimeout
	Timeout time.Duration
	// defaults to DefaultUserAgent
	UserAgent string
	// the portal has served incomplete certificate chains in the past
	SkipTLSVerify bool
	// defaults to slog.Default()
	Logger *slog.Logger
	// builds the transport of each session, defaults to a clone of
	// http.DefaultTransport
	NewTransport func() http.RoundTripper
	// when set, every exchange with the portal is written to it
	DumpOutput restyutil.InstrumentOutput
}

// Client queries the portal's revenue search. it holds no per-query
// state, each Query runs in its own Session so concurrent queries never
// share cookies or headers.
type Client struct {
	baseUrl   *url.URL
	opts      ClientOptions
	logger    *slog.Logger
	extractor Extractor
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(strings.TrimSuffix(opts.BaseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseUrl)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.NewTransport == nil {
		opts.NewTransport = func() http.RoundTripper {
			return http.DefaultTransport.(*http.Transport).Clone()
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseUrl:   baseUrl,
		opts:      opts,
		logger:    logger,
		extractor: NewExtractor(logger),
	}, nil
}

// WithLogger returns a copy of the client that logs to logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	cp := *c
	cp.logger = logger
	cp.extractor = NewExtractor(logger)
	return &cp
}

// Timeout is the bound applied to each Query.
func (c *Client) Timeout() time.Duration {
	return c.opts.Timeout
}

// Query is a revenue search, dates are DD/MM/YYYY and FiscalYear is YYYY.
type Query struct {
	PeriodStart string
	PeriodEnd   string
	FiscalYear  string
}

// Validate only checks presence, formats are checked by the caller.
func (q Query) Validate() error {
	var missing []string
	if strings.TrimSpace(q.PeriodStart) == "" {
		missing = append(missing, "data_inicio")
	}
	if strings.TrimSpace(q.PeriodEnd) == "" {
		missing = append(missing, "data_fim")
	}
	if strings.TrimSpace(q.FiscalYear) == "" {
		missing = append(missing, "ano_exercicio")
	}
	if len(missing) > 0 {
		return &Error{
			Kind: KindInvalidInput,
			Op:   "validate",
			Err:  fmt.Errorf("missing parameters: %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// formValues are sent both as the query string and as the form body of
// the search request, the portal reads either.
func (q Query) formValues() map[string]string {
	return map[string]string{
		"exercicio":        q.FiscalYear,
		"txtDataIni":       q.PeriodStart,
		"txtDataFim":       q.PeriodEnd,
		"opcaoPesquisa":    "porReceita",
		"filtroPorReceita": "receitaSintetica",
		"filtroPorOrgao":   "0",
		"orgaoDesc":        "",
		"btnConsultar":     "Consultar",
	}
}

// Query runs a revenue search and returns its records. every returned
// error is an *Error.
func (c *Client) Query(ctx context.Context, q Query) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "client:Query")
	defer span.End()

	span.SetAttributes(
		attribute.String("period_start", q.PeriodStart),
		attribute.String("period_end", q.PeriodEnd),
		attribute.String("fiscal_year", q.FiscalYear),
	)

	err := q.Validate()
	if err != nil {
		c.logger.WarnContext(ctx, "rejected query", "err", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.logger.InfoContext(
		ctx, "fetching revenue records",
		"period_start", q.PeriodStart,
		"period_end", q.PeriodEnd,
		"fiscal_year", q.FiscalYear,
	)

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	records, err := c.recoverQuery(ctx, q)
	if err != nil {
		e := classify("query", err)
		c.logger.ErrorContext(ctx, "query failed", "kind", e.Kind.String(), "op", e.Op, "status", e.Status, "err", e.Err)
		span.RecordError(e)
		span.SetStatus(codes.Error, e.Kind.String())
		return nil, e
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	c.logger.InfoContext(ctx, "query finished", "records", len(records))
	return records, nil
}

// recoverQuery turns a panic anywhere in the pipeline into an internal
// error.
func (c *Client) recoverQuery(ctx context.Context, q Query) (records []Record, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		records = nil
		err = &Error{Kind: KindInternal, Op: "query", Err: fmt.Errorf("panic: %v", r)}
	}()
	return c.query(ctx, q)
}

func (c *Client) query(ctx context.Context, q Query) ([]Record, error) {
	session, err := c.openSession()
	if err != nil {
		return nil, &Error{Kind: KindInternal, Op: "session", Err: err}
	}
	defer session.Close()

	err = session.warmup(ctx)
	if err != nil {
		return nil, err
	}

	res, err := session.consult(ctx, q)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(ctx, res.Body(), res.Header().Get("Content-Type"))
	if err != nil {
		return nil, &Error{Kind: KindInternal, Op: "parse", Err: err}
	}

	records := c.extractor.Extract(ctx, doc)
	for i := range records {
		records[i].DataSource = DataSource
		records[i].PeriodStart = q.PeriodStart
		records[i].PeriodEnd = q.PeriodEnd
		records[i].FiscalYear = q.FiscalYear
	}
	return records, nil
}

// parseDocument decodes body using the charset declared by the response
// (or its <meta> tags) before handing it to goquery.
func parseDocument(ctx context.Context, body []byte, contentType string) (*goquery.Document, error) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("parse", trace.WithAttributes(
		attribute.Int("bytes", len(body)),
		attribute.String("content_type", contentType),
	))

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return goquery.NewDocumentFromReader(reader)
}
