package transparencia

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"transparencia-backend/lib/restyutil"
	"transparencia-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Session is a single browsing session against the portal: its own
// cookie jar, header set and transport.
type Session struct {
	http       *resty.Client
	jar        http.CookieJar
	transport  http.RoundTripper
	landingUrl string
	logger     *slog.Logger
}

func (c *Client) openSession() (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	transport := c.opts.NewTransport()
	if transport == nil {
		return nil, fmt.Errorf("transport factory returned nil")
	}
	wrapped := cloudflarebp.AddCloudFlareByPass(transport)
	// the bypass replaces the TLS config of *http.Transport, so this has to
	// happen after wrapping
	if t, ok := transport.(*http.Transport); ok && c.opts.SkipTLSVerify {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = true
	}

	client := resty.NewWithClient(&http.Client{
		Transport: wrapped,
		Jar:       jar,
	})
	client.SetBaseURL(c.baseUrl.String())
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))
	client.SetLogger(restyLogger{logger: c.logger})
	client.SetHeaders(map[string]string{
		"User-Agent": c.opts.UserAgent,
		"Accept":     acceptHTML,
		"Host":       c.baseUrl.Host,
	})

	telemetry.InstrumentResty(client, "transparencia/http")
	restyutil.InstrumentClient(client, "receita-", c.opts.DumpOutput)

	return &Session{
		http:       client,
		jar:        jar,
		transport:  transport,
		landingUrl: c.baseUrl.String() + landingPath,
		logger:     c.logger,
	}, nil
}

// warmup loads the landing page so that the portal hands out its session
// cookies. its status is not checked, only transport failures abort.
func (s *Session) warmup(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session:warmup")
	defer span.End()

	res, err := s.http.R().
		SetContext(ctx).
		Get(landingPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch landing page")
		return classify("warmup", err)
	}

	cookies := s.cookieCount()
	span.SetAttributes(
		attribute.Int("status", res.StatusCode()),
		attribute.Int("cookies", cookies),
	)
	if res.StatusCode() != http.StatusOK {
		s.logger.WarnContext(ctx, "landing page returned unexpected status, continuing", "status", res.StatusCode())
	}
	s.logger.DebugContext(ctx, "landing page fetched", "url", s.landingUrl, "status", res.StatusCode(), "cookies", cookies)

	s.http.SetHeader("Referer", s.landingUrl)
	return nil
}

// consult submits the search, a non-200 answer is KindUpstreamUnavailable
// and its body is never looked at.
func (s *Session) consult(ctx context.Context, q Query) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "session:consult")
	defer span.End()

	params := q.formValues()
	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetFormData(params).
		Post(consultPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit search")
		return nil, classify("consult", err)
	}

	span.SetAttributes(attribute.Int("status", res.StatusCode()))
	s.logger.DebugContext(ctx, "search submitted", "status", res.StatusCode(), "bytes", len(res.Body()))

	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "portal rejected search")
		return nil, &Error{
			Kind:   KindUpstreamUnavailable,
			Op:     "consult",
			Status: res.StatusCode(),
			Err:    fmt.Errorf("portal responded with %s", res.Status()),
		}
	}
	return res, nil
}

func (s *Session) cookieCount() int {
	u, err := url.Parse(s.http.BaseURL)
	if err != nil {
		return 0
	}
	return len(s.jar.Cookies(u))
}

// Close releases the connections held by the session's transport.
func (s *Session) Close() {
	s.http.GetClient().CloseIdleConnections()
	closer, ok := s.transport.(interface{ CloseIdleConnections() })
	if ok {
		closer.CloseIdleConnections()
	}
}

type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
