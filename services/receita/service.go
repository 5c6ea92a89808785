package receita

import (
	"context"
	"log/slog"
	"time"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("transparencia.services.receita")
var meter = otel.Meter("transparencia.services.receita")

type requestIdKey struct{}

// WithRequestId tags ctx so that everything logged for the request
// carries `id`.
func WithRequestId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIdKey{}, id)
}

func requestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

type Service struct {
	client  *transparencia.Client
	logger  *slog.Logger
	now     func() time.Time
	fetches metric.Int64Counter
}

func NewService(client *transparencia.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	fetches, err := meter.Int64Counter(
		"receita.fetch",
		metric.WithDescription("revenue queries served, by outcome"),
	)
	if err != nil {
		logger.Warn("failed to create fetch counter", "err", err)
	}
	return &Service{
		client:  client,
		logger:  logger,
		now:     timezone.Now,
		fetches: fetches,
	}
}

// Fetch runs a revenue query and wraps its outcome in an Envelope, it
// never fails: every error is mapped to a failure envelope and logged.
func (s *Service) Fetch(ctx context.Context, periodStart, periodEnd, fiscalYear string) Envelope {
	ctx, span := tracer.Start(ctx, "service:Fetch")
	defer span.End()

	logger := s.logger
	if id := requestId(ctx); id != "" {
		logger = logger.With("request_id", id)
	}

	records, err := s.client.WithLogger(logger).Query(ctx, transparencia.Query{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		FiscalYear:  fiscalYear,
	})
	if err != nil {
		kind := transparencia.KindOf(err)
		env := Failure(s.now(), kind)
		logger.ErrorContext(ctx, "fetch failed", "status", env.Status, "kind", kind.String(), "err", err)
		s.count(ctx, kind.String())
		return env
	}

	s.count(ctx, "success")
	return Success(s.now(), records)
}

func (s *Service) count(ctx context.Context, outcome string) {
	if s.fetches == nil {
		return
	}
	s.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
