package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/minglemakers/minglemakers-api/internal/domains/orders/application/types"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
	"github.com/minglemakers/minglemakers-api/internal/shared/auth"
)

const tracerName = "github.com/minglemakers/minglemakers-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order lifecycle port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// AdvanceStatus moves an order one step forward with instrumentation.
func (s *Service) AdvanceStatus(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.AdvanceStatus", attribute.String("order.id", id.ID))
	defer span.End()

	s.logInfo(ctx, "advancing order", slog.String("order.id", id.ID))
	order, err := s.inner.AdvanceStatus(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to advance order", slog.String("order.id", id.ID))
	}
	changed := false
	for _, event := range order.Events() {
		switch e := event.(type) {
		case domain.StatusAdvanced:
			changed = true
			s.metrics.recordAdvanced(ctx, e.From, e.To)
		case domain.PaymentReleased:
			s.metrics.recordReleased(ctx)
			s.logInfo(ctx, "escrow released", slog.String("order.id", e.OrderID), slog.String("price", e.Price.String()))
		}
	}
	span.SetAttributes(
		attribute.String("order.status", order.Status.String()),
		attribute.Bool("order.changed", changed),
	)
	s.logInfo(ctx, "order advanced", slog.String("order.id", order.ID), slog.String("status", order.Status.String()), slog.Bool("changed", changed))
	return order, nil
}

// ListOrders returns orders matching a filter.
func (s *Service) ListOrders(ctx context.Context, filter ordertypes.ListOrdersFilter) ([]*domain.Order, error) {
	status := ""
	if filter.Status != nil {
		status = filter.Status.String()
	}
	ctx, span := s.startSpan(ctx, "Service.ListOrders",
		attribute.String("order.filter.status", status),
		attribute.String("order.filter.text", filter.Text),
	)
	defer span.End()

	s.logInfo(ctx, "listing orders", slog.String("status", status), slog.String("q", filter.Text))
	result, err := s.inner.ListOrders(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	s.logInfo(ctx, "listed orders", slog.Int("count", len(result)))
	return result, nil
}

// GetOrder loads one order.
func (s *Service) GetOrder(ctx context.Context, id ordertypes.OrderIdentifier) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", id.ID))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id.ID))
	}
	return result, nil
}

// PlaceOrder records a new order.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.PlaceOrder", attribute.String("order.buyer", input.Buyer))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("buyer", input.Buyer), slog.String("material", input.Material))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("buyer", input.Buyer))
	}
	s.metrics.recordPlaced(ctx)
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID))
	return result, nil
}

// Summary aggregates order counts and escrow totals.
func (s *Service) Summary(ctx context.Context) (*ordertypes.Summary, error) {
	ctx, span := s.startSpan(ctx, "Service.Summary")
	defer span.End()

	result, err := s.inner.Summary(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to summarise orders")
	}
	return result, nil
}

// Seed writes fixture orders into an empty store.
func (s *Service) Seed(ctx context.Context, orders []*domain.Order) (bool, error) {
	ctx, span := s.startSpan(ctx, "Service.Seed", attribute.Int("order.seed.count", len(orders)))
	defer span.End()

	seeded, err := s.inner.Seed(ctx, orders)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to seed orders")
	}
	span.SetAttributes(attribute.Bool("order.seeded", seeded))
	s.logInfo(ctx, "seed checked", slog.Bool("seeded", seeded), slog.Int("count", len(orders)))
	return seeded, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if p, ok := auth.PrincipalFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("enduser.id", p.Subject), attribute.String("enduser.role", string(p.Role)))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, withActor(ctx, attrs)...)
}

// withActor tags log lines with the authenticated caller.
func withActor(ctx context.Context, attrs []slog.Attr) []slog.Attr {
	if p, ok := auth.PrincipalFromContext(ctx); ok {
		return append(attrs, slog.String("actor", p.Subject))
	}
	return attrs
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, withActor(ctx, attrs)...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	statusAdvanced metric.Int64Counter
	escrowReleased metric.Int64Counter
	ordersPlaced   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	statusAdvanced, _ := m.Int64Counter("orders.service.status_advanced", metric.WithDescription("Number of effective status transitions"))
	escrowReleased, _ := m.Int64Counter("orders.service.escrow_released", metric.WithDescription("Number of orders whose escrow was released"))
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	return serviceMetrics{
		statusAdvanced: statusAdvanced,
		escrowReleased: escrowReleased,
		ordersPlaced:   ordersPlaced,
	}
}

func (m serviceMetrics) recordAdvanced(ctx context.Context, from, to domain.Status) {
	addCounter(ctx, m.statusAdvanced, 1,
		attribute.String("order.status.from", from.String()),
		attribute.String("order.status.to", to.String()),
	)
}

func (m serviceMetrics) recordReleased(ctx context.Context) {
	addCounter(ctx, m.escrowReleased, 1)
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	addCounter(ctx, m.ordersPlaced, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
