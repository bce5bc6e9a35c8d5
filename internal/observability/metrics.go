package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/avrentops/rentalctl/internal/config"
)

type consoleMetrics struct {
	tokenRefreshCounter metric.Int64Counter
	reconcileOpCounter  metric.Int64Counter
	sessionEventCounter metric.Int64Counter
	repositoryCounter   metric.Int64Counter
}

var (
	metricsMu sync.RWMutex
	cm        *consoleMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Debug("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("rentalctl")
	refreshCounter, err := meter.Int64Counter("session.token_refresh.attempts")
	if err != nil {
		return nil, err
	}
	reconcileCounter, err := meter.Int64Counter("reconcile.operations")
	if err != nil {
		return nil, err
	}
	sessionCounter, err := meter.Int64Counter("session.events")
	if err != nil {
		return nil, err
	}
	repoCounter, err := meter.Int64Counter("repository.operations")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	cm = &consoleMetrics{
		tokenRefreshCounter: refreshCounter,
		reconcileOpCounter:  reconcileCounter,
		sessionEventCounter: sessionCounter,
		repositoryCounter:   repoCounter,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

// RecordTokenRefresh counts refresh attempts by outcome ("success",
// "failure").
func RecordTokenRefresh(status string) {
	metricsMu.RLock()
	m := cm
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.tokenRefreshCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("status", status)))
}

// RecordReconcileOperation counts individual create/update/delete calls by
// resource kind and outcome.
func RecordReconcileOperation(kind, op, status string) {
	metricsMu.RLock()
	m := cm
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.reconcileOpCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("op", op),
			attribute.String("status", status),
		),
	)
}

// RecordSessionEvent counts session lifecycle transitions ("login",
// "logout", "rehydrate", …) by outcome.
func RecordSessionEvent(event, status string) {
	metricsMu.RLock()
	m := cm
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.sessionEventCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("event", event),
			attribute.String("status", status),
		),
	)
}

// RecordRepositoryOperation counts database operations on the server side
// by entity, operation, and outcome ("success", "not_found", "error").
func RecordRepositoryOperation(ctx context.Context, entity, op, status string) {
	metricsMu.RLock()
	m := cm
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.repositoryCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("operation", op),
			attribute.String("status", status),
		),
	)
}
