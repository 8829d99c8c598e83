package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coinbot/config"
	"coinbot/domain/entities"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the ledger
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	balanceTransactionsCounter metric.Int64Counter
	wagersResolvedCounter      metric.Int64Counter
	accountsCreatedCounter     metric.Int64Counter
	storeOperationsCounter     metric.Int64Counter
	storeErrorsCounter         metric.Int64Counter
	storeOperationDurationHist metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider from configuration
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.OTelExporterType {
	case ExporterConsole:
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case ExporterOTLP:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case ExporterNone:
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	return mp.start(reader, true)
}

// InitializeWithReader wires the instruments to a caller-supplied reader without
// touching the global meter provider
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}
	return mp.start(reader, false)
}

// start must be called with mp.mu held
func (mp *MetricsProvider) start(reader sdkmetric.Reader, global bool) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	if global {
		otel.SetMeterProvider(mp.meterProvider)
	}

	mp.meter = mp.meterProvider.Meter("coinbot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.balanceTransactionsCounter, err = mp.meter.Int64Counter(
		BalanceTransactionsTotal,
		metric.WithDescription("Total number of balance transactions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create balance transactions counter: %w", err)
	}

	mp.wagersResolvedCounter, err = mp.meter.Int64Counter(
		WagersResolvedTotal,
		metric.WithDescription("Total number of resolved wagers"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wagers resolved counter: %w", err)
	}

	mp.accountsCreatedCounter, err = mp.meter.Int64Counter(
		AccountsCreatedTotal,
		metric.WithDescription("Total number of ledger accounts created"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create accounts created counter: %w", err)
	}

	mp.storeOperationsCounter, err = mp.meter.Int64Counter(
		StoreOperationsTotal,
		metric.WithDescription("Total number of ledger store operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create store operations counter: %w", err)
	}

	mp.storeErrorsCounter, err = mp.meter.Int64Counter(
		StoreErrorsTotal,
		metric.WithDescription("Total number of failed ledger store operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create store errors counter: %w", err)
	}

	mp.storeOperationDurationHist, err = mp.meter.Float64Histogram(
		StoreOperationDuration,
		metric.WithDescription("Duration of ledger store operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create store operation duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordBalanceTransaction records a balance transaction
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType entities.TransactionType) {
	if !mp.isEnabled() {
		return
	}

	mp.balanceTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelType, transactionType.String()),
			attribute.String(LabelCategory, transactionType.Category()),
		),
	)
}

// RecordWagerResolved records a settled wager
func (mp *MetricsProvider) RecordWagerResolved(game string, won bool) {
	if !mp.isEnabled() {
		return
	}

	mp.wagersResolvedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelGame, game),
			attribute.Bool(LabelWon, won),
		),
	)
}

// RecordAccountCreated records a new ledger account
func (mp *MetricsProvider) RecordAccountCreated() {
	if !mp.isEnabled() {
		return
	}

	mp.accountsCreatedCounter.Add(context.Background(), 1)
}

// RecordStoreOperation records a store call with its duration
func (mp *MetricsProvider) RecordStoreOperation(store, method string, duration time.Duration, err error) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelStore, store),
		attribute.String(LabelMethod, method),
	)

	mp.storeOperationsCounter.Add(context.Background(), 1, attrs)
	mp.storeOperationDurationHist.Record(context.Background(), duration.Seconds(), attrs)
	if err != nil {
		mp.storeErrorsCounter.Add(context.Background(), 1, attrs)
	}
}

// MeasureStoreOperation returns a function to measure a store call.
// Usage:
//
//	defer mp.MeasureStoreOperation("postgres", "ChangeBalance")(&err)
func (mp *MetricsProvider) MeasureStoreOperation(store, method string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		mp.RecordStoreOperation(store, method, time.Since(start), err)
	}
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
