package observability

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "ngmod"

var (
	// Audit logger for moderation records; a no-op until Init.
	auditLogger = zap.NewNop()
	auditMu     sync.RWMutex

	registerOnce   sync.Once
	tracerProvider *trace.TracerProvider

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ngmod",
			Name:      "commands_total",
			Help:      "Moderation commands by outcome",
		},
		[]string{"command", "outcome"},
	)

	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ngmod",
			Name:      "command_duration_seconds",
			Help:      "Time spent handling moderation commands",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	gateDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ngmod",
		Name:      "gate_deleted_messages_total",
		Help:      "Messages of soft-muted members deleted by the gate",
	})

	gateWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ngmod",
		Name:      "gate_warnings_total",
		Help:      "Time-left notices sent to soft-muted members",
	})
)

// Init registers metrics, installs the tracer provider and the audit logger.
// activeMutes feeds the active tempmute gauge and may be nil.
func Init(ctx context.Context, activeMutes func() int) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	auditMu.Lock()
	auditLogger = logger.Named("audit")
	auditMu.Unlock()

	registerOnce.Do(func() {
		prometheus.MustRegister(commandsTotal, commandDuration, gateDeletedTotal, gateWarningsTotal)
		if activeMutes != nil {
			prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "ngmod",
				Name:      "active_tempmutes",
				Help:      "Soft mutes currently tracked in memory",
			}, func() float64 {
				return float64(activeMutes())
			}))
		}
		tracerProvider = trace.NewTracerProvider()
		otel.SetTracerProvider(tracerProvider)
	})
	return nil
}

// Shutdown flushes the audit logger and the tracer provider.
func Shutdown(ctx context.Context) error {
	_ = Audit().Sync()
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}

func Audit() *zap.Logger {
	auditMu.RLock()
	defer auditMu.RUnlock()
	return auditLogger
}

func Tracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// RecordCommand counts a finished command
func RecordCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

// StartCommand returns a function that records the command duration
func StartCommand(command string) func() {
	timer := prometheus.NewTimer(commandDuration.WithLabelValues(command))
	return func() {
		timer.ObserveDuration()
	}
}

func RecordGateDeletion() {
	gateDeletedTotal.Inc()
}

func RecordGateWarning() {
	gateWarningsTotal.Inc()
}
