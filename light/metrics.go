package light

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"

	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "light"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of header updates, labeled by whether they were accepted.
	HeaderUpdates metrics.Counter
	// Number of validator sets learned from epoch-rotation blocks.
	ValidatorSetRotations metrics.Counter
	// Number of times the client was frozen on verified misbehaviour.
	MisbehaviourFrozen metrics.Counter
	// Latest trusted height.
	LatestHeight metrics.Gauge
	// Time spent verifying, labeled by operation.
	VerificationSeconds metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	// cap == len, so each append below allocates its own label slice
	labels = labels[:len(labels):len(labels)]
	return &Metrics{
		HeaderUpdates: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "header_updates",
			Help:      "Number of header updates, labeled by whether they were accepted.",
		}, append(labels, "status")).With(labelsAndValues...),
		ValidatorSetRotations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "validator_set_rotations",
			Help:      "Number of validator sets learned from epoch-rotation blocks.",
		}, labels).With(labelsAndValues...),
		MisbehaviourFrozen: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "misbehaviour_frozen",
			Help:      "Number of times the client was frozen on verified misbehaviour.",
		}, labels).With(labelsAndValues...),
		LatestHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "latest_height",
			Help:      "Latest trusted height.",
		}, labels).With(labelsAndValues...),
		VerificationSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "verification_seconds",
			Help:      "Time spent verifying, labeled by operation.",
			Buckets:   stdprometheus.ExponentialBuckets(0.0005, 2, 12),
		}, append(labels, "operation")).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		HeaderUpdates:         discard.NewCounter(),
		ValidatorSetRotations: discard.NewCounter(),
		MisbehaviourFrozen:    discard.NewCounter(),
		LatestHeight:          discard.NewGauge(),
		VerificationSeconds:   discard.NewHistogram(),
	}
}
