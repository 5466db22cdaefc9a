package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Mutation metrics
	MutationsApplied  prometheus.Counter
	MutationsReplayed prometheus.Counter
	MutationErrors    *prometheus.CounterVec
	MutationDelta     prometheus.Histogram
	MutationsBySource *prometheus.CounterVec

	// Batch metrics
	BatchesProcessed prometheus.Counter
	BatchItems       *prometheus.CounterVec
	BatchSize        prometheus.Histogram

	// Query metrics
	BalanceLookups prometheus.Counter
	HistoryLookups prometheus.Counter

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		MutationsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_mutations_applied_total",
			Help: "Total number of ledger mutations applied",
		}),
		MutationsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_mutations_replayed_total",
			Help: "Total number of idempotent replays served",
		}),
		MutationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsync_mutation_errors_total",
				Help: "Total number of mutation errors by type",
			},
			[]string{"error_type"},
		),
		MutationDelta: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinsync_mutation_delta",
			Help:    "Absolute mutation amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		MutationsBySource: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsync_mutations_by_source_total",
				Help: "Total number of mutations by source tag",
			},
			[]string{"source"},
		),
		BatchesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_batches_processed_total",
			Help: "Total number of batch mutations processed",
		}),
		BatchItems: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinsync_batch_items_total",
				Help: "Total number of batch items by outcome",
			},
			[]string{"outcome"},
		),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinsync_batch_size",
			Help:    "Number of items per batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		BalanceLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_balance_lookups_total",
			Help: "Total number of balance lookups",
		}),
		HistoryLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_history_lookups_total",
			Help: "Total number of history lookups",
		}),
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_events_published_total",
			Help: "Total number of outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinsync_publish_errors_total",
			Help: "Total number of outbox publish failures",
		}),
	}
}
