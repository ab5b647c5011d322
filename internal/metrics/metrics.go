package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	RoundsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRoundsResolved,
			Help: HelpTextRoundsResolved,
		},
		[]string{LabelColor},
	)

	StakesPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStakesPlaced,
			Help: HelpTextStakesPlaced,
		},
		[]string{LabelColor},
	)

	PointsStaked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsStaked,
			Help: HelpTextPointsStaked,
		},
	)

	PointsWon = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsWon,
			Help: HelpTextPointsWon,
		},
	)
)

// Persistence Metrics
var (
	SavesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSavesPersisted,
			Help: HelpTextSavesPersisted,
		},
	)

	SavesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSavesDropped,
			Help: HelpTextSavesDropped,
		},
		[]string{LabelReason},
	)

	LoadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLoadFailures,
			Help: HelpTextLoadFailures,
		},
	)
)

// Session Metrics
var (
	SignInsBlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSignInsBlocked,
			Help: HelpTextSignInsBlocked,
		},
	)
)
