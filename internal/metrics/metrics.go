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

// Business Metrics
var (
	PacksOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePacksOpened,
			Help: HelpTextPacksOpened,
		},
		[]string{LabelPack},
	)

	CardsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCardsSold,
			Help: HelpTextCardsSold,
		},
		[]string{LabelRarity},
	)

	CardsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCardsConverted,
			Help: HelpTextCardsConverted,
		},
	)

	CardsShipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCardsShipped,
			Help: HelpTextCardsShipped,
		},
	)

	CreditsEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreditsEarned,
			Help: HelpTextCreditsEarned,
		},
	)

	CreditsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCreditsSpent,
			Help: HelpTextCreditsSpent,
		},
	)
)
