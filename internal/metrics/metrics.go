// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"complaintdesk/backend/internal/events"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "complaintdesk"

// Metrics holds every collector on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ComplaintEvents *prometheus.CounterVec
	PublishFailures prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ComplaintEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaint_events_total",
			Help:      "Complaint mutations by event type.",
		}, []string{"type"}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Events that could not be handed to the event bus.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.ComplaintEvents,
		m.PublishFailures,
	)
	return m
}

// TrackClients exposes a gauge read from count on every scrape.
func (m *Metrics) TrackClients(count func() int) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Connected websocket clients.",
	}, func() float64 { return float64(count()) }))
}

// Middleware records one sample per request, labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// CountingPublisher counts events on their way to Next.
type CountingPublisher struct {
	Next    events.Publisher
	Metrics *Metrics
}

func (p *CountingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.Metrics.ComplaintEvents.WithLabelValues(string(ev.Type)).Inc()
	if err := p.Next.Publish(ctx, ev); err != nil {
		p.Metrics.PublishFailures.Inc()
		return err
	}
	return nil
}
