// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ai_chat"

// Completion outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeUpstream = "upstream_error"
	OutcomeError    = "error"
)

// RouteUnmatched labels requests that hit no registered route.
const RouteUnmatched = "unmatched"

// ModelOther labels completions for any model but the configured default.
const ModelOther = "other"

// Collector owns a private registry so tests can build as many as they like.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	completionDuration *prometheus.HistogramVec
	chatsSaved         prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		// Provider latencies run from sub-second up to the 30s timeout.
		completionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "completion",
				Name:      "duration_seconds",
				Help:      "Latency of completion provider calls",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"model", "outcome"},
		),
		chatsSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "chats_saved_total",
				Help:      "Chats persisted",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.completionDuration,
		c.chatsSaved,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (c *Collector) RecordCompletion(model, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.completionDuration.WithLabelValues(model, outcome).Observe(duration.Seconds())
}

func (c *Collector) RecordChatSaved() {
	if c == nil {
		return
	}
	c.chatsSaved.Inc()
}

// Middleware counts every request once its final status is known, resolving
// chain errors through the app's error handler first.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		if chainErr := ctx.Next(); chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// Route patterns are fixed at registration. Request paths are not, and
		// fiber hands them out as views into a reused buffer.
		route := RouteUnmatched
		if r := ctx.Route(); r != nil && r.Path != "/" {
			route = r.Path
		}
		c.RecordRequest(route, utils.CopyString(ctx.Method()), ctx.Response().StatusCode(), time.Since(start))
		return nil
	}
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.Registry(), promhttp.HandlerOpts{}))
}
