package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitrack_http_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitrack_http_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain metrics
	registrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitrack_registrations_total",
			Help: "Total number of accounts registered",
		},
	)

	mealsLoggedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitrack_meals_logged_total",
			Help: "Total number of meal entries logged by meal type",
		},
		[]string{"meal_type"},
	)

	workoutsLoggedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitrack_workouts_logged_total",
			Help: "Total number of workout entries logged by exercise type",
		},
		[]string{"exercise_type"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(registrationsTotal)
	prometheus.MustRegister(mealsLoggedTotal)
	prometheus.MustRegister(workoutsLoggedTotal)
}

// metricsMiddleware records request count and latency per matched route.
// Unmatched paths share one label value to keep cardinality bounded.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// metricsHandler returns the Prometheus HTTP handler.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
