package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	connectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hlsignd",
			Subsystem: "socket",
			Name:      "connections_total",
			Help:      "Total accepted client connections.",
		},
	)
	openConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hlsignd",
			Subsystem: "socket",
			Name:      "open_connections",
			Help:      "Currently open client connections.",
		},
	)
	framesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hlsignd",
			Subsystem: "socket",
			Name:      "frames_rejected_total",
			Help:      "Request frames that never reached the handler.",
		},
		[]string{"reason"},
	)
	signRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hlsignd",
			Subsystem: "sign",
			Name:      "requests_total",
			Help:      "Signing requests by outcome.",
		},
		[]string{"outcome"},
	)
	signDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hlsignd",
			Subsystem: "sign",
			Name:      "request_duration_seconds",
			Help:      "Signing request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			connectionsTotal,
			openConnections,
			framesRejected,
			signRequests,
			signDuration,
		)
	})
}

func RecordConnectionOpened() {
	RegisterMetrics()
	connectionsTotal.Inc()
	openConnections.Inc()
}

func RecordConnectionClosed() {
	RegisterMetrics()
	openConnections.Dec()
}

func RecordFrameRejected(reason string) {
	RegisterMetrics()
	framesRejected.WithLabelValues(reason).Inc()
}

func RecordSignRequest(outcome string, duration time.Duration) {
	RegisterMetrics()
	signRequests.WithLabelValues(outcome).Inc()
	signDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ServeMetrics serves the Prometheus scrape endpoint on addr until ctx
// is cancelled.
func ServeMetrics(ctx context.Context, addr string) error {
	RegisterMetrics()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
