package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector owns the gRPC server metrics and the blob store counters.
type MetricsCollector struct {
	registry        *prometheus.Registry
	serverMetrics   *grpcprom.ServerMetrics
	uploads         *prometheus.CounterVec
	cleanupFailures *prometheus.CounterVec
}

// InitMetrics registers every collector on a fresh registry.
func InitMetrics() (*MetricsCollector, error) {
	serverMetrics := grpcprom.NewServerMetrics(
		grpcprom.WithServerHandlingTimeHistogram(
			grpcprom.WithHistogramBuckets([]float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10}),
		),
	)

	mc := &MetricsCollector{
		registry:      prometheus.NewRegistry(),
		serverMetrics: serverMetrics,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustsite_blob_uploads_total",
			Help: "Blob uploads by namespace and result.",
		}, []string{"namespace", "result"}),
		cleanupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustsite_blob_cleanup_failures_total",
			Help: "Best-effort blob deletions that failed.",
		}, []string{"namespace"}),
	}

	for _, c := range []prometheus.Collector{
		serverMetrics,
		mc.uploads,
		mc.cleanupFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := mc.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return mc, nil
}

// GetServerMetrics returns the gRPC server metrics
func (mc *MetricsCollector) GetServerMetrics() *grpcprom.ServerMetrics {
	return mc.serverMetrics
}

// GetHandler returns the HTTP handler for /metrics endpoint
func (mc *MetricsCollector) GetHandler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}

func (mc *MetricsCollector) UploadFinished(namespace string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	mc.uploads.WithLabelValues(namespace, result).Inc()
}

func (mc *MetricsCollector) CleanupFailed(namespace, _ string, _ error) {
	mc.cleanupFailures.WithLabelValues(namespace).Inc()
}

// StartMetricsServer serves /metrics and /health on port until ctx is done.
func StartMetricsServer(ctx context.Context, port string, mc *MetricsCollector, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", mc.GetHandler())

	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("starting metrics server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
