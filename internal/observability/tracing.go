package observability

import (
	"context"
	"io"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc/stats"
)

// InitTracerProvider builds a tracer provider with the stdout exporter.
// When disabled, spans are still recorded but written to io.Discard.
func InitTracerProvider(enabled bool, logger *zap.Logger) (*trace.TracerProvider, error) {
	opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if !enabled {
		opts = append(opts, stdouttrace.WithWriter(io.Discard))
	}

	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		logger.Error("failed to create trace exporter", zap.Error(err))
		return nil, err
	}

	return trace.NewTracerProvider(trace.WithBatcher(exporter)), nil
}

// ShutdownTracerProvider gracefully shuts down the tracer provider
func ShutdownTracerProvider(ctx context.Context, tp *trace.TracerProvider, logger *zap.Logger) {
	if err := tp.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown tracer provider", zap.Error(err))
	}
}

// ServerStatsHandler instruments a gRPC server with tp.
func ServerStatsHandler(tp *trace.TracerProvider) stats.Handler {
	return otelgrpc.NewServerHandler(otelgrpc.WithTracerProvider(tp))
}

// ClientStatsHandler instruments a gRPC client connection with tp.
func ClientStatsHandler(tp *trace.TracerProvider) stats.Handler {
	return otelgrpc.NewClientHandler(otelgrpc.WithTracerProvider(tp))
}
