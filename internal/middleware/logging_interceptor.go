package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// callLog is filled in by inner interceptors so the outer log line can
// report who made the call.
type callLog struct {
	subject string
}

type callLogKey struct{}

func noteSubject(ctx context.Context, subject string) {
	if cl, ok := ctx.Value(callLogKey{}).(*callLog); ok {
		cl.subject = subject
	}
}

// warner is implemented by admin responses that carry cleanup warnings.
type warner interface {
	GetWarnings() []string
}

// UnaryLoggingInterceptor logs each admin call with its caller, outcome and
// any blob cleanup warnings it produced.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		cl := &callLog{}

		resp, err := handler(context.WithValue(ctx, callLogKey{}, cl), req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", code.String()),
		}
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 {
				fields = append(fields, zap.String("request_id", ids[0]))
			}
		}
		if cl.subject != "" {
			fields = append(fields, zap.String("admin", cl.subject))
		}

		level := zapcore.InfoLevel
		switch code {
		case codes.OK:
			if w, ok := resp.(warner); ok && len(w.GetWarnings()) > 0 {
				level = zapcore.WarnLevel
				fields = append(fields, zap.Strings("warnings", w.GetWarnings()))
			}
		case codes.InvalidArgument, codes.NotFound, codes.Unauthenticated, codes.PermissionDenied:
			// Caller mistakes, not server faults.
			level = zapcore.WarnLevel
			fields = append(fields, zap.String("reason", status.Convert(err).Message()))
		default:
			level = zapcore.ErrorLevel
			fields = append(fields, zap.Error(err))
		}

		logger.Check(level, "admin call").Write(fields...)
		return resp, err
	}
}
