package middleware

import (
	"context"

	"google.golang.org/grpc"
)

// ChainUnaryInterceptors runs interceptors in order, outermost first.
// Nil entries are skipped so optional interceptors can be passed directly.
func ChainUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	active := make([]grpc.UnaryServerInterceptor, 0, len(interceptors))
	for _, i := range interceptors {
		if i != nil {
			active = append(active, i)
		}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		// Build chain from right to left
		chain := handler
		for i := len(active) - 1; i >= 0; i-- {
			interceptor, next := active[i], chain
			chain = func(ctx context.Context, req interface{}) (interface{}, error) {
				return interceptor(ctx, req, info, next)
			}
		}
		return chain(ctx, req)
	}
}
