package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func okHandler(ctx context.Context, req interface{}) (interface{}, error) {
	subject, _ := SubjectFromContext(ctx)
	return subject, nil
}

func incoming(kv ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(kv...))
}

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)

	token, expires, err := ti.Issue("admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	subject, err := ti.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)

	_, err = NewTokenIssuer("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)
	token, _, err := ti.Issue("admin")
	require.NoError(t, err)

	ti.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = ti.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthInterceptor(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, _, err := ti.Issue("admin")
	require.NoError(t, err)

	auth := NewAuthenticator(ti, []string{"dev-key-123"}, "/svc/Login")
	intercept := auth.UnaryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/DeleteMember"}

	tests := []struct {
		name    string
		ctx     context.Context
		method  string
		code    codes.Code
		subject string
	}{
		{"no metadata", context.Background(), "", codes.Unauthenticated, ""},
		{"no credentials", incoming("x-request-id", "1"), "", codes.Unauthenticated, ""},
		{"bearer token", incoming("authorization", "Bearer "+token), "", codes.OK, "admin"},
		{"bad token", incoming("authorization", "Bearer nope"), "", codes.Unauthenticated, ""},
		{"not bearer", incoming("authorization", "Basic abc"), "", codes.Unauthenticated, ""},
		{"api key", incoming("api-key", "dev-key-123"), "", codes.OK, "api-key"},
		{"bad api key", incoming("api-key", "wrong"), "", codes.Unauthenticated, ""},
		{"public method", context.Background(), "/svc/Login", codes.OK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callInfo := info
			if tt.method != "" {
				callInfo = &grpc.UnaryServerInfo{FullMethod: tt.method}
			}
			resp, err := intercept(tt.ctx, nil, callInfo, okHandler)
			assert.Equal(t, tt.code, status.Code(err))
			if err == nil {
				assert.Equal(t, tt.subject, resp)
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) grpc.UnaryServerInterceptor {
		return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, h grpc.UnaryHandler) (interface{}, error) {
			order = append(order, name)
			return h(ctx, req)
		}
	}

	chain := ChainUnaryInterceptors(mark("a"), nil, mark("b"))
	_, err := chain(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, interface{}) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestRecoveryAndLogging(t *testing.T) {
	logger := zaptest.NewLogger(t)
	chain := ChainUnaryInterceptors(UnaryLoggingInterceptor(logger), UnaryRecoveryInterceptor(logger))

	_, err := chain(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Boom"},
		func(context.Context, interface{}) (interface{}, error) { panic("boom") })
	assert.Equal(t, codes.Internal, status.Code(err))

	resp, err := chain(context.Background(), "req", &grpc.UnaryServerInfo{FullMethod: "/svc/Ok"},
		func(_ context.Context, req interface{}) (interface{}, error) { return req, nil })
	require.NoError(t, err)
	assert.Equal(t, "req", resp)
}

type warnedResponse struct{ warnings []string }

func (r *warnedResponse) GetWarnings() []string { return r.warnings }

func TestLoggingRecordsCaller(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, _, err := ti.Issue("admin")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	auth := NewAuthenticator(ti, nil)
	chain := ChainUnaryInterceptors(UnaryLoggingInterceptor(zap.New(core)), auth.UnaryInterceptor())

	_, err = chain(incoming("authorization", "Bearer "+token), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/DeleteEvent"},
		func(context.Context, interface{}) (interface{}, error) {
			return &warnedResponse{warnings: []string{"blob delete failed"}}, nil
		})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "admin", fields["admin"])
	assert.Equal(t, "/svc/DeleteEvent", fields["method"])
	assert.Len(t, fields["warnings"], 1)
}
