package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type subjectKey struct{}

// Authenticator admits admin RPCs carrying either a bearer token from
// TokenIssuer or one of the configured API keys.
type Authenticator struct {
	tokens  *TokenIssuer
	apiKeys map[string]bool
	public  map[string]bool
}

// NewAuthenticator builds an Authenticator. publicMethods are full method
// names (e.g. "/pkg.Service/Login") that skip authentication.
func NewAuthenticator(tokens *TokenIssuer, apiKeys []string, publicMethods ...string) *Authenticator {
	a := &Authenticator{
		tokens:  tokens,
		apiKeys: make(map[string]bool, len(apiKeys)),
		public:  make(map[string]bool, len(publicMethods)),
	}
	for _, k := range apiKeys {
		a.apiKeys[k] = true
	}
	for _, m := range publicMethods {
		a.public[m] = true
	}
	return a
}

// UnaryInterceptor validates credentials from metadata and stores the caller
// in the context.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if a.public[info.FullMethod] {
			return handler(ctx, req)
		}
		subject, err := a.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		noteSubject(ctx, subject)
		return handler(context.WithValue(ctx, subjectKey{}, subject), req)
	}
}

func (a *Authenticator) authenticate(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}

	if values := md.Get("authorization"); len(values) > 0 {
		raw, found := strings.CutPrefix(values[0], "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			return "", status.Error(codes.Unauthenticated, "malformed authorization header")
		}
		subject, err := a.tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			return "", status.Error(codes.Unauthenticated, "invalid token")
		}
		return subject, nil
	}

	if keys := md.Get("api-key"); len(keys) > 0 {
		if !a.apiKeys[keys[0]] {
			return "", status.Error(codes.Unauthenticated, "invalid api-key")
		}
		return "api-key", nil
	}

	return "", status.Error(codes.Unauthenticated, "missing credentials")
}

// SubjectFromContext returns the caller admitted by the interceptor.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}
