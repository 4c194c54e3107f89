package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/PaulBabatuyi/TrustSite/internal/cache"
	"github.com/PaulBabatuyi/TrustSite/internal/media"
	"github.com/PaulBabatuyi/TrustSite/internal/middleware"
	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"github.com/PaulBabatuyi/TrustSite/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Options configures an AdminServer.
type Options struct {
	Managers *service.Managers
	Tokens   *middleware.TokenIssuer
	Cache    cache.Cache // optional

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	MaxUploadBytes    int64
	UploadConcurrency int64
	Logger            *zap.Logger
}

// AdminServer implements AdminService over the lifecycle managers.
type AdminServer struct {
	managers *service.Managers
	tokens   *middleware.TokenIssuer
	cache    cache.Cache

	username     string
	password     string
	passwordHash []byte

	maxUploadBytes int64
	uploadSem      *semaphore.Weighted
	log            *zap.Logger
}

var _ AdminService = (*AdminServer)(nil)

func NewAdminServer(opts Options) *AdminServer {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 4
	}
	return &AdminServer{
		managers:       opts.Managers,
		tokens:         opts.Tokens,
		cache:          opts.Cache,
		username:       opts.AdminUsername,
		password:       opts.AdminPassword,
		passwordHash:   []byte(opts.AdminPasswordHash),
		maxUploadBytes: opts.MaxUploadBytes,
		uploadSem:      semaphore.NewWeighted(opts.UploadConcurrency),
		log:            opts.Logger.Named("admin"),
	}
}

// PublicMethods lists the methods callable without credentials.
func PublicMethods() []string {
	return []string{FullMethod("Login")}
}

func (s *AdminServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}
	if !s.checkCredentials(req.Username, req.Password) {
		s.log.Warn("admin login rejected", zap.String("username", req.Username))
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	token, expires, err := s.tokens.Issue(req.Username)
	if err != nil {
		s.log.Error("failed to issue token", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to issue token")
	}
	return &LoginResponse{Token: token, ExpiresAt: expires}, nil
}

func (s *AdminServer) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	switch {
	case len(s.passwordHash) > 0:
		return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil && userOK
	case s.password != "":
		return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1 && userOK
	}
	// No password configured: login is disabled, API keys still work.
	return false
}

// MaxAttachmentsPerCall bounds the attachments a single admin call may carry.
const MaxAttachmentsPerCall = 8

// MaxRecvMsgSize is the largest admin message the server must accept when
// every attachment is at the upload limit. Attachments travel base64 encoded
// in the JSON body, which grows them by 4/3. One extra MiB covers the fields.
func MaxRecvMsgSize(maxUploadBytes int64) int {
	encoded := (maxUploadBytes*4 + 2) / 3
	return int(encoded*MaxAttachmentsPerCall) + (1 << 20)
}

// admitUploads checks attachment sizes and types and takes an upload slot. The returned
// release func must be called once the request is done.
func (s *AdminServer) admitUploads(ctx context.Context, atts ...*models.Attachment) (func(), error) {
	n := 0
	for _, att := range atts {
		if att == nil {
			continue
		}
		n++
		if len(att.Data) == 0 {
			return nil, status.Errorf(codes.InvalidArgument, "attachment %q is empty", att.Filename)
		}
		if s.maxUploadBytes > 0 && int64(len(att.Data)) > s.maxUploadBytes {
			return nil, status.Errorf(codes.InvalidArgument, "attachment %q exceeds %d bytes", att.Filename, s.maxUploadBytes)
		}
		att.ContentType = media.ResolveContentType(att.Data, att.ContentType)
		if !media.IsImage(att.ContentType) {
			return nil, status.Errorf(codes.InvalidArgument, "attachment %q is not an image", att.Filename)
		}
	}
	if n == 0 {
		return func() {}, nil
	}
	if n > MaxAttachmentsPerCall {
		return nil, status.Errorf(codes.InvalidArgument, "at most %d attachments per call", MaxAttachmentsPerCall)
	}
	if err := s.uploadSem.Acquire(ctx, 1); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	return func() { s.uploadSem.Release(1) }, nil
}

func attachmentPtrs(atts []models.Attachment) []*models.Attachment {
	out := make([]*models.Attachment, len(atts))
	for i := range atts {
		out[i] = &atts[i]
	}
	return out
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return status.Error(codes.InvalidArgument, "id is required")
	}
	return nil
}

// toStatus maps service errors onto gRPC codes.
func (s *AdminServer) toStatus(op string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, service.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, service.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrPermissionDenied):
		code = codes.PermissionDenied
	case errors.Is(err, service.ErrStoreUnavailable):
		code = codes.Unavailable
	case errors.Is(err, service.ErrUploadFailed):
		code = codes.Internal
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		s.log.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

func (s *AdminServer) invalidate(ctx context.Context, keys ...string) {
	s.cache.Invalidate(context.WithoutCancel(ctx), keys...)
}
