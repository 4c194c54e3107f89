package server

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// AdminClient calls AdminService using the JSON codec.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

// WithToken attaches a bearer token to outgoing calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

// WithAPIKey attaches an API key to outgoing calls made with ctx.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "api-key", key)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminClient) Login(ctx context.Context, req *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, "Login", req, opts...)
}

func (c *AdminClient) CreateMember(ctx context.Context, req *CreateMemberRequest, opts ...grpc.CallOption) (*MemberResponse, error) {
	return invoke[MemberResponse](ctx, c.cc, "CreateMember", req, opts...)
}

func (c *AdminClient) UpdateMember(ctx context.Context, req *UpdateMemberRequest, opts ...grpc.CallOption) (*MemberResponse, error) {
	return invoke[MemberResponse](ctx, c.cc, "UpdateMember", req, opts...)
}

func (c *AdminClient) DeleteMember(ctx context.Context, req *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, "DeleteMember", req, opts...)
}

func (c *AdminClient) GetMember(ctx context.Context, req *IDRequest, opts ...grpc.CallOption) (*MemberResponse, error) {
	return invoke[MemberResponse](ctx, c.cc, "GetMember", req, opts...)
}

func (c *AdminClient) ListMembers(ctx context.Context, req *ListRequest, opts ...grpc.CallOption) (*ListMembersResponse, error) {
	return invoke[ListMembersResponse](ctx, c.cc, "ListMembers", req, opts...)
}

func (c *AdminClient) CreateEvent(ctx context.Context, req *CreateEventRequest, opts ...grpc.CallOption) (*EventResponse, error) {
	return invoke[EventResponse](ctx, c.cc, "CreateEvent", req, opts...)
}

func (c *AdminClient) UpdateEvent(ctx context.Context, req *UpdateEventRequest, opts ...grpc.CallOption) (*EventResponse, error) {
	return invoke[EventResponse](ctx, c.cc, "UpdateEvent", req, opts...)
}

func (c *AdminClient) DeleteEvent(ctx context.Context, req *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, "DeleteEvent", req, opts...)
}

func (c *AdminClient) GetEvent(ctx context.Context, req *IDRequest, opts ...grpc.CallOption) (*EventResponse, error) {
	return invoke[EventResponse](ctx, c.cc, "GetEvent", req, opts...)
}

func (c *AdminClient) ListEvents(ctx context.Context, req *ListRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c.cc, "ListEvents", req, opts...)
}

func (c *AdminClient) CreateCarouselItem(ctx context.Context, req *CreateCarouselItemRequest, opts ...grpc.CallOption) (*CarouselItemResponse, error) {
	return invoke[CarouselItemResponse](ctx, c.cc, "CreateCarouselItem", req, opts...)
}

func (c *AdminClient) UpdateCarouselItem(ctx context.Context, req *UpdateCarouselItemRequest, opts ...grpc.CallOption) (*CarouselItemResponse, error) {
	return invoke[CarouselItemResponse](ctx, c.cc, "UpdateCarouselItem", req, opts...)
}

func (c *AdminClient) DeleteCarouselItem(ctx context.Context, req *IDRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	return invoke[DeleteResponse](ctx, c.cc, "DeleteCarouselItem", req, opts...)
}

func (c *AdminClient) GetCarouselItem(ctx context.Context, req *IDRequest, opts ...grpc.CallOption) (*CarouselItemResponse, error) {
	return invoke[CarouselItemResponse](ctx, c.cc, "GetCarouselItem", req, opts...)
}

func (c *AdminClient) ListCarouselItems(ctx context.Context, req *ListRequest, opts ...grpc.CallOption) (*ListCarouselItemsResponse, error) {
	return invoke[ListCarouselItemsResponse](ctx, c.cc, "ListCarouselItems", req, opts...)
}

func (c *AdminClient) GetStats(ctx context.Context, opts ...grpc.CallOption) (*models.SiteStats, error) {
	return invoke[models.SiteStats](ctx, c.cc, "GetStats", &StatsRequest{}, opts...)
}
