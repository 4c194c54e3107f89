package server

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/models"
	"google.golang.org/grpc"
)

const ServiceName = "trustsite.admin.v1.AdminService"

// FullMethod returns the gRPC method path for name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// AdminService is the admin API served over gRPC.
type AdminService interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)

	CreateMember(context.Context, *CreateMemberRequest) (*MemberResponse, error)
	UpdateMember(context.Context, *UpdateMemberRequest) (*MemberResponse, error)
	DeleteMember(context.Context, *IDRequest) (*DeleteResponse, error)
	GetMember(context.Context, *IDRequest) (*MemberResponse, error)
	ListMembers(context.Context, *ListRequest) (*ListMembersResponse, error)

	CreateEvent(context.Context, *CreateEventRequest) (*EventResponse, error)
	UpdateEvent(context.Context, *UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(context.Context, *IDRequest) (*DeleteResponse, error)
	GetEvent(context.Context, *IDRequest) (*EventResponse, error)
	ListEvents(context.Context, *ListRequest) (*ListEventsResponse, error)

	CreateCarouselItem(context.Context, *CreateCarouselItemRequest) (*CarouselItemResponse, error)
	UpdateCarouselItem(context.Context, *UpdateCarouselItemRequest) (*CarouselItemResponse, error)
	DeleteCarouselItem(context.Context, *IDRequest) (*DeleteResponse, error)
	GetCarouselItem(context.Context, *IDRequest) (*CarouselItemResponse, error)
	ListCarouselItems(context.Context, *ListRequest) (*ListCarouselItemsResponse, error)

	GetStats(context.Context, *StatsRequest) (*models.SiteStats, error)
}

// unary adapts a typed AdminService method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(AdminService, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			svc := srv.(AdminService)
			if interceptor == nil {
				return call(svc, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(svc, ctx, req.(*Req))
			})
		},
	}
}

// AdminServiceDesc describes AdminService for grpc.Server.RegisterService.
var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminService)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", AdminService.Login),

		unary("CreateMember", AdminService.CreateMember),
		unary("UpdateMember", AdminService.UpdateMember),
		unary("DeleteMember", AdminService.DeleteMember),
		unary("GetMember", AdminService.GetMember),
		unary("ListMembers", AdminService.ListMembers),

		unary("CreateEvent", AdminService.CreateEvent),
		unary("UpdateEvent", AdminService.UpdateEvent),
		unary("DeleteEvent", AdminService.DeleteEvent),
		unary("GetEvent", AdminService.GetEvent),
		unary("ListEvents", AdminService.ListEvents),

		unary("CreateCarouselItem", AdminService.CreateCarouselItem),
		unary("UpdateCarouselItem", AdminService.UpdateCarouselItem),
		unary("DeleteCarouselItem", AdminService.DeleteCarouselItem),
		unary("GetCarouselItem", AdminService.GetCarouselItem),
		unary("ListCarouselItems", AdminService.ListCarouselItems),

		unary("GetStats", AdminService.GetStats),
	},
}

// RegisterAdminService registers srv on s.
func RegisterAdminService(s grpc.ServiceRegistrar, srv AdminService) {
	s.RegisterService(&AdminServiceDesc, srv)
}
