package server

import (
	"context"

	"github.com/PaulBabatuyi/TrustSite/internal/cache"
)

var memberKeys = []string{cache.KeyMembers, cache.KeyStats}

func (s *AdminServer) CreateMember(ctx context.Context, req *CreateMemberRequest) (*MemberResponse, error) {
	release, err := s.admitUploads(ctx, req.Photo)
	if err != nil {
		return nil, err
	}
	defer release()

	m, err := s.managers.Members.Create(ctx, req.Member, req.Photo)
	if err != nil {
		return nil, s.toStatus("create member", err)
	}
	s.invalidate(ctx, memberKeys...)
	return &MemberResponse{Member: m}, nil
}

func (s *AdminServer) UpdateMember(ctx context.Context, req *UpdateMemberRequest) (*MemberResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	release, err := s.admitUploads(ctx, req.Photo)
	if err != nil {
		return nil, err
	}
	defer release()

	m, warnings, err := s.managers.Members.Update(ctx, req.ID, req.Patch, req.Photo)
	if err != nil {
		return nil, s.toStatus("update member", err)
	}
	s.invalidate(ctx, memberKeys...)
	return &MemberResponse{Member: m, Warnings: warnings.Strings()}, nil
}

func (s *AdminServer) DeleteMember(ctx context.Context, req *IDRequest) (*DeleteResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	warnings, err := s.managers.Members.Remove(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("delete member", err)
	}
	s.invalidate(ctx, memberKeys...)
	return &DeleteResponse{Warnings: warnings.Strings()}, nil
}

func (s *AdminServer) GetMember(ctx context.Context, req *IDRequest) (*MemberResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	m, err := s.managers.Members.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("get member", err)
	}
	return &MemberResponse{Member: m}, nil
}

func (s *AdminServer) ListMembers(ctx context.Context, _ *ListRequest) (*ListMembersResponse, error) {
	members, err := s.managers.Members.List(ctx)
	if err != nil {
		return nil, s.toStatus("list members", err)
	}
	return &ListMembersResponse{Members: members}, nil
}
