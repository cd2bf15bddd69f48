package server

import (
	"context"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/api/board/v1/boardv1connect"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/workflow"
)

var _ boardv1connect.MemberServiceHandler = &MemberServer{}

type MemberServer struct {
	svc *workflow.Service
}

func NewMemberServer(svc *workflow.Service) *MemberServer {
	return &MemberServer{svc: svc}
}

func (s *MemberServer) ListOrgMembers(ctx context.Context, req *connect.Request[boardv1.ListOrgMembersRequest]) (*connect.Response[boardv1.ListOrgMembersResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	members, err := s.svc.ListOrgMembers(ctx, caller, req.Msg.OrgID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &boardv1.ListOrgMembersResponse{Members: make([]*boardv1.Member, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, toMember(m))
	}

	return connect.NewResponse(resp), nil
}

func (s *MemberServer) WhoAmI(ctx context.Context, req *connect.Request[boardv1.WhoAmIRequest]) (*connect.Response[boardv1.WhoAmIResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	me, org, err := s.svc.WhoAmI(ctx, caller)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.WhoAmIResponse{
		User:         toUser(&me.User),
		Organization: &boardv1.Organization{ID: org.ID, Name: org.Name},
		Role:         string(me.Role),
	}), nil
}
