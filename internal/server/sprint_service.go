package server

import (
	"context"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/api/board/v1/boardv1connect"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/workflow"
)

var _ boardv1connect.SprintServiceHandler = &SprintServer{}

type SprintServer struct {
	svc *workflow.Service
}

func NewSprintServer(svc *workflow.Service) *SprintServer {
	return &SprintServer{svc: svc}
}

func (s *SprintServer) CreateSprint(ctx context.Context, req *connect.Request[boardv1.CreateSprintRequest]) (*connect.Response[boardv1.CreateSprintResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	projectID, err := parseID("projectId", req.Msg.ProjectID)
	if err != nil {
		return nil, err
	}

	sprint, err := s.svc.CreateSprint(ctx, caller, req.Msg.OrgID, projectID, workflow.CreateSprintInput{
		Name:      req.Msg.Name,
		StartDate: req.Msg.StartDate,
		EndDate:   req.Msg.EndDate,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.CreateSprintResponse{Sprint: toSprint(sprint)}), nil
}

func (s *SprintServer) UpdateSprintStatus(ctx context.Context, req *connect.Request[boardv1.UpdateSprintStatusRequest]) (*connect.Response[boardv1.UpdateSprintStatusResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	sprintID, err := parseID("sprintId", req.Msg.SprintID)
	if err != nil {
		return nil, err
	}

	sprint, err := s.svc.UpdateSprintStatus(ctx, caller, req.Msg.OrgID, sprintID, models.SprintStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.UpdateSprintStatusResponse{Sprint: toSprint(sprint)}), nil
}
