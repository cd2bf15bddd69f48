package server

import (
	"context"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/api/board/v1/boardv1connect"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/workflow"
)

var _ boardv1connect.ProjectServiceHandler = &ProjectServer{}

type ProjectServer struct {
	svc *workflow.Service
}

func NewProjectServer(svc *workflow.Service) *ProjectServer {
	return &ProjectServer{svc: svc}
}

func (s *ProjectServer) CreateProject(ctx context.Context, req *connect.Request[boardv1.CreateProjectRequest]) (*connect.Response[boardv1.CreateProjectResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	project, err := s.svc.CreateProject(ctx, caller, req.Msg.OrgID, workflow.CreateProjectInput{
		Name:        req.Msg.Name,
		Key:         req.Msg.Key,
		Description: req.Msg.Description,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.CreateProjectResponse{Project: toProject(project)}), nil
}

func (s *ProjectServer) GetProject(ctx context.Context, req *connect.Request[boardv1.GetProjectRequest]) (*connect.Response[boardv1.GetProjectResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	projectID, err := parseID("projectId", req.Msg.ProjectID)
	if err != nil {
		return nil, err
	}

	board, err := s.svc.GetProject(ctx, caller, req.Msg.OrgID, projectID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(toBoard(board)), nil
}

func (s *ProjectServer) ListProjects(ctx context.Context, req *connect.Request[boardv1.ListProjectsRequest]) (*connect.Response[boardv1.ListProjectsResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	projects, err := s.svc.ListProjects(ctx, caller, req.Msg.OrgID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &boardv1.ListProjectsResponse{Projects: make([]*boardv1.Project, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, toProject(p))
	}

	return connect.NewResponse(resp), nil
}
