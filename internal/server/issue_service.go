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

var _ boardv1connect.IssueServiceHandler = &IssueServer{}

type IssueServer struct {
	svc *workflow.Service
}

func NewIssueServer(svc *workflow.Service) *IssueServer {
	return &IssueServer{svc: svc}
}

func (s *IssueServer) CreateIssue(ctx context.Context, req *connect.Request[boardv1.CreateIssueRequest]) (*connect.Response[boardv1.CreateIssueResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	sprintID, err := parseID("sprintId", req.Msg.SprintID)
	if err != nil {
		return nil, err
	}

	assigneeID, err := parseOptionalID("assigneeId", req.Msg.AssigneeID)
	if err != nil {
		return nil, err
	}

	issue, err := s.svc.CreateIssue(ctx, caller, req.Msg.OrgID, sprintID, workflow.CreateIssueInput{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Priority:    models.Priority(req.Msg.Priority),
		Status:      models.IssueStatus(req.Msg.Status),
		AssigneeID:  assigneeID,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.CreateIssueResponse{Issue: toIssue(issue)}), nil
}

func (s *IssueServer) UpdateIssue(ctx context.Context, req *connect.Request[boardv1.UpdateIssueRequest]) (*connect.Response[boardv1.UpdateIssueResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	issueID, err := parseID("issueId", req.Msg.IssueID)
	if err != nil {
		return nil, err
	}

	assigneeID, err := parseOptionalID("assigneeId", req.Msg.AssigneeID)
	if err != nil {
		return nil, err
	}

	issue, err := s.svc.UpdateIssue(ctx, caller, req.Msg.OrgID, issueID, workflow.UpdateIssueInput{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Priority:    models.Priority(req.Msg.Priority),
		AssigneeID:  assigneeID,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.UpdateIssueResponse{Issue: toIssue(issue)}), nil
}

func (s *IssueServer) UpdateIssueStatus(ctx context.Context, req *connect.Request[boardv1.UpdateIssueStatusRequest]) (*connect.Response[boardv1.UpdateIssueStatusResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	issueID, err := parseID("issueId", req.Msg.IssueID)
	if err != nil {
		return nil, err
	}

	issue, err := s.svc.UpdateIssueStatus(ctx, caller, req.Msg.OrgID, issueID, models.IssueStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.UpdateIssueStatusResponse{Issue: toIssue(issue)}), nil
}

func (s *IssueServer) UpdateIssueOrder(ctx context.Context, req *connect.Request[boardv1.UpdateIssueOrderRequest]) (*connect.Response[boardv1.UpdateIssueOrderResponse], error) {
	caller, _ := auth.CallerFromContext(ctx)

	issueID, err := parseID("issueId", req.Msg.IssueID)
	if err != nil {
		return nil, err
	}

	issue, err := s.svc.UpdateIssueOrder(ctx, caller, req.Msg.OrgID, issueID, models.IssueStatus(req.Msg.NewStatus), int(req.Msg.NewOrder))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&boardv1.UpdateIssueOrderResponse{Issue: toIssue(issue)}), nil
}
