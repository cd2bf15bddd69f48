package boardv1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	v1 "github.com/wolfeidau/sprintboard/api/board/v1"
)

// Service names as declared in board.proto.
const (
	ProjectServiceName = "board.v1.ProjectService"
	SprintServiceName  = "board.v1.SprintService"
	IssueServiceName   = "board.v1.IssueService"
	MemberServiceName  = "board.v1.MemberService"
)

// Fully-qualified procedure names, used as the request path and in
// interceptors and errors.
const (
	ProjectServiceCreateProjectProcedure     = "/board.v1.ProjectService/CreateProject"
	ProjectServiceGetProjectProcedure        = "/board.v1.ProjectService/GetProject"
	ProjectServiceListProjectsProcedure      = "/board.v1.ProjectService/ListProjects"
	SprintServiceCreateSprintProcedure       = "/board.v1.SprintService/CreateSprint"
	SprintServiceUpdateSprintStatusProcedure = "/board.v1.SprintService/UpdateSprintStatus"
	IssueServiceCreateIssueProcedure         = "/board.v1.IssueService/CreateIssue"
	IssueServiceUpdateIssueProcedure         = "/board.v1.IssueService/UpdateIssue"
	IssueServiceUpdateIssueStatusProcedure   = "/board.v1.IssueService/UpdateIssueStatus"
	IssueServiceUpdateIssueOrderProcedure    = "/board.v1.IssueService/UpdateIssueOrder"
	MemberServiceListOrgMembersProcedure     = "/board.v1.MemberService/ListOrgMembers"
	MemberServiceWhoAmIProcedure             = "/board.v1.MemberService/WhoAmI"
)

// ProjectServiceClient is a client for the board.v1.ProjectService service.
type ProjectServiceClient interface {
	CreateProject(context.Context, *connect.Request[v1.CreateProjectRequest]) (*connect.Response[v1.CreateProjectResponse], error)
	GetProject(context.Context, *connect.Request[v1.GetProjectRequest]) (*connect.Response[v1.GetProjectResponse], error)
	ListProjects(context.Context, *connect.Request[v1.ListProjectsRequest]) (*connect.Response[v1.ListProjectsResponse], error)
}

// NewProjectServiceClient constructs a client for the board.v1.ProjectService service. The JSON
// codec and gzip compression are always applied before opts.
func NewProjectServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProjectServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(ClientOptions(), opts...)
	return &projectServiceClient{
		createProject: connect.NewClient[v1.CreateProjectRequest, v1.CreateProjectResponse](
			httpClient,
			baseURL+ProjectServiceCreateProjectProcedure,
			connect.WithClientOptions(opts...),
		),
		getProject: connect.NewClient[v1.GetProjectRequest, v1.GetProjectResponse](
			httpClient,
			baseURL+ProjectServiceGetProjectProcedure,
			connect.WithClientOptions(opts...),
		),
		listProjects: connect.NewClient[v1.ListProjectsRequest, v1.ListProjectsResponse](
			httpClient,
			baseURL+ProjectServiceListProjectsProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

type projectServiceClient struct {
	createProject *connect.Client[v1.CreateProjectRequest, v1.CreateProjectResponse]
	getProject    *connect.Client[v1.GetProjectRequest, v1.GetProjectResponse]
	listProjects  *connect.Client[v1.ListProjectsRequest, v1.ListProjectsResponse]
}

func (c *projectServiceClient) CreateProject(ctx context.Context, req *connect.Request[v1.CreateProjectRequest]) (*connect.Response[v1.CreateProjectResponse], error) {
	return c.createProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) GetProject(ctx context.Context, req *connect.Request[v1.GetProjectRequest]) (*connect.Response[v1.GetProjectResponse], error) {
	return c.getProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) ListProjects(ctx context.Context, req *connect.Request[v1.ListProjectsRequest]) (*connect.Response[v1.ListProjectsResponse], error) {
	return c.listProjects.CallUnary(ctx, req)
}

// ProjectServiceHandler is an implementation of the board.v1.ProjectService service.
// ProjectService manages the projects of an organization.
type ProjectServiceHandler interface {
	CreateProject(context.Context, *connect.Request[v1.CreateProjectRequest]) (*connect.Response[v1.CreateProjectResponse], error)
	GetProject(context.Context, *connect.Request[v1.GetProjectRequest]) (*connect.Response[v1.GetProjectResponse], error)
	ListProjects(context.Context, *connect.Request[v1.ListProjectsRequest]) (*connect.Response[v1.ListProjectsResponse], error)
}

// NewProjectServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewProjectServiceHandler(svc ProjectServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(HandlerOptions(), opts...)
	createProjectHandler := connect.NewUnaryHandler(
		ProjectServiceCreateProjectProcedure,
		svc.CreateProject,
		connect.WithHandlerOptions(opts...),
	)
	getProjectHandler := connect.NewUnaryHandler(
		ProjectServiceGetProjectProcedure,
		svc.GetProject,
		connect.WithHandlerOptions(opts...),
	)
	listProjectsHandler := connect.NewUnaryHandler(
		ProjectServiceListProjectsProcedure,
		svc.ListProjects,
		connect.WithHandlerOptions(opts...),
	)
	return "/board.v1.ProjectService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProjectServiceCreateProjectProcedure:
			createProjectHandler.ServeHTTP(w, r)
		case ProjectServiceGetProjectProcedure:
			getProjectHandler.ServeHTTP(w, r)
		case ProjectServiceListProjectsProcedure:
			listProjectsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedProjectServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedProjectServiceHandler struct{}

func (UnimplementedProjectServiceHandler) CreateProject(context.Context, *connect.Request[v1.CreateProjectRequest]) (*connect.Response[v1.CreateProjectResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.ProjectService.CreateProject is not implemented"))
}

func (UnimplementedProjectServiceHandler) GetProject(context.Context, *connect.Request[v1.GetProjectRequest]) (*connect.Response[v1.GetProjectResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.ProjectService.GetProject is not implemented"))
}

func (UnimplementedProjectServiceHandler) ListProjects(context.Context, *connect.Request[v1.ListProjectsRequest]) (*connect.Response[v1.ListProjectsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.ProjectService.ListProjects is not implemented"))
}

// SprintServiceClient is a client for the board.v1.SprintService service.
type SprintServiceClient interface {
	CreateSprint(context.Context, *connect.Request[v1.CreateSprintRequest]) (*connect.Response[v1.CreateSprintResponse], error)
	UpdateSprintStatus(context.Context, *connect.Request[v1.UpdateSprintStatusRequest]) (*connect.Response[v1.UpdateSprintStatusResponse], error)
}

// NewSprintServiceClient constructs a client for the board.v1.SprintService service. The JSON
// codec and gzip compression are always applied before opts.
func NewSprintServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SprintServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(ClientOptions(), opts...)
	return &sprintServiceClient{
		createSprint: connect.NewClient[v1.CreateSprintRequest, v1.CreateSprintResponse](
			httpClient,
			baseURL+SprintServiceCreateSprintProcedure,
			connect.WithClientOptions(opts...),
		),
		updateSprintStatus: connect.NewClient[v1.UpdateSprintStatusRequest, v1.UpdateSprintStatusResponse](
			httpClient,
			baseURL+SprintServiceUpdateSprintStatusProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

type sprintServiceClient struct {
	createSprint       *connect.Client[v1.CreateSprintRequest, v1.CreateSprintResponse]
	updateSprintStatus *connect.Client[v1.UpdateSprintStatusRequest, v1.UpdateSprintStatusResponse]
}

func (c *sprintServiceClient) CreateSprint(ctx context.Context, req *connect.Request[v1.CreateSprintRequest]) (*connect.Response[v1.CreateSprintResponse], error) {
	return c.createSprint.CallUnary(ctx, req)
}

func (c *sprintServiceClient) UpdateSprintStatus(ctx context.Context, req *connect.Request[v1.UpdateSprintStatusRequest]) (*connect.Response[v1.UpdateSprintStatusResponse], error) {
	return c.updateSprintStatus.CallUnary(ctx, req)
}

// SprintServiceHandler is an implementation of the board.v1.SprintService service.
// SprintService manages the sprints of a project.
type SprintServiceHandler interface {
	CreateSprint(context.Context, *connect.Request[v1.CreateSprintRequest]) (*connect.Response[v1.CreateSprintResponse], error)
	UpdateSprintStatus(context.Context, *connect.Request[v1.UpdateSprintStatusRequest]) (*connect.Response[v1.UpdateSprintStatusResponse], error)
}

// NewSprintServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewSprintServiceHandler(svc SprintServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(HandlerOptions(), opts...)
	createSprintHandler := connect.NewUnaryHandler(
		SprintServiceCreateSprintProcedure,
		svc.CreateSprint,
		connect.WithHandlerOptions(opts...),
	)
	updateSprintStatusHandler := connect.NewUnaryHandler(
		SprintServiceUpdateSprintStatusProcedure,
		svc.UpdateSprintStatus,
		connect.WithHandlerOptions(opts...),
	)
	return "/board.v1.SprintService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SprintServiceCreateSprintProcedure:
			createSprintHandler.ServeHTTP(w, r)
		case SprintServiceUpdateSprintStatusProcedure:
			updateSprintStatusHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSprintServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSprintServiceHandler struct{}

func (UnimplementedSprintServiceHandler) CreateSprint(context.Context, *connect.Request[v1.CreateSprintRequest]) (*connect.Response[v1.CreateSprintResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.SprintService.CreateSprint is not implemented"))
}

func (UnimplementedSprintServiceHandler) UpdateSprintStatus(context.Context, *connect.Request[v1.UpdateSprintStatusRequest]) (*connect.Response[v1.UpdateSprintStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.SprintService.UpdateSprintStatus is not implemented"))
}

// IssueServiceClient is a client for the board.v1.IssueService service.
type IssueServiceClient interface {
	CreateIssue(context.Context, *connect.Request[v1.CreateIssueRequest]) (*connect.Response[v1.CreateIssueResponse], error)
	UpdateIssue(context.Context, *connect.Request[v1.UpdateIssueRequest]) (*connect.Response[v1.UpdateIssueResponse], error)
	UpdateIssueStatus(context.Context, *connect.Request[v1.UpdateIssueStatusRequest]) (*connect.Response[v1.UpdateIssueStatusResponse], error)
	UpdateIssueOrder(context.Context, *connect.Request[v1.UpdateIssueOrderRequest]) (*connect.Response[v1.UpdateIssueOrderResponse], error)
}

// NewIssueServiceClient constructs a client for the board.v1.IssueService service. The JSON
// codec and gzip compression are always applied before opts.
func NewIssueServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) IssueServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(ClientOptions(), opts...)
	return &issueServiceClient{
		createIssue: connect.NewClient[v1.CreateIssueRequest, v1.CreateIssueResponse](
			httpClient,
			baseURL+IssueServiceCreateIssueProcedure,
			connect.WithClientOptions(opts...),
		),
		updateIssue: connect.NewClient[v1.UpdateIssueRequest, v1.UpdateIssueResponse](
			httpClient,
			baseURL+IssueServiceUpdateIssueProcedure,
			connect.WithClientOptions(opts...),
		),
		updateIssueStatus: connect.NewClient[v1.UpdateIssueStatusRequest, v1.UpdateIssueStatusResponse](
			httpClient,
			baseURL+IssueServiceUpdateIssueStatusProcedure,
			connect.WithClientOptions(opts...),
		),
		updateIssueOrder: connect.NewClient[v1.UpdateIssueOrderRequest, v1.UpdateIssueOrderResponse](
			httpClient,
			baseURL+IssueServiceUpdateIssueOrderProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

type issueServiceClient struct {
	createIssue       *connect.Client[v1.CreateIssueRequest, v1.CreateIssueResponse]
	updateIssue       *connect.Client[v1.UpdateIssueRequest, v1.UpdateIssueResponse]
	updateIssueStatus *connect.Client[v1.UpdateIssueStatusRequest, v1.UpdateIssueStatusResponse]
	updateIssueOrder  *connect.Client[v1.UpdateIssueOrderRequest, v1.UpdateIssueOrderResponse]
}

func (c *issueServiceClient) CreateIssue(ctx context.Context, req *connect.Request[v1.CreateIssueRequest]) (*connect.Response[v1.CreateIssueResponse], error) {
	return c.createIssue.CallUnary(ctx, req)
}

func (c *issueServiceClient) UpdateIssue(ctx context.Context, req *connect.Request[v1.UpdateIssueRequest]) (*connect.Response[v1.UpdateIssueResponse], error) {
	return c.updateIssue.CallUnary(ctx, req)
}

func (c *issueServiceClient) UpdateIssueStatus(ctx context.Context, req *connect.Request[v1.UpdateIssueStatusRequest]) (*connect.Response[v1.UpdateIssueStatusResponse], error) {
	return c.updateIssueStatus.CallUnary(ctx, req)
}

func (c *issueServiceClient) UpdateIssueOrder(ctx context.Context, req *connect.Request[v1.UpdateIssueOrderRequest]) (*connect.Response[v1.UpdateIssueOrderResponse], error) {
	return c.updateIssueOrder.CallUnary(ctx, req)
}

// IssueServiceHandler is an implementation of the board.v1.IssueService service.
// IssueService manages issues and their position on the board.
type IssueServiceHandler interface {
	CreateIssue(context.Context, *connect.Request[v1.CreateIssueRequest]) (*connect.Response[v1.CreateIssueResponse], error)
	UpdateIssue(context.Context, *connect.Request[v1.UpdateIssueRequest]) (*connect.Response[v1.UpdateIssueResponse], error)
	UpdateIssueStatus(context.Context, *connect.Request[v1.UpdateIssueStatusRequest]) (*connect.Response[v1.UpdateIssueStatusResponse], error)
	UpdateIssueOrder(context.Context, *connect.Request[v1.UpdateIssueOrderRequest]) (*connect.Response[v1.UpdateIssueOrderResponse], error)
}

// NewIssueServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewIssueServiceHandler(svc IssueServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(HandlerOptions(), opts...)
	createIssueHandler := connect.NewUnaryHandler(
		IssueServiceCreateIssueProcedure,
		svc.CreateIssue,
		connect.WithHandlerOptions(opts...),
	)
	updateIssueHandler := connect.NewUnaryHandler(
		IssueServiceUpdateIssueProcedure,
		svc.UpdateIssue,
		connect.WithHandlerOptions(opts...),
	)
	updateIssueStatusHandler := connect.NewUnaryHandler(
		IssueServiceUpdateIssueStatusProcedure,
		svc.UpdateIssueStatus,
		connect.WithHandlerOptions(opts...),
	)
	updateIssueOrderHandler := connect.NewUnaryHandler(
		IssueServiceUpdateIssueOrderProcedure,
		svc.UpdateIssueOrder,
		connect.WithHandlerOptions(opts...),
	)
	return "/board.v1.IssueService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case IssueServiceCreateIssueProcedure:
			createIssueHandler.ServeHTTP(w, r)
		case IssueServiceUpdateIssueProcedure:
			updateIssueHandler.ServeHTTP(w, r)
		case IssueServiceUpdateIssueStatusProcedure:
			updateIssueStatusHandler.ServeHTTP(w, r)
		case IssueServiceUpdateIssueOrderProcedure:
			updateIssueOrderHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedIssueServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedIssueServiceHandler struct{}

func (UnimplementedIssueServiceHandler) CreateIssue(context.Context, *connect.Request[v1.CreateIssueRequest]) (*connect.Response[v1.CreateIssueResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.IssueService.CreateIssue is not implemented"))
}

func (UnimplementedIssueServiceHandler) UpdateIssue(context.Context, *connect.Request[v1.UpdateIssueRequest]) (*connect.Response[v1.UpdateIssueResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.IssueService.UpdateIssue is not implemented"))
}

func (UnimplementedIssueServiceHandler) UpdateIssueStatus(context.Context, *connect.Request[v1.UpdateIssueStatusRequest]) (*connect.Response[v1.UpdateIssueStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.IssueService.UpdateIssueStatus is not implemented"))
}

func (UnimplementedIssueServiceHandler) UpdateIssueOrder(context.Context, *connect.Request[v1.UpdateIssueOrderRequest]) (*connect.Response[v1.UpdateIssueOrderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.IssueService.UpdateIssueOrder is not implemented"))
}

// MemberServiceClient is a client for the board.v1.MemberService service.
type MemberServiceClient interface {
	ListOrgMembers(context.Context, *connect.Request[v1.ListOrgMembersRequest]) (*connect.Response[v1.ListOrgMembersResponse], error)
	WhoAmI(context.Context, *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error)
}

// NewMemberServiceClient constructs a client for the board.v1.MemberService service. The JSON
// codec and gzip compression are always applied before opts.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(ClientOptions(), opts...)
	return &memberServiceClient{
		listOrgMembers: connect.NewClient[v1.ListOrgMembersRequest, v1.ListOrgMembersResponse](
			httpClient,
			baseURL+MemberServiceListOrgMembersProcedure,
			connect.WithClientOptions(opts...),
		),
		whoAmI: connect.NewClient[v1.WhoAmIRequest, v1.WhoAmIResponse](
			httpClient,
			baseURL+MemberServiceWhoAmIProcedure,
			connect.WithClientOptions(opts...),
		),
	}
}

type memberServiceClient struct {
	listOrgMembers *connect.Client[v1.ListOrgMembersRequest, v1.ListOrgMembersResponse]
	whoAmI         *connect.Client[v1.WhoAmIRequest, v1.WhoAmIResponse]
}

func (c *memberServiceClient) ListOrgMembers(ctx context.Context, req *connect.Request[v1.ListOrgMembersRequest]) (*connect.Response[v1.ListOrgMembersResponse], error) {
	return c.listOrgMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) WhoAmI(ctx context.Context, req *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}

// MemberServiceHandler is an implementation of the board.v1.MemberService service.
// MemberService lists organization members and describes the caller.
type MemberServiceHandler interface {
	ListOrgMembers(context.Context, *connect.Request[v1.ListOrgMembersRequest]) (*connect.Response[v1.ListOrgMembersResponse], error)
	WhoAmI(context.Context, *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(HandlerOptions(), opts...)
	listOrgMembersHandler := connect.NewUnaryHandler(
		MemberServiceListOrgMembersProcedure,
		svc.ListOrgMembers,
		connect.WithHandlerOptions(opts...),
	)
	whoAmIHandler := connect.NewUnaryHandler(
		MemberServiceWhoAmIProcedure,
		svc.WhoAmI,
		connect.WithHandlerOptions(opts...),
	)
	return "/board.v1.MemberService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case MemberServiceListOrgMembersProcedure:
			listOrgMembersHandler.ServeHTTP(w, r)
		case MemberServiceWhoAmIProcedure:
			whoAmIHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedMemberServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedMemberServiceHandler struct{}

func (UnimplementedMemberServiceHandler) ListOrgMembers(context.Context, *connect.Request[v1.ListOrgMembersRequest]) (*connect.Response[v1.ListOrgMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.MemberService.ListOrgMembers is not implemented"))
}

func (UnimplementedMemberServiceHandler) WhoAmI(context.Context, *connect.Request[v1.WhoAmIRequest]) (*connect.Response[v1.WhoAmIResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("board.v1.MemberService.WhoAmI is not implemented"))
}
