package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/wolfeidau/sprintboard/api/board/v1/boardv1connect"
	"github.com/wolfeidau/sprintboard/internal/workflow"
)

// Server wraps the board services
type Server struct {
	projects *ProjectServer
	sprints  *SprintServer
	issues   *IssueServer
	members  *MemberServer
}

// NewServer creates a new server backed by the workflow service
func NewServer(svc *workflow.Service) *Server {
	return &Server{
		projects: NewProjectServer(svc),
		sprints:  NewSprintServer(svc),
		issues:   NewIssueServer(svc),
		members:  NewMemberServer(svc),
	}
}

// Handler returns the HTTP handler serving the health check and every board
// service. authenticate wraps the board services only, the health check stays
// public.
func (s *Server) Handler(authenticate func(http.Handler) http.Handler, interceptors ...connect.Interceptor) http.Handler {
	opts := []connect.HandlerOption{connect.WithInterceptors(interceptors...)}

	api := http.NewServeMux()
	api.Handle(boardv1connect.NewProjectServiceHandler(s.projects, opts...))
	api.Handle(boardv1connect.NewSprintServiceHandler(s.sprints, opts...))
	api.Handle(boardv1connect.NewIssueServiceHandler(s.issues, opts...))
	api.Handle(boardv1connect.NewMemberServiceHandler(s.members, opts...))

	mux := http.NewServeMux()

	// Health check endpoint for load balancer
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/", authenticate(api))

	return mux
}
