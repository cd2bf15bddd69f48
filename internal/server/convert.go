package server

import (
	"github.com/google/uuid"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/internal/models"
)

func parseID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, invalidArgument(field, "is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, invalidArgument(field, "must be a UUID")
	}
	return id, nil
}

// parseOptionalID returns nil for an empty value.
func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toUser(u *models.User) *boardv1.User {
	if u == nil {
		return nil
	}
	return &boardv1.User{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
	}
}

func toMember(m *models.Member) *boardv1.Member {
	return &boardv1.Member{User: toUser(&m.User), Role: string(m.Role)}
}

func toProject(p *models.Project) *boardv1.Project {
	return &boardv1.Project{
		ID:          p.ID.String(),
		OrgID:       p.OrgID,
		Name:        p.Name,
		Key:         p.Key,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toSprint(s *models.Sprint) *boardv1.Sprint {
	return &boardv1.Sprint{
		ID:        s.ID.String(),
		ProjectID: s.ProjectID.String(),
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toIssue(i *models.Issue) *boardv1.Issue {
	out := &boardv1.Issue{
		ID:          i.ID.String(),
		SprintID:    i.SprintID.String(),
		Title:       i.Title,
		Description: i.Description,
		Priority:    string(i.Priority),
		Status:      string(i.Status),
		Order:       int32(i.Order),
		Assignee:    toUser(i.Assignee),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
	if i.AssigneeID != nil {
		out.AssigneeID = i.AssigneeID.String()
	}
	return out
}

func toBoard(b *models.ProjectBoard) *boardv1.GetProjectResponse {
	resp := &boardv1.GetProjectResponse{
		Project: toProject(&b.Project),
		Sprints: make([]*boardv1.Sprint, 0, len(b.Sprints)),
	}
	for _, sb := range b.Sprints {
		sprint := toSprint(&sb.Sprint)
		for _, issue := range sb.Issues {
			sprint.Issues = append(sprint.Issues, toIssue(issue))
		}
		resp.Sprints = append(resp.Sprints, sprint)
	}
	return resp
}
