package render

import (
	"strings"

	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Filter narrows the issues shown on a fetched board. Empty fields match
// everything. Matching is case insensitive.
type Filter struct {
	Search   string
	Assignee string
	Priority string
}

func (f Filter) empty() bool {
	return f.Search == "" && f.Assignee == "" && f.Priority == ""
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Match reports whether an issue passes the filter. Search looks at the title
// and description; assignee matches the user id, email or name, with "none"
// selecting unassigned issues.
func (f Filter) Match(issue *boardv1.Issue) bool {
	if f.Search != "" {
		needle := fold(f.Search)
		if !strings.Contains(fold(issue.Title), needle) && !strings.Contains(fold(issue.Description), needle) {
			return false
		}
	}

	if f.Priority != "" && fold(issue.Priority) != fold(f.Priority) {
		return false
	}

	if f.Assignee != "" {
		want := fold(f.Assignee)
		if issue.Assignee == nil {
			return want == "none"
		}
		candidates := []string{issue.Assignee.ID, issue.Assignee.Email, issue.Assignee.FirstName, AssigneeName(issue.Assignee)}
		matched := false
		for _, c := range candidates {
			if c != "" && fold(c) == want {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns a copy of the board keeping only matching issues. Orders are
// left as the server returned them.
func (f Filter) Apply(board *boardv1.GetProjectResponse) *boardv1.GetProjectResponse {
	if f.empty() {
		return board
	}

	filtered := &boardv1.GetProjectResponse{Project: board.Project, Sprints: make([]*boardv1.Sprint, 0, len(board.Sprints))}
	for _, sprint := range board.Sprints {
		s := *sprint
		s.Issues = nil
		for _, issue := range sprint.Issues {
			if f.Match(issue) {
				s.Issues = append(s.Issues, issue)
			}
		}
		filtered.Sprints = append(filtered.Sprints, &s)
	}

	return filtered
}
