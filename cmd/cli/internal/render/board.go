// Package render draws boards and issues for the terminal.
package render

import (
	"cmp"
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Heading turns a status name such as IN_PROGRESS into "In Progress".
func Heading(status string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(status), "_", " "))
}

// Columns groups a sprint's issues by status, each column sorted by order.
// Every known status has an entry, empty or not.
func Columns(issues []*boardv1.Issue) map[string][]*boardv1.Issue {
	columns := make(map[string][]*boardv1.Issue, len(models.IssueStatuses))
	for _, status := range models.IssueStatuses {
		columns[string(status)] = nil
	}

	for _, issue := range issues {
		columns[issue.Status] = append(columns[issue.Status], issue)
	}

	for status := range columns {
		slices.SortStableFunc(columns[status], func(a, b *boardv1.Issue) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}

	return columns
}

// Sprint renders a sprint as four side by side columns. width is the total
// terminal width.
func Sprint(sprint *boardv1.Sprint, width int) string {
	columnWidth := max(20, width/len(models.IssueStatuses)-2)
	columns := Columns(sprint.Issues)

	rendered := make([]string, 0, len(models.IssueStatuses))
	for _, status := range models.IssueStatuses {
		issues := columns[string(status)]

		var b strings.Builder
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", Heading(string(status)), len(issues))))
		b.WriteString("\n")

		if len(issues) == 0 {
			b.WriteString(mutedStyle.Render("No issues"))
		}
		for _, issue := range issues {
			b.WriteString("\n")
			b.WriteString(card(issue, columnWidth-4))
		}

		rendered = append(rendered, columnStyle.Width(columnWidth).Render(b.String()))
	}

	header := titleStyle.Render(sprint.Name) + " " + mutedStyle.Render(fmt.Sprintf("%s  %s → %s",
		Heading(sprint.Status), sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02")))

	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

// Board renders every sprint of a project, newest first as returned by the
// server.
func Board(board *boardv1.GetProjectResponse, width int) string {
	parts := []string{titleStyle.Render(fmt.Sprintf("%s [%s]", board.Project.Name, board.Project.Key))}
	if board.Project.Description != "" {
		parts = append(parts, html.UnescapeString(board.Project.Description))
	}

	if len(board.Sprints) == 0 {
		parts = append(parts, mutedStyle.Render("No sprints"))
	}
	for _, sprint := range board.Sprints {
		parts = append(parts, "", Sprint(sprint, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func card(issue *boardv1.Issue, width int) string {
	lines := []string{
		fmt.Sprintf("#%d %s", issue.Order, issue.Title),
		mutedStyle.Render(Heading(issue.Priority) + " · " + AssigneeName(issue.Assignee)),
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// AssigneeName returns a display name for a user, or "Unassigned".
func AssigneeName(user *boardv1.User) string {
	if user == nil {
		return "Unassigned"
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}

var rendererCache sync.Map // map[int]*glamour.TermRenderer

func renderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, r)
	return r, nil
}

// Description renders a stored issue description as markdown. Descriptions
// are stored HTML escaped, so entities are decoded first.
func Description(text string, width int) string {
	if text == "" {
		return mutedStyle.Render("No description")
	}

	text = html.UnescapeString(text)

	r, err := renderer(width)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimSpace(out)
}

// Issue renders the detail view of a single issue.
func Issue(issue *boardv1.Issue, width int) string {
	header := titleStyle.Render(issue.Title)
	meta := mutedStyle.Render(fmt.Sprintf("%s · %s · #%d · %s",
		Heading(issue.Status), Heading(issue.Priority), issue.Order, AssigneeName(issue.Assignee)))

	return lipgloss.JoinVertical(lipgloss.Left, header, meta, "", Description(issue.Description, width))
}
