// Package ordering holds the rules that keep issue display order consistent
// inside a workflow column.
//
// A column is the set of issues sharing a sprint and a status. Orders are
// positive integers; inside a column they are unique after any single
// uncontended write. Gaps are allowed and carry no meaning, only the
// relative order matters.
package ordering

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// MaxOrder is the highest order a column can hold. Orders travel as 32 bit
// integers on the wire and in the database.
const MaxOrder = math.MaxInt32

// ErrInvalidOrder is returned for an order outside 1..MaxOrder, including one
// that a shift or an append would push past MaxOrder.
var ErrInvalidOrder = errors.New("order must be a positive 32 bit integer")

// Slot is the position of one issue inside a column.
type Slot struct {
	ID    uuid.UUID
	Order int
}

// After returns the order that appends an issue below a column whose highest
// order is highest. An empty column has highest 0 and the first issue gets 1.
// The result is past MaxOrder for a full column, callers check it with
// Validate.
func After(highest int) int {
	if highest < 1 {
		return 1
	}
	return highest + 1
}

// Next returns the append order for a column holding the given orders.
func Next(orders []int) int {
	if len(orders) == 0 {
		return 1
	}
	return After(slices.Max(orders))
}

// Validate checks a requested order. Orders beyond the end of a column are
// accepted as is, they are not clamped.
func Validate(order int) error {
	if order < 1 || order > MaxOrder {
		return fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	return nil
}

// Shift plans the sibling updates needed to place movedID at newOrder in a
// destination column. Every slot other than movedID whose order is >= newOrder
// moves down by one. The returned slots carry their new orders; slots that
// keep their order are not returned.
//
// A column that was duplicate free stays duplicate free, and siblings keep
// their relative order. A sibling already at MaxOrder cannot move down, so the
// whole plan fails with ErrInvalidOrder.
func Shift(column []Slot, movedID uuid.UUID, newOrder int) ([]Slot, error) {
	var shifted []Slot
	for _, slot := range column {
		if slot.ID == movedID || slot.Order < newOrder {
			continue
		}
		if slot.Order >= MaxOrder {
			return nil, fmt.Errorf("%w: issue %s is already at %d", ErrInvalidOrder, slot.ID, slot.Order)
		}
		shifted = append(shifted, Slot{ID: slot.ID, Order: slot.Order + 1})
	}
	return shifted, nil
}

// Compare orders two issues of the same column for display: by order, then by
// creation time, then by ID. The tie breaks make the ordering total even when
// concurrent writes left duplicate orders behind.
func Compare(a, b *models.Issue) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return slices.Compare(a.ID[:], b.ID[:])
}

// Sort sorts issues in place for display.
func Sort(issues []*models.Issue) {
	slices.SortStableFunc(issues, Compare)
}

// Column is one workflow column of a sprint board.
type Column struct {
	Status models.IssueStatus
	Issues []*models.Issue
}

// Columns groups a sprint's issues into the workflow columns, in workflow
// order, each sorted for display. Every status gets a column, empty or not.
func Columns(issues []*models.Issue) []Column {
	byStatus := make(map[models.IssueStatus][]*models.Issue, len(models.IssueStatuses))
	for _, issue := range issues {
		byStatus[issue.Status] = append(byStatus[issue.Status], issue)
	}

	columns := make([]Column, 0, len(models.IssueStatuses))
	for _, status := range models.IssueStatuses {
		col := byStatus[status]
		Sort(col)
		columns = append(columns, Column{Status: status, Issues: col})
	}
	return columns
}
