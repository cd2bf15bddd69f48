package workflow

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxProjectNameLength = 100
	maxProjectKeyLength  = 10
	maxSprintNameLength  = 100
	maxIssueTitleLength  = 200
)

var projectKeyPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

func validateLength(field, value string, max int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return invalid(field, "is required")
	}
	if n > max {
		return invalid(field, "must be at most %d characters", max)
	}
	return nil
}

func validateProjectKey(key string) error {
	if err := validateLength("key", key, maxProjectKeyLength); err != nil {
		return err
	}
	if !projectKeyPattern.MatchString(key) {
		return invalid("key", "must contain only uppercase letters and digits")
	}
	return nil
}

func validateSprintDates(start, end time.Time) error {
	if start.IsZero() {
		return invalid("startDate", "is required")
	}
	if end.IsZero() {
		return invalid("endDate", "is required")
	}
	// instants are compared, so the offsets the dates were written in do not matter
	if !end.After(start) {
		return invalid("endDate", "must be after start date")
	}
	return nil
}

// descriptionPolicy strips markup from free text descriptions. Text is kept,
// tags and attributes are removed.
func descriptionPolicy() *bluemonday.Policy {
	return bluemonday.StrictPolicy()
}

func sanitize(policy *bluemonday.Policy, s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
