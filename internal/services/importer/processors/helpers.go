package processors

import (
	"strconv"
	"strings"
	"time"

	"family_directory/internal/models"
)

// BirthdateLayout is month/day/year; leading zeros are optional.
const BirthdateLayout = "1/2/2006"

// ParseBirthdate returns nil for an empty or unparseable date.
func ParseBirthdate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(BirthdateLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// ParseAge treats a missing or non-numeric age as an adult.
func ParseAge(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.AdultAge
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return models.AdultAge
	}
	return n
}
