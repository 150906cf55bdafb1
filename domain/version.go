package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity classifies the impact of a set of commits, following
// semantic-versioning bump rules. Severities form a total order
// None < Patch < Minor < Major; within one run a module's severity only
// ever increases.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityPatch
	SeverityMinor
	SeverityMajor
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityMajor:
		return "major"
	case SeverityMinor:
		return "minor"
	case SeverityPatch:
		return "patch"
	default:
		return "none"
	}
}

// Version is a semantic version triple of non-negative integers.
type Version struct {
	Major int
	Minor int
	Patch int
}

const versionParts = 3

// ParseVersion parses a "major.minor.patch" string. Anything that is not
// exactly three non-negative integers is an InvalidVersionError; malformed
// versions are never coerced.
func ParseVersion(raw string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != versionParts {
		return Version{}, &InvalidVersionError{Value: raw}
	}

	numbers := make([]int, versionParts)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, &InvalidVersionError{Value: raw}
		}
		numbers[i] = n
	}

	return Version{Major: numbers[0], Minor: numbers[1], Patch: numbers[2]}, nil
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns the version raised by the given severity: a major bump
// resets minor and patch, a minor bump resets patch, and SeverityNone
// returns the version unchanged.
func (v Version) Bump(severity Severity) Version {
	switch severity {
	case SeverityMajor:
		return Version{Major: v.Major + 1}
	case SeverityMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case SeverityPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}
