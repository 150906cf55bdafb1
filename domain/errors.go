package domain

import (
	"fmt"
	"strings"
)

// DuplicateModuleError reports two modules claiming the same name.
// Graph construction aborts on it.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module %q", e.Name)
}

// CyclicDependencyError reports a dependency cycle. Cycle holds the module
// names along the cycle, closed on itself (the first name repeated last).
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Cycle, " -> "))
}

// InvalidVersionError reports a current version that is not a
// "major.minor.patch" triple of non-negative integers.
type InvalidVersionError struct {
	Module string
	Value  string
}

func (e *InvalidVersionError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("invalid version %q: expected major.minor.patch", e.Value)
	}
	return fmt.Sprintf("invalid version %q for module %q: expected major.minor.patch", e.Value, e.Module)
}

// HistoryUnavailableError reports that commit history could not be fetched
// for one module. Callers treat it as "zero commits since the last release"
// for that module instead of aborting the run.
type HistoryUnavailableError struct {
	Module string
	Err    error
}

func (e *HistoryUnavailableError) Error() string {
	return fmt.Sprintf("history unavailable for module %q: %v", e.Module, e.Err)
}

func (e *HistoryUnavailableError) Unwrap() error { return e.Err }

// PublishConflictError reports a tag that already exists. Publishing treats
// it as success so that re-running a release stays idempotent.
type PublishConflictError struct {
	Tag string
}

func (e *PublishConflictError) Error() string {
	return fmt.Sprintf("tag %q already exists", e.Tag)
}
