package domain

import "strings"

// Conventional-commit markers used for classification.
const (
	featType      = "feat"
	fixType       = "fix"
	breakingToken = "BREAKING CHANGE"
)

// Classify maps commit subject lines to the severity of the release they
// require. The first breaking-change commit decides the result immediately;
// otherwise features outrank fixes and anything else is ignored. An empty
// sequence yields SeverityNone.
func Classify(commits []string) Severity {
	severity := SeverityNone

	for _, subject := range commits {
		if isBreaking(subject) {
			return SeverityMajor
		}

		switch {
		case hasType(subject, featType):
			if severity < SeverityMinor {
				severity = SeverityMinor
			}
		case hasType(subject, fixType):
			if severity == SeverityNone {
				severity = SeverityPatch
			}
		}
	}

	return severity
}

// isBreaking reports whether the subject is tagged as a breaking change,
// either with a "!" before the colon ("feat!:", "fix(api)!:") or with the
// BREAKING CHANGE token anywhere in the text.
func isBreaking(subject string) bool {
	if strings.Contains(subject, breakingToken) {
		return true
	}
	head, _, found := strings.Cut(subject, ":")
	return found && strings.HasSuffix(strings.TrimSpace(head), "!")
}

// hasType reports whether the subject carries the given conventional-commit
// type, with or without a scope ("feat: x", "feat(core): x").
func hasType(subject, commitType string) bool {
	head, _, found := strings.Cut(subject, ":")
	if !found {
		return false
	}
	head = strings.TrimSpace(head)
	if open := strings.Index(head, "("); open >= 0 && strings.HasSuffix(head, ")") {
		head = head[:open]
	}
	return head == commitType
}
