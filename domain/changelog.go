package domain

import (
	"strings"
	"time"
)

const (
	unreleasedHeading = "## [Unreleased]"
	h2Prefix          = "## ["
	h3Prefix          = "### "
	bulletPrefix      = "- "
)

// changelogDateLayout is the Keep-a-Changelog release date format.
const changelogDateLayout = "2006-01-02"

// PromoteUnreleased turns the "## [Unreleased]" section of a
// Keep-a-Changelog document into a released "## [x.y.z] - YYYY-MM-DD"
// section, leaving a fresh empty Unreleased heading above it. Content
// without an Unreleased heading is returned unchanged with ok=false.
func PromoteUnreleased(content string, version Version, date time.Time) (string, bool) {
	lines := strings.Split(content, "\n")

	unreleasedIdx := findUnreleasedIndex(lines)
	if unreleasedIdx < 0 {
		return content, false
	}

	lines[unreleasedIdx] = "## [" + version.String() + "] - " + date.Format(changelogDateLayout)
	lines = insertLines(lines, unreleasedIdx, []string{unreleasedHeading, ""})

	return strings.Join(lines, "\n"), true
}

// HasUnreleasedContent reports whether the Unreleased section carries at
// least one bullet entry.
func HasUnreleasedContent(content string) bool {
	lines := strings.Split(content, "\n")

	unreleasedIdx := findUnreleasedIndex(lines)
	if unreleasedIdx < 0 {
		return false
	}

	end := findNextH2Index(lines, unreleasedIdx)
	for i := unreleasedIdx + 1; i < end; i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), bulletPrefix) {
			return true
		}
	}
	return false
}

// InsertUnreleasedEntries inserts bullet entries into the given subsection
// ("Added", "Changed", "Fixed", ...) of the "## [Unreleased]" section.
//
// Behaviour:
//   - If "## [Unreleased]" is missing, the content is returned unchanged.
//   - If the subsection already exists under Unreleased, the entries are
//     appended after its last bullet line.
//   - If the subsection does not exist, it is created right after the
//     "## [Unreleased]" line.
func InsertUnreleasedEntries(content, section string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")

	unreleasedIdx := findUnreleasedIndex(lines)
	if unreleasedIdx < 0 {
		return content
	}

	heading := h3Prefix + section
	nextH2Idx := findNextH2Index(lines, unreleasedIdx)
	sectionIdx := findSectionIndex(lines, heading, unreleasedIdx, nextH2Idx)

	bullets := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasPrefix(entry, bulletPrefix) {
			entry = bulletPrefix + entry
		}
		bullets = append(bullets, entry)
	}

	if sectionIdx >= 0 {
		insertAfter := findLastBullet(lines, sectionIdx, nextH2Idx)
		lines = insertLines(lines, insertAfter+1, bullets)
	} else {
		block := []string{"", heading, ""}
		block = append(block, bullets...)
		lines = insertLines(lines, unreleasedIdx+1, block)
	}

	return strings.Join(lines, "\n")
}

// findUnreleasedIndex returns the line index of the "## [Unreleased]"
// heading, or -1 if not found.
func findUnreleasedIndex(lines []string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == unreleasedHeading {
			return i
		}
	}
	return -1
}

// findNextH2Index returns the line index of the next "## [" heading after
// startIdx, or len(lines) if there is none.
func findNextH2Index(lines []string, startIdx int) int {
	for i := startIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), h2Prefix) {
			return i
		}
	}
	return len(lines)
}

// findSectionIndex returns the line index of the given subsection heading
// between startIdx and endIdx, or -1 if not found.
func findSectionIndex(lines []string, heading string, startIdx, endIdx int) int {
	for i := startIdx + 1; i < endIdx; i++ {
		if strings.TrimSpace(lines[i]) == heading {
			return i
		}
	}
	return -1
}

// findLastBullet returns the index of the last bullet line in the subsection
// starting at sectionIdx.
func findLastBullet(lines []string, sectionIdx, endIdx int) int {
	insertAfter := sectionIdx
	for i := sectionIdx + 1; i < endIdx; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue // blank lines between bullets
		}
		if strings.HasPrefix(trimmed, bulletPrefix) {
			insertAfter = i
			continue
		}
		// Hit the next subsection heading or other content.
		break
	}
	return insertAfter
}

// insertLines inserts extra lines into the slice at the given index.
func insertLines(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return result
}
