package cmd //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/domain"
)

func calculatedModule(name, current, next string, severity domain.Severity) *domain.Module {
	currentVersion, err := domain.ParseVersion(current)
	if err != nil {
		panic(err)
	}
	nextVersion, err := domain.ParseVersion(next)
	if err != nil {
		panic(err)
	}

	return &domain.Module{
		Name:           name,
		CurrentVersion: currentVersion,
		NewVersion:     &nextVersion,
		Severity:       severity,
	}
}

func TestBuildRows(t *testing.T) {
	t.Parallel()

	t.Run("should report every module when no filter is given", func(t *testing.T) {
		t.Parallel()

		// given
		modules := []*domain.Module{
			calculatedModule(":core", "1.0.0", "2.0.0", domain.SeverityMajor),
			calculatedModule(":app", "2.1.3", "2.2.0", domain.SeverityMinor),
		}

		// when
		rows := buildRows(modules, "")

		// then
		require.Len(t, rows, 2)
		assert.Equal(t, planRow{
			Module: ":core", Current: "1.0.0", Next: "2.0.0", Severity: "major", Changed: true,
		}, rows[0])
		assert.Equal(t, planRow{
			Module: ":app", Current: "2.1.3", Next: "2.2.0", Severity: "minor", Changed: true,
		}, rows[1])
	})

	t.Run("should narrow the report to the filtered modules", func(t *testing.T) {
		t.Parallel()

		// given
		modules := []*domain.Module{
			calculatedModule(":core", "1.0.0", "2.0.0", domain.SeverityMajor),
			calculatedModule(":app", "2.1.3", "2.2.0", domain.SeverityMinor),
			calculatedModule(":docs", "0.3.0", "0.3.0", domain.SeverityNone),
		}

		// when
		rows := buildRows(modules, " :core ,:docs")

		// then
		require.Len(t, rows, 2)
		assert.Equal(t, ":core", rows[0].Module)
		assert.Equal(t, ":docs", rows[1].Module)
	})

	t.Run("should fall back to the current version when none was calculated", func(t *testing.T) {
		t.Parallel()

		// given
		modules := []*domain.Module{{
			Name:           ":core",
			CurrentVersion: domain.Version{Major: 1},
		}}

		// when
		rows := buildRows(modules, "")

		// then
		require.Len(t, rows, 1)
		assert.Equal(t, "1.0.0", rows[0].Next)
		assert.False(t, rows[0].Changed)
	})
}

func TestRowStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		row      planRow
		expected string
	}{
		{
			name:     "unchanged module",
			row:      planRow{Severity: "none", Changed: false},
			expected: "✅ Up to date",
		},
		{
			name:     "major bump",
			row:      planRow{Severity: "major", Changed: true},
			expected: "🔴 Major bump",
		},
		{
			name:     "minor bump",
			row:      planRow{Severity: "minor", Changed: true},
			expected: "🟡 Minor bump",
		},
		{
			name:     "patch bump",
			row:      planRow{Severity: "patch", Changed: true},
			expected: "🟢 Patch bump",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, rowStatus(tt.row))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "shorter than the limit", input: ":core", maxLen: 10, expected: ":core"},
		{name: "exactly the limit", input: ":core", maxLen: 5, expected: ":core"},
		{name: "longer than the limit", input: "group:subsystem:component", maxLen: 10, expected: "group:s..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, truncate(tt.input, tt.maxLen))
		})
	}
}
