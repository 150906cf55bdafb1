package domain

// Calculate assigns a new version to every module, processing them strictly
// in topological order so each module's dependencies already carry their
// final severity and version when the module itself is visited.
//
// A major release raises every direct dependent to at least a minor release.
// Dependents raised this way carry the raise further, so one upstream
// breaking change lifts the whole downstream chain even when nothing else
// changed. A minor release coming from a module's own commits does not force
// its dependents.
func Calculate(ordered []*Module) {
	forced := make(map[*Module]bool)

	for _, m := range ordered {
		next := m.CurrentVersion

		switch m.Severity {
		case SeverityMajor, SeverityMinor, SeverityPatch:
			next = m.CurrentVersion.Bump(m.Severity)
		case SeverityNone:
			if anyDependencyMajor(m) {
				next = m.CurrentVersion.Bump(SeverityMinor)
			}
		}

		version := next
		m.NewVersion = &version

		if m.Severity == SeverityMajor || forced[m] {
			for _, dependent := range m.Dependents {
				if dependent.Severity < SeverityMinor {
					dependent.Severity = SeverityMinor
				}
				forced[dependent] = true
			}
		}
	}
}

// anyDependencyMajor reports whether any direct dependency ended the run at
// major severity.
func anyDependencyMajor(m *Module) bool {
	for _, dep := range m.Dependencies {
		if dep.Severity == SeverityMajor {
			return true
		}
	}
	return false
}
