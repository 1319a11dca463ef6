package reconcile

import (
	"strings"

	"salarycheck/internal/models"
)

// Exclusions lists the organizational units that are never reconciled.
// Matching is by substring.
type Exclusions struct {
	ProjectGroups []string
	BaseLocations []string
}

// Excludes reports whether r belongs to an excluded unit.
func (e Exclusions) Excludes(r models.PayrollRecord) bool {
	return ContainsAny(r.ProjectGroup, e.ProjectGroups) || ContainsAny(r.BaseLocation, e.BaseLocations)
}

// ContainsAny reports whether s contains any non-empty needle.
func ContainsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
