package reconcile

import (
	"strings"

	"salarycheck/internal/models"
)

// Merge left-joins payroll rows to their reviewer by exact project group.
// Every input row is kept; rows without an assignment carry a nil reviewer.
// When the registry lists a project group twice the first entry wins.
func Merge(records []models.PayrollRecord, assignments []models.ReviewerAssignment) []models.MergedRecord {
	byProject := make(map[string]string, len(assignments))
	for _, a := range assignments {
		if _, seen := byProject[a.ProjectGroup]; seen {
			continue
		}
		byProject[a.ProjectGroup] = strings.TrimSpace(a.Reviewer)
	}

	out := make([]models.MergedRecord, len(records))
	for i, r := range records {
		out[i] = models.MergedRecord{PayrollRecord: r}
		if reviewer, ok := byProject[r.ProjectGroup]; ok && reviewer != "" {
			out[i].Reviewer = &reviewer
		}
	}
	return out
}
