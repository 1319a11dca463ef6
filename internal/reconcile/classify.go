package reconcile

import (
	"sort"
	"time"

	"salarycheck/internal/models"
)

// StatusAt classifies one row against the recent window ending at now.
// A zero upload time is never inside the window.
func StatusAt(r models.PayrollRecord, now time.Time, window time.Duration) models.Status {
	if r.FinalUploadedAt != nil {
		return models.StatusCompleted
	}
	if !r.UploadedAt.IsZero() && !r.UploadedAt.Before(now.Add(-window)) {
		return models.StatusNewPending
	}
	return models.StatusStalePending
}

// Classify returns a copy of records with Status set on every row.
func Classify(records []models.MergedRecord, now time.Time, window time.Duration) []models.MergedRecord {
	out := make([]models.MergedRecord, len(records))
	for i, r := range records {
		r.Status = StatusAt(r.PayrollRecord, now, window)
		out[i] = r
	}
	return out
}

// Buckets holds classified rows split by status, input order kept per bucket.
type Buckets struct {
	NewPending   []models.MergedRecord
	StalePending []models.MergedRecord
	Completed    []models.MergedRecord
}

func Partition(records []models.MergedRecord) Buckets {
	var b Buckets
	for _, r := range records {
		switch r.Status {
		case models.StatusNewPending:
			b.NewPending = append(b.NewPending, r)
		case models.StatusStalePending:
			b.StalePending = append(b.StalePending, r)
		case models.StatusCompleted:
			b.Completed = append(b.Completed, r)
		}
	}
	return b
}

func (b Buckets) HasPending() bool {
	return len(b.NewPending) > 0 || len(b.StalePending) > 0
}

func (b Buckets) Len() int {
	return len(b.NewPending) + len(b.StalePending) + len(b.Completed)
}

// Of returns the bucket for s.
func (b Buckets) Of(s models.Status) []models.MergedRecord {
	switch s {
	case models.StatusNewPending:
		return b.NewPending
	case models.StatusStalePending:
		return b.StalePending
	case models.StatusCompleted:
		return b.Completed
	}
	return nil
}

// Ordered concatenates the buckets in display order.
func (b Buckets) Ordered() []models.MergedRecord {
	out := make([]models.MergedRecord, 0, b.Len())
	for _, s := range models.StatusOrder {
		out = append(out, b.Of(s)...)
	}
	return out
}

// ReviewerGroup is the slice of rows one reviewer is responsible for.
type ReviewerGroup struct {
	Reviewer string
	Records  []models.MergedRecord
}

func (g ReviewerGroup) HasNew() bool {
	for _, r := range g.Records {
		if r.Status == models.StatusNewPending {
			return true
		}
	}
	return false
}

// GroupByReviewer groups rows by reviewer name, sorted by name. Rows with no
// reviewer are returned separately.
func GroupByReviewer(records []models.MergedRecord) (groups []ReviewerGroup, unassigned []models.MergedRecord) {
	idx := make(map[string]int)
	for _, r := range records {
		if r.Reviewer == nil {
			unassigned = append(unassigned, r)
			continue
		}
		name := *r.Reviewer
		i, ok := idx[name]
		if !ok {
			i = len(groups)
			idx[name] = i
			groups = append(groups, ReviewerGroup{Reviewer: name})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Reviewer < groups[b].Reviewer })
	return groups, unassigned
}
