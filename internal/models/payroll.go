package models

import "time"

// PayrollRecord is one normalized row of the monthly payroll upload sheet.
type PayrollRecord struct {
	BG              string
	Department      string
	BaseLocation    string
	ProjectGroup    string
	PayrollMonth    time.Time
	UploadedAt      time.Time
	FinalUploadedAt *time.Time // nil until the final version is uploaded
	Uploader        string
	FinalUploader   string
	Remark          string
}

// ReviewerAssignment maps a project group to the person reconciling it.
type ReviewerAssignment struct {
	ProjectGroup string
	Reviewer     string
}

// ReviewerContact maps a reviewer to one or more email addresses.
type ReviewerContact struct {
	Reviewer string
	Emails   []string
}

// MergedRecord is a payroll row after the reviewer join and classification.
type MergedRecord struct {
	PayrollRecord
	Reviewer *string
	Status   Status
}

// ReviewerName returns the joined reviewer or "" for unassigned rows.
func (r MergedRecord) ReviewerName() string {
	if r.Reviewer == nil {
		return ""
	}
	return *r.Reviewer
}
