package models

import "time"

// ReconciliationRecord is one row of the latest refreshed snapshot.
type ReconciliationRecord struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	RunID           string     `gorm:"index" json:"run_id"`
	BG              string     `json:"bg"`
	Department      string     `json:"department"`
	BaseLocation    string     `json:"base_location"`
	ProjectGroup    string     `gorm:"index" json:"project_group"`
	PayrollMonth    time.Time  `json:"payroll_month"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	FinalUploadedAt *time.Time `json:"final_uploaded_at"`
	Uploader        string     `json:"uploader"`
	FinalUploader   string     `json:"final_uploader"`
	Remark          string     `json:"remark"`
	Reviewer        *string    `gorm:"index" json:"reviewer"`
	Status          Status     `gorm:"index" json:"status"`
	GeneratedAt     time.Time  `json:"generated_at"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}

// NewReconciliationRecord copies a classified row into its stored form.
func NewReconciliationRecord(runID string, r MergedRecord, generatedAt time.Time) ReconciliationRecord {
	return ReconciliationRecord{
		RunID:           runID,
		BG:              r.BG,
		Department:      r.Department,
		BaseLocation:    r.BaseLocation,
		ProjectGroup:    r.ProjectGroup,
		PayrollMonth:    r.PayrollMonth,
		UploadedAt:      r.UploadedAt,
		FinalUploadedAt: r.FinalUploadedAt,
		Uploader:        r.Uploader,
		FinalUploader:   r.FinalUploader,
		Remark:          r.Remark,
		Reviewer:        r.Reviewer,
		Status:          r.Status,
		GeneratedAt:     generatedAt,
	}
}
