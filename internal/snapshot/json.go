package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"salarycheck/internal/models"

	"github.com/rotisserie/eris"
)

// Entry is one row of the JSON snapshot, keyed by the sheet's column names.
type Entry struct {
	BG              string  `json:"BG"`
	Department      string  `json:"部门"`
	BaseLocation    string  `json:"基地"`
	ProjectGroup    string  `json:"项目组"`
	PayrollMonth    *string `json:"工资月份"`
	UploadedAt      *string `json:"上传时间"`
	FinalUploadedAt *string `json:"终版上传时间"`
	Uploader        string  `json:"上传人"`
	FinalUploader   string  `json:"终版上传人"`
	Remark          string  `json:"备注"`
	Reviewer        *string `json:"核对人"`
	Status          string  `json:"状态"`
	CreationTime    string  `json:"creation_time"`
}

func NewEntry(r models.MergedRecord, generatedAt time.Time) Entry {
	return Entry{
		BG:              r.BG,
		Department:      r.Department,
		BaseLocation:    r.BaseLocation,
		ProjectGroup:    r.ProjectGroup,
		PayrollMonth:    format(r.PayrollMonth, time.RFC3339),
		UploadedAt:      format(r.UploadedAt, time.RFC3339),
		FinalUploadedAt: formatPtr(r.FinalUploadedAt),
		Uploader:        r.Uploader,
		FinalUploader:   r.FinalUploader,
		Remark:          r.Remark,
		Reviewer:        r.Reviewer,
		Status:          r.Status.Label(),
		CreationTime:    generatedAt.Format(time.RFC3339),
	}
}

// WriteJSON replaces the file at path with the snapshot of records. The file
// is written next to path and renamed so readers never see a partial file.
func WriteJSON(path string, records []models.MergedRecord, generatedAt time.Time) error {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, NewEntry(r, generatedAt))
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode snapshot")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrap(err, "write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "close temp snapshot")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "replace %s", path)
	}
	return nil
}

func format(t time.Time, layout string) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func formatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return format(*t, time.RFC3339)
}
