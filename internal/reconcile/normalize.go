package reconcile

import (
	"regexp"
	"strings"
	"time"

	"salarycheck/internal/models"
	"salarycheck/internal/sheet"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Payroll export columns.
const (
	ColBG            = "BG"
	ColDepartment    = "部门"
	ColBase          = "基地"
	ColProjectGroup  = "项目组"
	ColPayrollMonth  = "工资月份"
	ColUploadedAt    = "上传时间"
	ColFinalUploaded = "终版上传时间"
	ColUploader      = "上传人"
	ColFinalUploader = "终版上传人"
	ColRemark        = "备注"
)

// Registry columns. The reviewer sheet names the join key 项目 and the
// reviewer 工资核对人; the contact sheet uses 核对人 and 邮箱.
const (
	ColRegistryProject  = "项目"
	ColRegistryReviewer = "工资核对人"
	ColContactReviewer  = "核对人"
	ColContactEmail     = "邮箱"
)

var ErrMissingColumns = eris.New("missing columns")

var requiredPayrollColumns = []string{
	ColBG, ColDepartment, ColBase, ColProjectGroup, ColPayrollMonth, ColUploadedAt, ColFinalUploaded,
}

// NormalizePayroll types the raw payroll export and drops excluded units.
// Row order is preserved. Rows whose upload time or payroll month cannot be
// parsed are kept with a zero time and logged.
func NormalizePayroll(rows [][]string, loc *time.Location, excl Exclusions, log *zap.SugaredLogger) ([]models.PayrollRecord, error) {
	t, err := sheet.LocateHeader(rows, ColBG)
	if err != nil {
		return nil, err
	}
	if missing := t.Missing(requiredPayrollColumns...); len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumns, "payroll sheet: %v", missing)
	}

	out := make([]models.PayrollRecord, 0, len(t.Rows))
	excluded := 0
	for i, row := range t.Rows {
		if sheet.IsBlank(row) {
			continue
		}

		r := models.PayrollRecord{
			BG:              t.Value(row, ColBG),
			Department:      t.Value(row, ColDepartment),
			BaseLocation:    t.Value(row, ColBase),
			ProjectGroup:    t.Value(row, ColProjectGroup),
			FinalUploadedAt: sheet.ParseOptionalTime(t.Value(row, ColFinalUploaded), loc),
			Uploader:        t.Value(row, ColUploader),
			FinalUploader:   t.Value(row, ColFinalUploader),
			Remark:          t.Value(row, ColRemark),
		}

		if excl.Excludes(r) {
			excluded++
			continue
		}

		if r.UploadedAt, err = sheet.ParseTime(t.Value(row, ColUploadedAt), loc); err != nil {
			log.Warnw("unparseable upload time", "row", i+1, "project_group", r.ProjectGroup, "error", err)
		}
		if r.PayrollMonth, err = sheet.ParseTime(t.Value(row, ColPayrollMonth), loc); err != nil {
			log.Warnw("unparseable payroll month", "row", i+1, "project_group", r.ProjectGroup, "error", err)
		}

		out = append(out, r)
	}

	log.Debugw("normalized payroll rows", "kept", len(out), "excluded", excluded)
	return out, nil
}

// DecodeAssignments reads the project→reviewer registry sheet.
func DecodeAssignments(rows [][]string) ([]models.ReviewerAssignment, error) {
	t, err := sheet.LocateHeader(rows, ColRegistryProject)
	if err != nil {
		return nil, err
	}
	if missing := t.Missing(ColRegistryReviewer); len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumns, "reviewer sheet: %v", missing)
	}

	var out []models.ReviewerAssignment
	for _, row := range t.Rows {
		project := t.Value(row, ColRegistryProject)
		if project == "" {
			continue
		}
		out = append(out, models.ReviewerAssignment{
			ProjectGroup: project,
			Reviewer:     t.Value(row, ColRegistryReviewer),
		})
	}
	return out, nil
}

var emailSeparators = regexp.MustCompile(`[,;，；\s]+`)

// DecodeContacts reads the reviewer→email registry sheet.
func DecodeContacts(rows [][]string) ([]models.ReviewerContact, error) {
	t, err := sheet.LocateHeader(rows, ColContactReviewer)
	if err != nil {
		return nil, err
	}
	if missing := t.Missing(ColContactEmail); len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumns, "contact sheet: %v", missing)
	}

	var out []models.ReviewerContact
	for _, row := range t.Rows {
		reviewer := t.Value(row, ColContactReviewer)
		if reviewer == "" {
			continue
		}
		out = append(out, models.ReviewerContact{
			Reviewer: reviewer,
			Emails:   SplitEmails(t.Value(row, ColContactEmail)),
		})
	}
	return out, nil
}

// SplitEmails splits a contact cell holding one or several addresses.
func SplitEmails(cell string) []string {
	var out []string
	for _, part := range emailSeparators.Split(strings.TrimSpace(cell), -1) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
