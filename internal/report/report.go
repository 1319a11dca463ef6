package report

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"salarycheck/internal/models"

	"github.com/rotisserie/eris"
)

const (
	TimeLayout  = "2006-01-02 15:04"
	MonthLayout = "2006-01"
	Title       = "工资核对进度"
)

// Columns is the digest table header, in display order.
var Columns = []string{"BG", "部门", "基地", "项目组", "工资月份", "上传时间", "终版上传时间", "状态", "核对人"}

//go:embed templates/digest.html.tmpl
var templatesFS embed.FS

var digest = template.Must(template.ParseFS(templatesFS, "templates/digest.html.tmpl"))

type section struct {
	Status models.Status
	Label  string
	Rows   [][]string
}

type page struct {
	Title       string
	Columns     []string
	Sections    []section
	GeneratedAt string
}

// Render builds the HTML digest for one reviewer's rows: a section per
// non-empty status in display order.
func Render(rows []models.MergedRecord, generatedAt time.Time) (string, error) {
	p := page{
		Title:       Title,
		Columns:     Columns,
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05"),
	}

	for _, s := range models.StatusOrder {
		var cells [][]string
		for _, r := range rows {
			if r.Status == s {
				cells = append(cells, Cells(r))
			}
		}
		if len(cells) == 0 {
			continue
		}
		p.Sections = append(p.Sections, section{Status: s, Label: s.Label(), Rows: cells})
	}

	var buf bytes.Buffer
	if err := digest.Execute(&buf, p); err != nil {
		return "", eris.Wrap(err, "failed to render digest")
	}
	return buf.String(), nil
}

// Cells formats one row in Columns order.
func Cells(r models.MergedRecord) []string {
	return []string{
		r.BG,
		r.Department,
		r.BaseLocation,
		r.ProjectGroup,
		formatTime(&r.PayrollMonth, MonthLayout),
		formatTime(&r.UploadedAt, TimeLayout),
		formatTime(r.FinalUploadedAt, TimeLayout),
		r.Status.Label(),
		r.ReviewerName(),
	}
}

func formatTime(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
