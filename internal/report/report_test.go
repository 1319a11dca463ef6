package report_test

import (
	"strings"
	"time"

	"salarycheck/internal/models"
	"salarycheck/internal/report"

	"github.com/PuerkitoBio/goquery"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func mustParse(html string) *goquery.Document {
	GinkgoHelper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	Expect(err).NotTo(HaveOccurred())
	return doc
}

var _ = Describe("Render", func() {
	loc := time.FixedZone("CST", 8*3600)
	generated := time.Date(2025, 6, 3, 10, 0, 0, 0, loc)
	alice := "Alice"
	final := time.Date(2025, 6, 2, 18, 45, 0, 0, loc)

	row := func(project string, status models.Status) models.MergedRecord {
		r := models.MergedRecord{
			PayrollRecord: models.PayrollRecord{
				BG:           "BG1",
				Department:   "运营部",
				BaseLocation: "石家庄",
				ProjectGroup: project,
				PayrollMonth: time.Date(2025, 5, 1, 0, 0, 0, 0, loc),
				UploadedAt:   time.Date(2025, 6, 3, 9, 30, 12, 0, loc),
			},
			Reviewer: &alice,
			Status:   status,
		}
		if status == models.StatusCompleted {
			r.FinalUploadedAt = &final
		}
		return r
	}

	It("renders one section per non-empty status in display order", func() {
		html, err := report.Render([]models.MergedRecord{
			row("项目C", models.StatusCompleted),
			row("项目A", models.StatusNewPending),
			row("项目B", models.StatusNewPending),
		}, generated)
		Expect(err).NotTo(HaveOccurred())

		doc := mustParse(html)
		Expect(doc.Find("h2").Text()).To(Equal("工资核对进度"))

		sections := doc.Find(".status-section")
		Expect(sections.Length()).To(Equal(2))
		Expect(sections.Eq(0).Find("h3").Text()).To(Equal("待核对（新提交）（共2条）"))
		Expect(sections.Eq(1).Find("h3").Text()).To(Equal("已完成（共1条）"))
		Expect(doc.Find(`[data-status="stale_pending"]`).Length()).To(BeZero())
	})

	It("formats timestamps for display", func() {
		html, err := report.Render([]models.MergedRecord{row("项目C", models.StatusCompleted)}, generated)
		Expect(err).NotTo(HaveOccurred())

		var cells []string
		mustParse(html).Find("tbody tr").First().Find("td").Each(func(_ int, s *goquery.Selection) {
			cells = append(cells, s.Text())
		})
		Expect(cells).To(Equal([]string{
			"BG1", "运营部", "石家庄", "项目C", "2025-05", "2025-06-03 09:30", "2025-06-02 18:45", "已完成", "Alice",
		}))
	})

	It("renders the column header and footer", func() {
		html, err := report.Render([]models.MergedRecord{row("项目A", models.StatusStalePending)}, generated)
		Expect(err).NotTo(HaveOccurred())

		doc := mustParse(html)
		var header []string
		doc.Find("thead th").Each(func(_ int, s *goquery.Selection) { header = append(header, s.Text()) })
		Expect(header).To(Equal(report.Columns))
		Expect(doc.Find(".footer").Text()).To(ContainSubstring("生成时间：2025-06-03 10:00:00"))
	})

	It("leaves missing values blank", func() {
		r := models.MergedRecord{PayrollRecord: models.PayrollRecord{ProjectGroup: "项目X"}, Status: models.StatusStalePending}
		Expect(report.Cells(r)).To(Equal([]string{"", "", "", "项目X", "", "", "", "待核对（历史未完成）", ""}))
	})

	It("escapes cell content", func() {
		r := row("<b>项目</b>", models.StatusNewPending)
		html, err := report.Render([]models.MergedRecord{r}, generated)
		Expect(err).NotTo(HaveOccurred())
		Expect(html).NotTo(ContainSubstring("<b>项目</b>"))
		Expect(mustParse(html).Find("tbody td").Eq(3).Text()).To(Equal("<b>项目</b>"))
	})

	It("renders no sections for no rows", func() {
		html, err := report.Render(nil, generated)
		Expect(err).NotTo(HaveOccurred())
		Expect(mustParse(html).Find(".status-section").Length()).To(BeZero())
	})
})
