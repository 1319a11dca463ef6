package snapshot_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"salarycheck/internal/models"
	"salarycheck/internal/snapshot"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WriteJSON", func() {
	var (
		dir       string
		loc       = time.FixedZone("CST", 8*3600)
		generated = time.Date(2025, 6, 3, 10, 0, 0, 0, loc)
		alice     = "Alice"
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	records := func() []models.MergedRecord {
		final := time.Date(2025, 6, 2, 18, 0, 0, 0, loc)
		return []models.MergedRecord{
			{
				PayrollRecord: models.PayrollRecord{
					BG: "BG1", Department: "运营部", BaseLocation: "石家庄", ProjectGroup: "项目A",
					PayrollMonth: time.Date(2025, 5, 1, 0, 0, 0, 0, loc),
					UploadedAt:   time.Date(2025, 6, 3, 9, 30, 0, 0, loc),
					Uploader:     "张三",
				},
				Reviewer: &alice,
				Status:   models.StatusNewPending,
			},
			{
				PayrollRecord: models.PayrollRecord{
					ProjectGroup: "项目B", FinalUploadedAt: &final,
				},
				Status: models.StatusCompleted,
			},
		}
	}

	read := func(path string) []map[string]any {
		GinkgoHelper()
		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		var out []map[string]any
		Expect(json.Unmarshal(data, &out)).To(Succeed())
		return out
	}

	It("writes rows keyed by column name", func() {
		path := filepath.Join(dir, "output.json")
		Expect(snapshot.WriteJSON(path, records(), generated)).To(Succeed())

		out := read(path)
		Expect(out).To(HaveLen(2))
		Expect(out[0]).To(HaveKeyWithValue("项目组", "项目A"))
		Expect(out[0]).To(HaveKeyWithValue("核对人", "Alice"))
		Expect(out[0]).To(HaveKeyWithValue("状态", "待核对（新提交）"))
		Expect(out[0]).To(HaveKeyWithValue("工资月份", "2025-05-01T00:00:00+08:00"))
		Expect(out[0]).To(HaveKeyWithValue("上传时间", "2025-06-03T09:30:00+08:00"))
		Expect(out[0]).To(HaveKeyWithValue("终版上传时间", BeNil()))
		Expect(out[0]).To(HaveKeyWithValue("creation_time", "2025-06-03T10:00:00+08:00"))

		Expect(out[1]).To(HaveKeyWithValue("核对人", BeNil()))
		Expect(out[1]).To(HaveKeyWithValue("上传时间", BeNil()))
		Expect(out[1]).To(HaveKeyWithValue("终版上传时间", "2025-06-02T18:00:00+08:00"))
		Expect(out[1]).To(HaveKeyWithValue("状态", "已完成"))
	})

	It("replaces an existing file and leaves no temp files", func() {
		path := filepath.Join(dir, "output.json")
		Expect(os.WriteFile(path, []byte("stale"), 0o644)).To(Succeed())

		Expect(snapshot.WriteJSON(path, records()[:1], generated)).To(Succeed())
		Expect(read(path)).To(HaveLen(1))

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})

	It("writes an empty array for no rows", func() {
		path := filepath.Join(dir, "nested", "output.json")
		Expect(snapshot.WriteJSON(path, nil, generated)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("[]"))
	})
})
