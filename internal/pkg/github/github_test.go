package github_test

import (
	"context"

	"salarycheck/internal/pkg/github"
	"salarycheck/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rotisserie/eris"
)

var _ = Describe("Client", func() {
	var client *github.Client

	BeforeEach(func() {
		testhelpers.Activate()

		client = github.New("https://api.github.com/", "BYTX-YGJ/excel", "test-pat", 0)
		client.UseDefaultClient()
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	It("escapes each path segment", func() {
		Expect(client.ContentsURL("工资核算人统计.xlsx")).To(Equal(
			"https://api.github.com/repos/BYTX-YGJ/excel/contents/%E5%B7%A5%E8%B5%84%E6%A0%B8%E7%AE%97%E4%BA%BA%E7%BB%9F%E8%AE%A1.xlsx"))
		Expect(client.ContentsURL("/reg/a b.xlsx")).To(Equal(
			"https://api.github.com/repos/BYTX-YGJ/excel/contents/reg/a%20b.xlsx"))
	})

	Describe("FetchSheet", func() {
		It("downloads the raw file with the token", func() {
			workbook, err := testhelpers.BuildWorkbook("Sheet1", [][]string{
				{"项目", "工资核对人"},
				{"项目A", "Alice"},
			})
			Expect(err).NotTo(HaveOccurred())

			testhelpers.New("https://api.github.com").
				Get("/repos/BYTX-YGJ/excel/contents/工资核算人统计.xlsx").
				MatchHeader("Authorization", "token test-pat").
				MatchHeader("Accept", "application/vnd.github.v3.raw").
				Reply(200).
				Body(workbook)

			rows, err := client.FetchSheet(context.Background(), "工资核算人统计.xlsx", "Sheet1")
			Expect(err).NotTo(HaveOccurred())
			Expect(testhelpers.IsDone()).To(BeTrue())
			Expect(rows).To(Equal([][]string{{"项目", "工资核对人"}, {"项目A", "Alice"}}))
		})

		It("returns ErrUpstream when the file is missing", func() {
			testhelpers.New("https://api.github.com").
				Get("/repos/BYTX-YGJ/excel/contents/邮箱维护.xlsx").
				Reply(404).
				JSON(map[string]string{"message": "Not Found"})

			_, err := client.FetchSheet(context.Background(), "邮箱维护.xlsx", "Sheet1")
			Expect(eris.Is(err, github.ErrUpstream)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("404"))
		})
	})
})
