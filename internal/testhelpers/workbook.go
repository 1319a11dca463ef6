package testhelpers

import (
	"github.com/xuri/excelize/v2"
)

// BuildWorkbook returns xlsx bytes holding one sheet with rows written as text.
func BuildWorkbook(sheetName string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PayrollHeader is the column row of the payroll export.
var PayrollHeader = []string{"BG", "部门", "基地", "项目组", "工资月份", "上传时间", "终版上传时间", "上传人", "终版上传人", "备注"}

// PayrollRow builds a payroll export row in PayrollHeader order.
func PayrollRow(project, base, uploaded, final string) []string {
	return []string{"BG1", "运营部", base, project, "2025-05", uploaded, final, "张三", "", ""}
}
