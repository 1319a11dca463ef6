package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

var ErrInvalidTime = eris.New("invalid time value")

// layouts covers what the payroll export and excelize's default number
// formats produce for date and datetime cells.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/01/02 15:04",
	"2006/1/2 15:04",
	"2006/01/02",
	"2006/1/2",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"1/2/06",
	"01-02-06",
	"2006-01",
	"2006/01",
	"2006年1月",
	"200601",
}

// ParseTime parses a cell as a wall-clock time in loc. Excel serial numbers
// are accepted as well as text layouts.
func ParseTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") || strings.EqualFold(raw, "nat") {
		return time.Time{}, eris.Wrap(ErrInvalidTime, "empty cell")
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			// serials carry no zone, read them as wall clock in loc
			t = t.Round(time.Second)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, eris.Wrapf(ErrInvalidTime, "%q", raw)
}

// ParseOptionalTime is the lenient variant: anything unparseable is nil.
func ParseOptionalTime(raw string, loc *time.Location) *time.Time {
	t, err := ParseTime(raw, loc)
	if err != nil {
		return nil
	}
	return &t
}
