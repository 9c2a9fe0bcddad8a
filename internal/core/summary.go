package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Summary is the spending overview returned by the summary endpoint.
type Summary struct {
	MonthTotal int64
	YearTotal  int64
	Month      string // "YYYY-MM"
	Year       int
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MonthRange returns the half-open UTC interval [first of month, first
// of next month). December rolls over to January of the next year.
func MonthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// YearRange returns the half-open UTC interval [Jan 1, Jan 1 of Y+1).
func YearRange(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

var monthParamPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ParseMonthParam parses an explicit "YYYY-MM" query value. Anything
// syntactically off, including a month outside 1-12, reports !ok so the
// caller falls back to the current month.
func ParseMonthParam(s string) (YearMonth, bool) {
	m := monthParamPattern.FindStringSubmatch(s)
	if m == nil {
		return YearMonth{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return YearMonth{}, false
	}
	return YearMonth{Year: year, Month: month}, true
}

// ParseYearParam parses a plain-integer year query value.
func ParseYearParam(s string) (int, bool) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return year, true
}
