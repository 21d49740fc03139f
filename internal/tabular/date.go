package tabular

import (
	"regexp"
	"strconv"
	"time"
)

// Date patterns tried in order. Two-digit years are assumed to be 20xx.
var datePatterns = []struct {
	re        *regexp.Regexp
	yearIdx   int
	monthIdx  int
	dayIdx    int
	shortYear bool
}{
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), monthIdx: 1, dayIdx: 2, yearIdx: 3},
	{re: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), yearIdx: 1, monthIdx: 2, dayIdx: 3},
	{re: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), monthIdx: 1, dayIdx: 2, yearIdx: 3},
	{re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`), monthIdx: 1, dayIdx: 2, yearIdx: 3, shortYear: true},
}

// parseDate normalizes a date cell into a calendar date. It rejects values
// where any component is missing or the year does not resolve to exactly
// four digits.
func parseDate(s string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		match := pattern.re.FindStringSubmatch(s)
		if match == nil {
			continue
		}

		year, _ := strconv.Atoi(match[pattern.yearIdx])
		month, _ := strconv.Atoi(match[pattern.monthIdx])
		day, _ := strconv.Atoi(match[pattern.dayIdx])

		if pattern.shortYear {
			year += 2000
		}
		if year < 1000 || year > 9999 {
			return time.Time{}, false
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}

		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes overflow (e.g. Feb 30); reject anything that
		// moved.
		if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
			return time.Time{}, false
		}
		return date, true
	}

	return time.Time{}, false
}
