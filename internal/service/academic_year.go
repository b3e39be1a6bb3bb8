package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/noah-isme/sma-fee-api/pkg/errors"
)

// monthRef identifies one calendar month of an academic year.
type monthRef struct {
	Key   string
	Label string
	Year  int
	Month time.Month
}

// academicYearMonths expands a session name like "2026-2027" into its
// twelve calendar months, April of the first year through March of the
// second, each keyed YYYY-MM.
func academicYearMonths(academicYear string) ([]monthRef, error) {
	startYear, err := academicYearStart(academicYear)
	if err != nil {
		return nil, err
	}
	months := make([]monthRef, 0, 12)
	for i := 0; i < 12; i++ {
		month := time.Month((int(time.April)+i-1)%12 + 1)
		year := startYear
		if month < time.April {
			year = startYear + 1
		}
		months = append(months, monthRef{
			Key:   fmt.Sprintf("%04d-%02d", year, int(month)),
			Label: fmt.Sprintf("%s %d", month.String(), year),
			Year:  year,
			Month: month,
		})
	}
	return months, nil
}

// academicYearStart parses the first calendar year out of a session name,
// validating the "YYYY1-YYYY2" shape with consecutive years.
func academicYearStart(academicYear string) (int, error) {
	parts := strings.Split(academicYear, "-")
	if len(parts) != 2 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "academic year must look like 2026-2027")
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "academic year must look like 2026-2027")
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 || second != first+1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "academic year must span two consecutive years")
	}
	return first, nil
}

// currentMonthKey formats the month containing now as a ledger month key.
func currentMonthKey(now time.Time) string {
	return fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
}
