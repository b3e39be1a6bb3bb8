package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcademicYearMonthsSpansAprilToMarch(t *testing.T) {
	months, err := academicYearMonths("2026-2027")
	require.NoError(t, err)
	require.Len(t, months, 12)

	assert.Equal(t, "2026-04", months[0].Key)
	assert.Equal(t, time.April, months[0].Month)
	assert.Equal(t, 2026, months[0].Year)

	assert.Equal(t, "2026-12", months[8].Key)
	assert.Equal(t, "2027-01", months[9].Key)

	last := months[11]
	assert.Equal(t, "2027-03", last.Key)
	assert.Equal(t, time.March, last.Month)
	assert.Equal(t, 2027, last.Year)
	assert.Equal(t, "March 2027", last.Label)
}

func TestAcademicYearStartValidation(t *testing.T) {
	start, err := academicYearStart("2026-2027")
	require.NoError(t, err)
	assert.Equal(t, 2026, start)

	for _, year := range []string{"", "2026", "2026-2028", "2027-2026", "26-27", "abcd-efgh", "2026-2027-2028"} {
		_, err := academicYearStart(year)
		assert.Error(t, err, year)
	}
}

func TestCurrentMonthKey(t *testing.T) {
	assert.Equal(t, "2026-01", currentMonthKey(time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-11", currentMonthKey(time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)))
}
