package utils

import (
	"github.com/dustin/go-humanize"
)

const (
	// NoData is shown in place of an average salary nobody published
	NoData = "-"

	upperOnlyFactor = 1.2
	lowerOnlyFactor = 0.8
)

// PredictSalary turns a possibly one-sided salary fork into a single figure.
// Zero bounds count as unpublished; ok is false when both are missing.
// Results are truncated toward zero.
func PredictSalary(from, to int) (salary int, ok bool) {
	switch {
	case from <= 0 && to <= 0:
		return 0, false
	case from <= 0:
		return int(float64(to) * upperOnlyFactor), true
	case to <= 0:
		return int(float64(from) * lowerOnlyFactor), true
	default:
		return int(float64(from+to) / 2), true
	}
}

// Mean returns the truncated arithmetic mean of salaries, or 0 for an empty slice
func Mean(salaries []int) int {
	if len(salaries) == 0 {
		return 0
	}
	var sum int64
	for _, s := range salaries {
		sum += int64(s)
	}
	return int(float64(sum) / float64(len(salaries)))
}

// FormatNumber formats a count or salary with thousands separators
func FormatNumber(n int) string {
	return humanize.Comma(int64(n))
}
