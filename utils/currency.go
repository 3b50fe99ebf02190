package utils

import (
	"fmt"
	"math"
	"strings"
)

// ToPaise converts a rupee amount to integer paise, rounding half away from zero.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromPaise converts paise back to rupees.
func FromPaise(paise int64) float64 {
	return float64(paise) / 100
}

// FormatCurrencyINR formats rupees with Indian digit grouping.
// Example: 1234567.5 -> "₹12,34,567.50"
func FormatCurrencyINR(amount float64) string {
	paise := ToPaise(amount)
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	rupees := fmt.Sprintf("%d", paise/100)
	fraction := paise % 100

	// last three digits, then groups of two
	var groups []string
	if len(rupees) > 3 {
		head, tail := rupees[:len(rupees)-3], rupees[len(rupees)-3:]
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		groups = append(groups, tail)
	} else {
		groups = []string{rupees}
	}

	return fmt.Sprintf("%s₹%s.%02d", sign, strings.Join(groups, ","), fraction)
}
