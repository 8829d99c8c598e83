package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	sign := ""
	str := strconv.FormatInt(balance, 10)
	if balance < 0 {
		sign = "-"
		str = str[1:]
	}

	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatShortNotation formats a number using short notation (e.g., 50k instead of 50000)
func FormatShortNotation(value int64) string {
	absValue := value
	sign := ""
	if value < 0 {
		absValue = -value
		sign = "-"
	}

	switch {
	case absValue >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", sign, float64(absValue)/1_000_000_000)
	case absValue >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, float64(absValue)/1_000_000)
	case absValue >= 10_000:
		return fmt.Sprintf("%s%dk", sign, absValue/1_000)
	case absValue >= 1_000:
		return fmt.Sprintf("%s%.1fk", sign, float64(absValue)/1_000)
	default:
		return fmt.Sprintf("%s%d", sign, absValue)
	}
}

// FormatDuration renders a wait time as "1h 2m 3s", dropping leading zero units.
// Sub-second remainders are rounded up so a pending wait never shows as 0s.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	total := int64((d + time.Second - 1) / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if days > 0 || hours > 0 || minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// FormatMultiplier renders a payout multiplier such as 1.5x
func FormatMultiplier(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + "x"
}
