package utils

import (
	"fmt"
	"strings"
)

const bytesPerKilobyte = 1024

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= bytesPerKilobyte && unitIndex < len(units)-1 {
		value /= bytesPerKilobyte
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := fmt.Sprintf("%.1f", value)
		formatted = strings.TrimSuffix(formatted, ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}

// FormatKilobytes renders a byte length as kilobytes with two decimals, e.g. "1.50 KB".
func FormatKilobytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return fmt.Sprintf("%.2f KB", float64(bytes)/bytesPerKilobyte)
}
