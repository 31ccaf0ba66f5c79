package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCount renders an integer with English digit grouping, e.g. 48500 becomes "48,500".
func FormatCount(value int) string {
	return message.NewPrinter(language.English).Sprintf("%d", value)
}
