package render

import (
	"strconv"
	"strings"
)

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if string is empty
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// Truncate truncates a string to max runes
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Flatten collapses line breaks so a value fits a single cell.
func Flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AsCount formats a count
func AsCount(n int) string {
	return strconv.Itoa(n)
}

// PageLabel formats a page position as current/total.
func PageLabel(current, total int) string {
	return AsCount(current) + "/" + AsCount(total)
}
