// Package strings provides small string and slice helpers
package strings

import (
	std "strings"
	"unicode/utf8"
)

// IfEmpty returns def when in is empty
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s or panics naming what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix to a single leading slash and no trailing slash.
// It panics on an empty or root prefix
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Ellipsis shortens s to at most n runes, marking the cut with "…"
func Ellipsis(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	i, k := 0, 0
	for i = range s {
		if k == n-1 {
			break
		}
		k++
	}
	return std.TrimRight(s[:i], " ") + "…"
}

// SplitList splits comma separated items, trimming blanks away
func SplitList(s string) []string {
	var out []string
	for _, p := range std.Split(s, ",") {
		if p = std.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
