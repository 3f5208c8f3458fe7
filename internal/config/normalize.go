package config

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// listCutset holds characters left behind when a list was written as a
// quoted or bracketed literal, e.g. SELECTED_TASKS=["user", 'packages'].
const listCutset = `'"[]`

// isListArtifact reports whether r is trimmed from the ends of a list item.
func isListArtifact(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(listCutset, r)
}

// ParseTaskList splits a comma-separated task list and normalizes it.
func ParseTaskList(raw string) []string {
	return NormalizeTaskList([]string{raw})
}

// NormalizeTaskList strips quoting and bracket artifacts and drops empty
// entries. Items containing commas are split. The result never contains an
// empty string and NormalizeTaskList(NormalizeTaskList(x)) equals
// NormalizeTaskList(x).
func NormalizeTaskList(items []string) []string {
	parts := lo.FlatMap(items, func(item string, _ int) []string {
		return strings.Split(item, ",")
	})
	cleaned := lo.Map(parts, func(part string, _ int) string {
		return strings.TrimFunc(part, isListArtifact)
	})
	return lo.Compact(cleaned)
}

// ParseBool interprets true, 1 and yes (case-insensitive) as true. An empty
// value yields def; anything else is false.
func ParseBool(raw string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return def
	}
	return lo.Contains([]string{"true", "1", "yes"}, value)
}
