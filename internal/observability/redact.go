package observability

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Masked replaces secret values in commands, errors and events.
const Masked = "********"

// quoteEscapes are the rewrites a secret goes through when embedded in a
// single-quoted shell word or SQL literal.
var quoteEscapes = []func(string) string{
	func(s string) string { return strings.ReplaceAll(s, "'", `'"'"'`) },
	func(s string) string { return strings.ReplaceAll(s, "'", "''") },
}

// Mask replaces every occurrence of each secret in text with Masked.
// Forms produced by up to two levels of shell or SQL quoting are masked too.
func Mask(text string, secrets ...string) string {
	variants := secretVariants(secrets)
	for _, v := range variants {
		text = strings.ReplaceAll(text, v, Masked)
	}
	return text
}

func secretVariants(secrets []string) []string {
	var variants []string
	for _, secret := range lo.Compact(secrets) {
		level := []string{secret}
		variants = append(variants, secret)
		for range 2 {
			var next []string
			for _, v := range level {
				for _, escape := range quoteEscapes {
					next = append(next, escape(v))
				}
			}
			variants = append(variants, next...)
			level = next
		}
	}
	variants = lo.Uniq(variants)
	// Longer forms first so an escaped variant is not split by a shorter one.
	sort.SliceStable(variants, func(i, j int) bool { return len(variants[i]) > len(variants[j]) })
	return variants
}
