package utils

import (
	"strings"
	"unicode"
)

// SplitList removes all whitespace from str and splits it on commas.
// Empty items are dropped.
func SplitList(str string) []string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, str)

	items := []string{}
	for _, item := range strings.Split(compact, ",") {
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func SliceToString(slice []string) string {
	return strings.Join(slice, ",")
}
