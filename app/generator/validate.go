package generator

import (
	"regexp"
	"strings"
)

var parenGroup = regexp.MustCompile(`\(([^()]*)\)`)

// ValidSingle reports whether the response contains at least one
// parenthesized group
func ValidSingle(response string) bool {
	return parenGroup.MatchString(response)
}

// ValidDual reports whether the response contains exactly two balanced
// non-overlapping parenthesized groups. Any other count, or unbalanced
// parentheses, is invalid.
func ValidDual(response string) bool {
	if strings.Count(response, "(") != 2 || strings.Count(response, ")") != 2 {
		return false
	}
	return len(parenGroup.FindAllString(response, -1)) == 2
}
