package sqlite

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	lineCommentRegex     = regexp.MustCompile(`--[^\n]*`)
	// $N ordinals differ per statement shape; spans group on the folded form.
	ordinalPlaceholderRegex = regexp.MustCompile(`\$\d+`)
	repeatedTupleRegex      = regexp.MustCompile(`(\(\?(?:, \?)*\))(?:, \(\?(?:, \?)*\))+`)
)

// formatQueryForTrace renders a statement for span names. Comments are
// dropped, $N placeholders become ?, multi-row VALUES lists keep one tuple and
// the result is cut at a rune boundary.
func formatQueryForTrace(query string) string {
	query = strings.TrimSpace(lineCommentRegex.ReplaceAllString(query, ""))
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = ordinalPlaceholderRegex.ReplaceAllString(normalized, "?")
	normalized = repeatedTupleRegex.ReplaceAllString(normalized, "$1, ...")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
