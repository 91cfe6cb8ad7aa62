// Package normalizer merges raw page text into logical transaction rows.
// A statement row may span several physical lines; continuation lines lack a
// leading date token and belong to the previous row.
package normalizer

import (
	"regexp"
	"strings"
)

// strictDatePattern anchors the external-adapter path: rows start with a
// numeric DD/MM/YYYY date.
var strictDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

// MergeRows splits text into physical lines and merges continuation lines
// into their preceding date-anchored row using the strict date anchor.
func MergeRows(text string) []string {
	return MergeRowsAnchor(text, strictDatePattern)
}

// MergeRowsAnchor is MergeRows with a caller-supplied date anchor. A line
// matching the anchor opens a new logical row; any other non-empty line is
// space-appended to the currently open row.
//
// Content before the first anchored line is dropped: the open-row buffer
// starts empty, so a document whose first line is a continuation loses that
// line. This is long-standing documented behavior, not an oversight.
func MergeRowsAnchor(text string, anchor *regexp.Regexp) []string {
	var merged []string
	var current string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if anchor.MatchString(line) {
			if current != "" {
				merged = append(merged, strings.TrimSpace(current))
			}
			current = line
		} else if current != "" {
			current += " " + line
		}
	}

	if current != "" {
		merged = append(merged, strings.TrimSpace(current))
	}
	return merged
}
