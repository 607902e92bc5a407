package render

import (
	"regexp"
	"strconv"
	"strings"
)

// RenderError is the structured form recovered from a renderer's free-text
// error message. Line and Column are 1-based; 0 means the message carried
// no such hint.
type RenderError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// The renderer reports positions as prose, not structure, so recovery is
// case-insensitive substring matching on "line"/"column" tokens followed
// by a number. Best effort and format-coupled; a renderer that exposes a
// structured error should be consumed directly instead.
var (
	lineRe   = regexp.MustCompile(`(?i)\bline[:\s]+(\d+)`)
	columnRe = regexp.MustCompile(`(?i)\b(?:column|col)[:\s]+(\d+)`)
)

// ExtractError scrapes a renderer error message for line and column hints.
// It never fails: worst case the result carries only the trimmed message.
func ExtractError(msg string) RenderError {
	out := RenderError{Message: strings.TrimSpace(msg)}

	if m := lineRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.Line = n
		}
	}
	if m := columnRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.Column = n
		}
	}
	return out
}
