package loader

import (
	"strings"
	"unicode"
)

// Normalize cleans raw extracted text: control characters are
// stripped, runs of spaces and tabs collapse to one space, and
// paragraph breaks (one or more blank lines) collapse to a single
// newline. Line endings are unified to \n first so CRLF input
// normalizes the same as LF input.
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var b strings.Builder
	b.Grow(len(raw))

	pendingSpace := false
	pendingNewlines := 0
	wrote := false

	flush := func() {
		if pendingNewlines > 0 {
			if wrote {
				b.WriteByte('\n')
			}
			pendingNewlines = 0
			pendingSpace = false
			return
		}
		if pendingSpace {
			if wrote {
				b.WriteByte(' ')
			}
			pendingSpace = false
		}
	}

	for _, r := range raw {
		switch {
		case r == '\n':
			pendingNewlines++
		case r == ' ' || r == '\t':
			pendingSpace = true
		case unicode.IsControl(r):
			// dropped
		default:
			flush()
			b.WriteRune(r)
			wrote = true
		}
	}

	return b.String()
}
