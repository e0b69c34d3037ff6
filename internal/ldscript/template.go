package ldscript

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissingKey is returned when a template placeholder has no value.
	ErrMissingKey = errors.New("missing template value")
	// ErrInvalidPlaceholder is returned for a "$" that starts no valid
	// placeholder and is not escaped as "$$".
	ErrInvalidPlaceholder = errors.New("invalid placeholder")
)

var (
	parenRe       = regexp.MustCompile(`\$\(([^()]+)\)`)
	placeholderRe = regexp.MustCompile(`\$(?:(\$)|([_A-Za-z][_A-Za-z0-9]*)|\{([_A-Za-z][_A-Za-z0-9]*)\}|)`)
)

// RewritePlaceholders turns every "$(Name)" into "${Name}". Already braced
// placeholders are left alone, so the rewrite is idempotent.
func RewritePlaceholders(s string) string {
	return parenRe.ReplaceAllString(s, `$${${1}}`)
}

// Substitute replaces "$Name" and "${Name}" with values[Name]. "$$" yields a
// literal "$". Unknown names and stray "$" characters are errors.
func Substitute(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	last := 0

	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(tmpl, -1) {
		b.WriteString(tmpl[last:loc[0]])
		last = loc[1]

		switch {
		case loc[2] >= 0: // "$$"
			b.WriteByte('$')
		case loc[4] >= 0, loc[6] >= 0:
			name := groupText(tmpl, loc, 2)
			if name == "" {
				name = groupText(tmpl, loc, 3)
			}
			v, ok := values[name]
			if !ok {
				return "", fmt.Errorf("%w %q", ErrMissingKey, name)
			}
			b.WriteString(v)
		default:
			line, col := position(tmpl, loc[0])
			return "", fmt.Errorf("%w in template: line %d, col %d", ErrInvalidPlaceholder, line, col)
		}
	}

	b.WriteString(tmpl[last:])
	return b.String(), nil
}

func groupText(s string, loc []int, group int) string {
	start, end := loc[2*group], loc[2*group+1]
	if start < 0 {
		return ""
	}
	return s[start:end]
}

// position converts a byte offset into a 1-based line and column.
func position(s string, offset int) (int, int) {
	line := 1 + strings.Count(s[:offset], "\n")
	col := offset + 1
	if i := strings.LastIndexByte(s[:offset], '\n'); i >= 0 {
		col = offset - i
	}
	return line, col
}
