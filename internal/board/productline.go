package board

import (
	"errors"
	"strings"
)

// ErrNoProductLine is returned when a board does not name its product line.
var ErrNoProductLine = errors.New("invalid or unspecified product line; specify build.product_line in the board definition")

// NormalizeProductLine lower-cases and trims a product line identifier.
// Every path derived from a product line goes through this function.
func NormalizeProductLine(line string) (string, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return "", ErrNoProductLine
	}
	return line, nil
}

// ProductLine returns the normalized build.product_line of the board.
func (c *Config) ProductLine() (string, error) {
	return NormalizeProductLine(c.GetString("build.product_line", ""))
}
