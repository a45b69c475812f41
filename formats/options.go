package formats

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type config struct {
	delimiter  rune
	skipHeader bool
	crlf       bool
}

func newConfig(opts []Option) config {
	c := config{delimiter: ','}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures how rows are read or written.
type Option func(*config)

// WithDelimiter sets the field delimiter. Defaults to ','.
func WithDelimiter(r rune) Option {
	return func(c *config) {
		c.delimiter = r
	}
}

// WithSkipHeader drops the first row when reading.
func WithSkipHeader() Option {
	return func(c *config) {
		c.skipHeader = true
	}
}

// WithCRLF terminates written rows with \r\n instead of \n.
func WithCRLF() Option {
	return func(c *config) {
		c.crlf = true
	}
}

// ParseDelimiter turns a configured delimiter such as ",", ";" or "\t" into a
// rune. The words "tab", "comma", "semicolon" and "pipe" are accepted too.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "comma":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !validDelimiter(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// validDelimiter mirrors the checks encoding/csv applies to Comma.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
