// Package formutil converts raw form values into request fields.
package formutil

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseInt reads the leading integer of s the way a browser's parseInt does:
// surrounding whitespace is ignored, an optional sign and "0x" prefix are honoured,
// and parsing stops at the first non-digit. Input with no leading digits yields nil,
// which encodes as JSON null so the server can reject it.
// PRE: none
// POST: Returns nil or a pointer to the parsed value
func ParseInt(s string) *int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return nil
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return nil
	}
	if neg {
		n = -n
	}
	v := int(n)
	return &v
}

// OptionalID returns nil for an empty selection, otherwise the parsed id.
func OptionalID(s string) *int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return ParseInt(s)
}

// Checkbox converts a checkbox-style value to the 0/1 integer the API stores.
// "1", "true" and "on" are truthy; anything else that parses is passed through.
func Checkbox(s string) *int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true":
		v := 1
		return &v
	case "", "off", "false":
		v := 0
		return &v
	}
	return ParseInt(s)
}

// Value renders an optional integer back into a form field.
func Value(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}
