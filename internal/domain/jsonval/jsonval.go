// Package jsonval holds JSON value types for fields the gym API encodes loosely.
package jsonval

import (
	"fmt"
	"strconv"
	"strings"
)

// Bool decodes JSON booleans as well as the 0/1 integers a MySQL-backed API emits.
type Bool bool

// UnmarshalJSON accepts true/false, numbers, numeric strings and null (false).
// PRE: data is a single JSON value
// POST: b holds the truthiness of the value, or an error is returned
func (b *Bool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch s {
	case "true":
		*b = true
		return nil
	case "false", "null", "":
		*b = false
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("jsonval: invalid boolean %q", string(data))
	}
	*b = f != 0
	return nil
}

// MarshalJSON encodes b as a JSON boolean.
func (b Bool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Int returns 1 for true and 0 for false, the form the API expects on writes.
func (b Bool) Int() int {
	if b {
		return 1
	}
	return 0
}

// Decimal is an optional decimal that may arrive as a JSON number or a string.
type Decimal struct {
	Value float64
	Valid bool
}

// UnmarshalJSON accepts numbers, numeric strings and null.
// PRE: data is a single JSON value
// POST: Valid is false for null or empty strings
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "null" || s == "" {
		*d = Decimal{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("jsonval: invalid decimal %q", string(data))
	}
	*d = Decimal{Value: f, Valid: true}
	return nil
}

// MarshalJSON encodes d as a number, or null when not valid.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(d.Value, 'f', -1, 64)), nil
}

// String renders the value for display; missing and zero values render as "-".
func (d Decimal) String() string {
	if !d.Valid || d.Value == 0 {
		return "-"
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64)
}
