// Package ident normalizes identifiers that reach the system in mixed
// representations (7, 7.0, "7", " 7 ") into one canonical string key.
package ident

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Unset is the canonical form of an empty or missing identifier. It never
// matches a real identifier.
const Unset = ""

var (
	// ErrUnset is returned when an identifier is required but missing.
	ErrUnset = errors.New("identifier is not set")

	// ErrNotNumeric is returned when a numeric identifier was expected.
	ErrNotNumeric = errors.New("identifier is not numeric")
)

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Normalize returns the canonical string key for a raw identifier value.
//
// Integral numbers (including float-like strings such as "7.0") collapse to
// their integer form. Non-numeric strings are trimmed and passed through.
// nil, empty strings, NaN and nil pointers normalize to Unset.
func Normalize(v any) string {
	switch x := v.(type) {
	case nil:
		return Unset
	case ID:
		return normalizeString(string(x))
	case string:
		return normalizeString(x)
	case json.Number:
		return normalizeString(x.String())
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	case fmt.Stringer:
		return normalizeString(x.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Unset
		}
		return Normalize(rv.Elem().Interface())
	}
	return normalizeString(fmt.Sprint(v))
}

func normalizeString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset
	}
	if !decimalPattern.MatchString(s) {
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return normalizeFloat(f)
}

func normalizeFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return Unset
	case math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'f', -1, 64)
	case f == math.Trunc(f) && math.Abs(f) < 1<<63:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// Equal reports whether a and b name the same identifier. Two unset
// identifiers are never equal.
func Equal(a, b any) bool {
	na := Normalize(a)
	return na != Unset && na == Normalize(b)
}

// IsSet reports whether v normalizes to a real identifier.
func IsSet(v any) bool {
	return Normalize(v) != Unset
}

// Int64 parses a numeric identifier.
func Int64(v any) (int64, error) {
	n := Normalize(v)
	if n == Unset {
		return 0, ErrUnset
	}
	id, err := strconv.ParseInt(n, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n)
	}
	return id, nil
}

// ID is an identifier decoded from JSON. It accepts numbers and strings and
// holds the normalized form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*id = Unset
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v.(type) {
	case json.Number, string:
		*id = ID(Normalize(v))
		return nil
	default:
		return fmt.Errorf("ident: unsupported identifier %s", b)
	}
}

// IsSet reports whether the identifier holds a value.
func (id ID) IsSet() bool {
	return Normalize(id) != Unset
}

// Int64 parses the identifier as a number.
func (id ID) Int64() (int64, error) {
	return Int64(id)
}

// Ptr returns the numeric identifier as a pointer, nil when unset.
func (id ID) Ptr() (*int64, error) {
	if !id.IsSet() {
		return nil, nil
	}
	n, err := id.Int64()
	if err != nil {
		return nil, err
	}
	return &n, nil
}
