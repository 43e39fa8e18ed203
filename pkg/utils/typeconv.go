package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BartekS5/soundope-import/pkg/models"
)

// ErrBlank is returned by the structured parsers when the field carries no data.
var ErrBlank = errors.New("blank value")

// IntOr parses f as an integer, accepting integral floats such as "12.0".
// Anything else yields def.
func IntOr(f models.RawField, def int) int {
	if v, ok := parseInt(f); ok {
		return v
	}
	return def
}

// OptionalInt is IntOr with nil as the default.
func OptionalInt(f models.RawField) *int {
	if v, ok := parseInt(f); ok {
		return &v
	}
	return nil
}

// OptionalFloat parses f as a finite float, nil otherwise.
func OptionalFloat(f models.RawField) *float64 {
	if f.Blank() {
		return nil
	}
	v, err := strconv.ParseFloat(f.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseInt(f models.RawField) (int, bool) {
	if f.Blank() {
		return 0, false
	}
	s := f.String()
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || v < math.MinInt || v >= -math.MinInt {
		return 0, false
	}
	return int(v), true
}

// Bool is true only for the literal "true", ignoring surrounding whitespace.
func Bool(f models.RawField) bool {
	return f.Present && f.String() == "true"
}

// BoolDefaultTrue is true unless the value is the literal "false", ignoring
// surrounding whitespace.
func BoolDefaultTrue(f models.RawField) bool {
	return !(f.Present && f.String() == "false")
}

// OptionalString returns nil for blank fields.
func OptionalString(f models.RawField) *string {
	if f.Blank() {
		return nil
	}
	s := f.String()
	return &s
}

var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// ParseTime accepts the layouts seen in soundope exports and unix
// milliseconds. The result is always UTC.
func ParseTime(f models.RawField) (time.Time, error) {
	if f.Blank() {
		return time.Time{}, ErrBlank
	}
	s := f.String()
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime: %s", s)
}

// TimeOr returns the parsed time and true, or now and false.
func TimeOr(f models.RawField, now time.Time) (time.Time, bool) {
	t, err := ParseTime(f)
	if err != nil {
		return now, false
	}
	return t, true
}

// StringList parses a JSON array of strings. Non-string elements are kept in
// their text form.
func StringList(f models.RawField) ([]string, error) {
	if f.Blank() {
		return nil, ErrBlank
	}
	var items []any
	if err := json.Unmarshal([]byte(f.String()), &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out, nil
}

// Object parses a JSON object.
func Object(f models.RawField) (map[string]any, error) {
	if f.Blank() {
		return nil, ErrBlank
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(f.String()), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrBlank
	}
	return obj, nil
}

// JSONText encodes v for text/json columns; nil values stay NULL.
func JSONText(v any) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if t == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// EmptyIfNil makes sure list columns are written as [] rather than null.
func EmptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// Lower trims and lower-cases s.
func Lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
