// Package dateutil parses publication dates and formats them with
// user-friendly layouts such as "MMMM D, YYYY".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
)

// MaxDateFormatLength bounds configured formats.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when no format is configured.
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets are named shortcuts, matched case-insensitively.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens rewrites format tokens to Go layout elements. At a given position
// the earlier pair wins, so longer tokens come first.
var tokens = strings.NewReplacer(
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"M", "1",
	"D", "2",
)

// Layout converts a format or preset name to a Go time layout.
//
// Tokens are YYYY, YY, MMMM, MMM, MM, M, DD and D. Text inside brackets is
// kept verbatim, so "[Day] D" renders as "Day 2". Everything else is copied.
func Layout(format string) (string, error) {
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	rest := format
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			b.WriteString(tokens.Replace(rest))
			return b.String(), nil
		}
		b.WriteString(tokens.Replace(rest[:open]))

		n := strings.IndexByte(rest[open+1:], ']')
		if n < 0 {
			pos := len(format) - len(rest) + open
			return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, pos)
		}
		b.WriteString(rest[open+1 : open+1+n])
		rest = rest[open+2+n:]
	}
}

// ValidateFormat reports whether format is a preset or a valid format.
func ValidateFormat(format string) error {
	_, err := Layout(format)
	return err
}

// FormatDate renders t with format. An empty format selects
// DefaultDateFormat.
func FormatDate(t time.Time, format string) (string, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// dateLayouts are the front matter date forms ParseDate accepts, in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseDate parses a publication date written as YYYY-MM-DD, optionally
// with a time of day, or as an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q, use YYYY-MM-DD", ErrInvalidDate, value)
}
