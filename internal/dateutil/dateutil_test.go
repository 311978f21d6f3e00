package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestLayout
// ---------------------------------------------------------------------------

func TestLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		want    string
		wantErr error
	}{
		{format: "YYYY-MM-DD", want: "2006-01-02"},
		{format: "DD/MM/YY", want: "02/01/06"},
		{format: "MMMM D, YYYY", want: "January 2, 2006"},
		{format: "MMM YYYY", want: "Jan 2006"},
		{format: "M/D", want: "1/2"},
		{format: "(YYYY)", want: "(2006)"},

		// presets, any case
		{format: "iso", want: "2006-01-02"},
		{format: "European", want: "02/01/2006"},
		{format: "US", want: "01/02/2006"},
		{format: "long", want: "January 2, 2006"},

		// unbracketed letters are tokens too
		{format: "Date: YYYY", want: "2ate: 2006"},
		{format: "[Date]: YYYY", want: "Date: 2006"},
		{format: "[YYYY]-MM", want: "YYYY-01"},
		{format: "[Day] D [Month] M", want: "Day 2 Month 1"},
		{format: "D[]M", want: "21"},

		{format: "", wantErr: ErrInvalidDateFormat},
		{format: strings.Repeat("Y", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
		{format: "YYYY [oops", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			got, err := Layout(tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Layout(%q) error = %v, want %v", tt.format, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Layout(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestLayout_UnclosedBracketPosition(t *testing.T) {
	t.Parallel()

	_, err := Layout("[a] YYYY [b")
	if err == nil || !strings.Contains(err.Error(), "position 9") {
		t.Errorf("Layout() error = %v, want position 9", err)
	}
}

// ---------------------------------------------------------------------------
// TestFormatDate
// ---------------------------------------------------------------------------

func TestFormatDate(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"", "2024-03-05", false},
		{"long", "March 5, 2024", false},
		{"DD/MM/YYYY", "05/03/2024", false},
		{"[Published] MMM D", "Published Mar 5", false},
		{"[broken", "", true},
	}

	for _, tt := range tests {
		got, err := FormatDate(date, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatDate(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"iso", "LONG", "YYYY", "[x]"} {
		if err := ValidateFormat(ok); err != nil {
			t.Errorf("ValidateFormat(%q) error = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "[x"} {
		if err := ValidateFormat(bad); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ValidateFormat(%q) error = %v, want %v", bad, err, ErrInvalidDateFormat)
		}
	}
}

// ---------------------------------------------------------------------------
// TestParseDate
// ---------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{" 2024-03-05 ", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"2024-03-05 08:15", time.Date(2024, 3, 5, 8, 15, 0, 0, time.UTC), false},
		{"2024-03-05T08:15", time.Date(2024, 3, 5, 8, 15, 0, 0, time.UTC), false},
		{"2024-03-05T08:15:00Z", time.Date(2024, 3, 5, 8, 15, 0, 0, time.UTC), false},
		{"05/03/2024", time.Time{}, true},
		{"yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.value)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("ParseDate(%q) error = %v, want %v", tt.value, err, ErrInvalidDate)
			}
			continue
		}
		if err != nil || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v", tt.value, got, err, tt.want)
		}
	}
}
