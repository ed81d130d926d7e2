package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-1-1", "01-01-2023", "", "abc"}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidYearMonth(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-06"}
	invalid := []string{"2025-13", "2025-00", "2025-1", "2025/01", "202501", ""}
	for _, s := range valid {
		if !IsValidYearMonth(s) {
			t.Errorf("IsValidYearMonth(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidYearMonth(s) {
			t.Errorf("IsValidYearMonth(%q) = true, want false", s)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	year, month, ok := ParseYearMonth("2025-11")
	if !ok || year != 2025 || month != time.November {
		t.Errorf("ParseYearMonth(2025-11) = (%d, %v, %v)", year, month, ok)
	}
	if _, _, ok := ParseYearMonth("2025-13"); ok {
		t.Error("ParseYearMonth(2025-13) should fail")
	}
}

func TestFormatYearMonth(t *testing.T) {
	if got := FormatYearMonth(2025, time.March); got != "2025-03" {
		t.Errorf("FormatYearMonth(2025, March) = %q, want 2025-03", got)
	}
}
