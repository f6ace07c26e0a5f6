package timeparsing

import (
	"testing"
	"time"
)

func TestParseCompactDuration(t *testing.T) {
	// Fixed reference time for deterministic tests
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "+6h adds 6 hours", input: "+6h", want: time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)},
		{name: "+1d adds 1 day", input: "+1d", want: time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)},
		{name: "+2w adds 2 weeks", input: "+2w", want: time.Date(2025, 6, 29, 12, 0, 0, 0, time.UTC)},
		{name: "+3m adds 3 months", input: "+3m", want: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
		{name: "+1y adds 1 year", input: "+1y", want: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)},
		{name: "-1d subtracts 1 day", input: "-1d", want: time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
		{name: "no sign means positive", input: "3m", want: time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)},
		{name: "bare number rejected", input: "42", wantErr: true},
		{name: "unknown unit rejected", input: "+2x", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompactDuration(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCompactDuration(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCompactDuration(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCompactDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSpanishKeywords(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"hoy", now},
		{"mañana", now.AddDate(0, 0, 1)},
		{"Mañana", now.AddDate(0, 0, 1)},
		{"próxima semana", now.AddDate(0, 0, 7)},
		{"próximo mes", now.AddDate(0, 1, 0)},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input, now)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseAbsolute(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	got, err := Parse("2025-12-24", now)
	if err != nil {
		t.Fatalf("Parse date-only: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 24 {
		t.Errorf("Parse(2025-12-24) = %v", got)
	}

	if _, err := Parse("not a date at all zzz", now); err == nil {
		t.Error("Parse(garbage) succeeded, want error")
	}
}

func TestParseNaturalEnglish(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	got, err := Parse("tomorrow", now)
	if err != nil {
		t.Fatalf("Parse(tomorrow): %v", err)
	}
	if got.Day() != 16 {
		t.Errorf("Parse(tomorrow).Day() = %d, want 16", got.Day())
	}
}
