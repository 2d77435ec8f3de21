package timeparse

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	got, err := ParseClock("25/12/2023 14:30", time.UTC)
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	want := time.Date(2023, time.December, 25, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Unpadded fields are accepted, matching the command grammar.
	got, err = ParseClock("5/1/2024 9:05", time.UTC)
	if err != nil {
		t.Fatalf("ParseClock failed on unpadded input: %v", err)
	}
	want = time.Date(2024, time.January, 5, 9, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseClockZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	got, err := ParseClock("01/06/2024 08:00", loc)
	if err != nil {
		t.Fatalf("ParseClock failed: %v", err)
	}
	if got.UTC().Hour() != 6 {
		t.Errorf("Expected 06:00 UTC, got %v", got.UTC())
	}
}

func TestParseClockInvalid(t *testing.T) {
	bad := []string{
		"",
		"25/12/2023",
		"25-12-2023 14:30",
		"25/12/2023 1430",
		"xx/12/2023 14:30",
		"25/13/2023 14:30",
		"32/12/2023 14:30",
		"25/12/2023 24:30",
		"25/12/2023 14:60",
	}
	for _, in := range bad {
		_, err := ParseClock(in, time.UTC)
		if err == nil {
			t.Errorf("Expected error for %q", in)
			continue
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Expected FormatError for %q, got %T", in, err)
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"2:00", 2 * time.Hour},
		{"0:45", 45 * time.Minute},
		{"1:30:15", time.Hour + 30*time.Minute + 15*time.Second},
		{"10:00", 10 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, in := range []string{"", "90", "1:xx", "1:75", "1:30:99", "1:2:3:4", "-1:30"} {
		if _, err := ParseDuration(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestParseForecast(t *testing.T) {
	got, err := ParseForecast("7 D")
	if err != nil {
		t.Fatalf("ParseForecast failed: %v", err)
	}
	if got != 7*24*time.Hour {
		t.Errorf("Expected 168h, got %v", got)
	}

	// Lowercase unit is tolerated.
	if _, err := ParseForecast("3 d"); err != nil {
		t.Errorf("ParseForecast(\"3 d\") failed: %v", err)
	}
}

func TestParseForecastInvalid(t *testing.T) {
	for _, in := range []string{"", "7", "7 W", "x D", "0 D", "-2 D"} {
		_, err := ParseForecast(in)
		if err == nil {
			t.Errorf("Expected error for %q", in)
			continue
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Expected FormatError for %q, got %T", in, err)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	// Wednesday 10:30 -> preceding Monday 00:00.
	wed := time.Date(2023, time.December, 20, 10, 30, 0, 0, time.UTC)
	got := StartOfWeek(wed)
	want := time.Date(2023, time.December, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Monday maps to itself at midnight.
	mon := time.Date(2023, time.December, 18, 23, 59, 0, 0, time.UTC)
	if got := StartOfWeek(mon); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Sunday belongs to the week started the previous Monday.
	sun := time.Date(2023, time.December, 24, 1, 0, 0, 0, time.UTC)
	if got := StartOfWeek(sun); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestHumanFormats(t *testing.T) {
	ts := time.Date(2023, time.December, 25, 14, 30, 0, 0, time.UTC)
	if got := ShortHumanTime(ts); got != "Monday, December 25" {
		t.Errorf("ShortHumanTime = %q", got)
	}
	if got := HumanHour(ts); got != "02:30 PM" {
		t.Errorf("HumanHour = %q", got)
	}
}
