package timeutil

import (
	"testing"
	"time"
)

func TestWeekdayAbbrev(t *testing.T) {
	// 2025-01-06 is a Monday.
	monday := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	for i, want := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		got := WeekdayAbbrev(AddDays(monday, i))
		if got != want {
			t.Errorf("day %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestCombineTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	tests := []struct {
		name    string
		hhmm    string
		want    string
		wantErr bool
	}{
		{name: "morning", hhmm: "09:00", want: "2025-03-10T09:00:00-04:00"},
		{name: "evening", hhmm: "17:30", want: "2025-03-10T17:30:00-04:00"},
		{name: "no colon", hhmm: "0900", wantErr: true},
		{name: "bad hour", hhmm: "25:00", wantErr: true},
		{name: "bad minute", hhmm: "09:61", wantErr: true},
		{name: "garbage", hhmm: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CombineTime(date, tt.hhmm)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.hhmm)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format(time.RFC3339) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Format(time.RFC3339))
			}
		})
	}
}

func TestParseLocalDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	d, err := ParseLocalDate("2025-12-25", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.December || d.Day() != 25 {
		t.Errorf("wrong date: %v", d)
	}
	if d.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, d.Location())
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("expected midnight, got %v", d)
	}

	if _, err := ParseLocalDate("25.12.2025", loc); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestSameDateAcrossZones(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	// 2025-06-15 23:00 in New York is 2025-06-16 03:00 UTC.
	local := time.Date(2025, 6, 15, 23, 0, 0, 0, ny)
	utc := local.UTC()

	if !SameDate(local, utc) {
		t.Error("expected same date when compared in local zone")
	}
	if SameDate(utc.In(time.UTC), local) {
		t.Error("expected different dates when compared in UTC")
	}
}

func TestWeekStart(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Berlin")

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "wednesday",
			in:   time.Date(2025, 1, 8, 15, 30, 0, 0, loc),
			want: time.Date(2025, 1, 6, 0, 0, 0, 0, loc),
		},
		{
			name: "monday itself",
			in:   time.Date(2025, 1, 6, 0, 0, 0, 0, loc),
			want: time.Date(2025, 1, 6, 0, 0, 0, 0, loc),
		},
		{
			name: "sunday belongs to previous monday",
			in:   time.Date(2025, 1, 12, 23, 59, 0, 0, loc),
			want: time.Date(2025, 1, 6, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextGridPoint(t *testing.T) {
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	interval := 30 * time.Minute

	tests := []struct {
		name  string
		floor time.Time
		want  time.Time
	}{
		{name: "floor before day start", floor: base.Add(-time.Hour), want: base},
		{name: "floor equals day start", floor: base, want: base},
		{name: "floor on grid", floor: base.Add(30 * time.Minute), want: base.Add(30 * time.Minute)},
		{name: "floor between grid points", floor: base.Add(31 * time.Minute), want: base.Add(60 * time.Minute)},
		{name: "floor just past grid", floor: base.Add(time.Minute), want: base.Add(30 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextGridPoint(base, tt.floor, interval)
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 1, 6, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		s1   time.Time
		e1   time.Time
		s2   time.Time
		e2   time.Time
		want bool
	}{
		{name: "disjoint", s1: at(9), e1: at(10), s2: at(11), e2: at(12), want: false},
		{name: "touching is not overlap", s1: at(9), e1: at(10), s2: at(10), e2: at(11), want: false},
		{name: "partial", s1: at(9), e1: at(11), s2: at(10), e2: at(12), want: true},
		{name: "contained", s1: at(9), e1: at(12), s2: at(10), e2: at(11), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			// Symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("symmetric case: expected %v, got %v", tt.want, got)
			}
		})
	}
}
