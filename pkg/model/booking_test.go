package model

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid date",
			input: "2026-12-24",
			want:  time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "wrong layout",
			input:   "24-12-2026",
			wantErr: true,
		},
		{
			name:    "invalid calendar date",
			input:   "2026-02-30",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{"one night", "2026-09-22", "2026-09-23", 1},
		{"three nights", "2026-09-22", "2026-09-25", 3},
		{"same day", "2026-09-22", "2026-09-22", 0},
		{"reversed", "2026-09-25", "2026-09-22", -3},
		{"across month boundary", "2026-09-30", "2026-10-02", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseDate(tt.checkIn)
			if err != nil {
				t.Fatal(err)
			}
			out, err := ParseDate(tt.checkOut)
			if err != nil {
				t.Fatal(err)
			}
			if got := Nights(in, out); got != tt.want {
				t.Errorf("Nights(%s, %s) = %d, want %d", tt.checkIn, tt.checkOut, got, tt.want)
			}
		})
	}
}
