package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  Billy Bryson  ", "Billy Bryson"},
		{"collapse interior runs", "Billy    Bryson", "Billy Bryson"},
		{"tabs and newlines", "Billy\t\nBryson", "Billy Bryson"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"preserve special characters", " Café & Spa™ ", "Café & Spa™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Billy@Domain.COM", "billy@domain.com"},
		{"trims", "  anna@example.se ", "anna@example.se"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two tokens", "Billy Bryson", "Billy"},
		{"single token", "Billy", "Billy"},
		{"leading whitespace", "  Anna Andersson", "Anna"},
		{"three tokens", "Anna Maria Andersson", "Anna"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstName(tt.input); got != tt.want {
				t.Errorf("FirstName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
