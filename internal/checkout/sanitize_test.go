package checkout

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Ada Lovelace", "Ada Lovelace"},
		{"Ada123", "Ada"},
		{"O'Brien", "OBrien"},
		{"  spaced  ", "  spaced  "},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeLetters(t *testing.T) {
	tests := []struct{ in, want string }{
		{"São Paulo", "São Paulo"},
		{"Zone 51", "Zone "},
		{"A-B", "AB"},
	}
	for _, tt := range tests {
		if got := SanitizeLetters(tt.in); got != tt.want {
			t.Errorf("SanitizeLetters(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeDigits(t *testing.T) {
	if got := SanitizeDigits("+1 (555) 123-4567"); got != "15551234567" {
		t.Errorf("SanitizeDigits() = %q, want 15551234567", got)
	}
}

func TestFormatCardNumber(t *testing.T) {
	tests := []struct{ in, want string }{
		{"4111 1111 1111 1111", "4111111111111111"},
		{"41111111111111119999", "4111111111111111"},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := FormatCardNumber(tt.in); got != tt.want {
			t.Errorf("FormatCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1", "1"},
		{"12", "12/"},
		{"123", "12/3"},
		{"1230", "12/30"},
		{"12/30", "12/30"},
		{"123099", "12/30"},
	}
	for _, tt := range tests {
		if got := FormatExpiry(tt.in); got != tt.want {
			t.Errorf("FormatExpiry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCVV(t *testing.T) {
	if got := FormatCVV("12345"); got != "123" {
		t.Errorf("FormatCVV() = %q, want 123", got)
	}
}
