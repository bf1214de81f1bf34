package slogobs

import "testing"

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"compact":  FormatCompact,
		"PRETTY":   FormatPretty,
		" json ":   FormatJSON,
		"":         FormatCompact,
		"markdown": FormatCompact,
	}
	for input, want := range tests {
		if got := ParseFormat(input); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestGetFormatFromEnv(t *testing.T) {
	t.Setenv("RAGCALC_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "")
	if got := GetFormatFromEnv(); got != FormatCompact {
		t.Errorf("default = %v, want compact", got)
	}

	t.Setenv("LOG_FORMAT", "pretty")
	if got := GetFormatFromEnv(); got != FormatPretty {
		t.Errorf("LOG_FORMAT = %v, want pretty", got)
	}

	t.Setenv("RAGCALC_LOG_FORMAT", "json")
	if got := GetFormatFromEnv(); got != FormatJSON {
		t.Errorf("RAGCALC_LOG_FORMAT = %v, want json", got)
	}
}
