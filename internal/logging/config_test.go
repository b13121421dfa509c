package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"trace", zerolog.TraceLevel, true},
		{"diagnostics", zerolog.TraceLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{"DEBUG", zerolog.DebugLevel, true},
		{"  info  ", zerolog.InfoLevel, true},
		{"warn", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"disabled", zerolog.Disabled, true},
		{"none", zerolog.Disabled, true},
		{"verbose", zerolog.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := parseLevel(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseLevel(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"", FormatConsole, false},
		{"console", FormatConsole, true},
		{"text", FormatConsole, true},
		{"pretty", FormatConsole, true},
		{"json", FormatJSON, true},
		{"JSON", FormatJSON, true},
		{"structured", FormatJSON, true},
		{"xml", FormatConsole, false},
	}
	for _, tc := range cases {
		got, ok := parseFormat(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseFormat(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseBool(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
		ok   bool
	}{
		{"", false, false},
		{"true", true, true},
		{"1", true, true},
		{"false", false, true},
		{"0", false, true},
		{"  true  ", true, true},
		{"yes", false, false},
	}
	for _, tc := range cases {
		got, ok := parseBool(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseBool(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestConfigureIsIdempotent(t *testing.T) {
	Configure(ProfileTest)
	Configure(ProfileRuntime)
	Configure(ProfileTest)
}
