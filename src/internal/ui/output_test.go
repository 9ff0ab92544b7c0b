package ui

import (
	"strings"
	"testing"
)

func TestHighlightKeepsText(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
	}{
		{name: "highlight plain", fn: Highlight, in: "bun"},
		{name: "highlight spaces", fn: Highlight, in: "hello world"},
		{name: "version canonical", fn: HighlightVersion, in: "v1.2.23"},
		{name: "version prerelease", fn: HighlightVersion, in: "v1.1.0-canary.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Colors may be disabled under test, so only containment is checked
			got := tt.fn(tt.in)
			if !strings.Contains(got, tt.in) {
				t.Errorf("result %q does not contain %q", got, tt.in)
			}
		})
	}

	if Highlight("") != "" {
		t.Error("Highlight(\"\") should be empty")
	}
}

func TestCheckVerboseEnv(t *testing.T) {
	original := verboseMode
	defer func() { verboseMode = original }()

	tests := []struct {
		value string
		want  bool
	}{
		{value: "1", want: true},
		{value: "true", want: true},
		{value: "TRUE", want: true},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			SetVerbose(false)
			t.Setenv(VerboseEnvVar, tt.value)
			CheckVerboseEnv()
			if IsVerbose() != tt.want {
				t.Errorf("IsVerbose() = %v with %s=%q, want %v", IsVerbose(), VerboseEnvVar, tt.value, tt.want)
			}
		})
	}
}

func TestDebugDoesNotPanic(t *testing.T) {
	original := verboseMode
	defer func() { verboseMode = original }()

	SetVerbose(false)
	Debug("quiet %s", "message")
	SetVerbose(true)
	Debug("loud %s", "message")
}

func TestSymbolsDefined(t *testing.T) {
	for name, s := range map[string]string{
		"success": successSymbol,
		"error":   errorSymbol,
		"warning": warningSymbol,
		"info":    infoSymbol,
		"debug":   debugSymbol,
	} {
		if s == "" {
			t.Errorf("%s symbol is empty", name)
		}
	}
}
