package textfilter

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain chinese is unchanged",
			input:    "创世的故事",
			expected: "创世的故事",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  熵  ",
			expected: "熵",
		},
		{
			name:     "full-width latin folded",
			input:    "ＣＯＤＥ",
			expected: "code",
		},
		{
			name:     "ideographic space trimmed",
			input:    "　未来　",
			expected: "未来",
		},
		{
			name:     "case folded",
			input:    "Require",
			expected: "require",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello   world", "hello world"},
		{"  leading and trailing  ", "leading and trailing"},
		{"tab\tand\nnewline", "tab and newline"},
		{"bell\a", "bell"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.expected {
			t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		n        int
		expected string
	}{
		{"探索者你好", 10, "探索者你好"},
		{"探索者你好", 3, "探索…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.n); got != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("EMERGENCE"); got != "Emergence" {
		t.Errorf("TitleCase() = %q", got)
	}
}
