package util

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateStringCountsRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"가나다라마바", 5, "가나..."},
		{"가나다라", 4, "가나다라"},
		{"abc", 5, "abc"},
		{"abcdef", 3, "abc"},
		{"abcdef", 0, ""},
	}
	for _, tt := range tests {
		got := TruncateString(tt.in, tt.max)
		if got != tt.want {
			t.Fatalf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if n := utf8.RuneCountInString(got); n > tt.max {
			t.Fatalf("TruncateString(%q, %d) returned %d runes", tt.in, tt.max, n)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  Helm \n\t of   Testing "); got != "Helm of Testing" {
		t.Fatalf("unexpected result %q", got)
	}
}
