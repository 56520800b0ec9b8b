package util

import (
	"testing"
	"time"
)

func TestFormatKST(t *testing.T) {
	utc := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	if got := FormatKST(utc, "2006-01-02 15:04 MST"); got != "2025-03-02 03:30 KST" {
		t.Fatalf("FormatKST = %q", got)
	}
}
