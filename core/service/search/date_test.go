package search

import (
	"testing"
	"time"

	"mailsim/core/domain"
)

func TestInternalDateMillisMalformedIsZero(t *testing.T) {
	m := &domain.Message{InternalDate: "not-a-number"}
	if got := internalDateMillis(m); got != 0 {
		t.Errorf("internalDateMillis(malformed) = %d, want 0", got)
	}
}

func TestInternalDateAfterBefore(t *testing.T) {
	mid := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	m := &domain.Message{InternalDate: "1768435200000"} // 2026-01-15T00:00:00Z in ms
	if !internalDateAfter(m, mid.Add(-time.Hour)) {
		t.Error("expected internalDateAfter to be true for a timestamp an hour before m's date")
	}
	if !internalDateBefore(m, mid.Add(time.Hour)) {
		t.Error("expected internalDateBefore to be true for a timestamp an hour after m's date")
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in       string
		wantDays int
		ok       bool
	}{
		{"30", 30, true},
		{"30d", 30, true},
		{"1m", 30, true},
		{"2y", 730, true},
		{"", 0, false},
		{"xyz", 0, false},
	}
	for _, tt := range tests {
		got, ok := parsePeriod(tt.in)
		if ok != tt.ok {
			t.Errorf("parsePeriod(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != time.Duration(tt.wantDays)*24*time.Hour {
			t.Errorf("parsePeriod(%q) = %v, want %d days", tt.in, got, tt.wantDays)
		}
	}
}

func TestParseDateRelativeTokens(t *testing.T) {
	now := time.Now()
	got, ok := parseDate("yesterday")
	if !ok {
		t.Fatal("parseDate(yesterday) failed")
	}
	if now.Sub(got) < 23*time.Hour || now.Sub(got) > 25*time.Hour {
		t.Errorf("parseDate(yesterday) = %v, not ~24h before now", got)
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []string{"2026/01/15", "01/15/2026", "2026-01-15"}
	for _, in := range tests {
		if _, ok := parseDate(in); !ok {
			t.Errorf("parseDate(%q) failed, want success", in)
		}
	}
}

func TestParseDateUnrecognizedFails(t *testing.T) {
	if _, ok := parseDate("not a date at all"); ok {
		t.Error("parseDate(garbage) succeeded, want failure")
	}
}
