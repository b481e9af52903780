package sarvam

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"show revenue by branch", "en-IN"},
		{"கிளை வாரியாக வருவாய்", "ta-IN"},
		{"revenue கிளை வாரியாக வருவாய் breakdown", "ta-IN"},
		{"", "en-IN"},
		{"1234 !!", "en-IN"},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestUnconfiguredClientDegrades(t *testing.T) {
	c := New("")
	if c.Configured() {
		t.Fatal("empty key should be unconfigured")
	}

	// Translation hands the input back.
	if got := c.TranslateToEnglish(context.Background(), "வணக்கம்"); got != "வணக்கம்" {
		t.Errorf("translate = %q, want input back", got)
	}

	// Speech calls fail with an error, never dial out.
	if _, err := c.Transcribe(context.Background(), []byte("x"), "a.wav"); err == nil {
		t.Error("expected transcribe error without key")
	}
	if _, err := c.Synthesize(context.Background(), "hello", ""); err == nil {
		t.Error("expected synthesize error without key")
	}
}
