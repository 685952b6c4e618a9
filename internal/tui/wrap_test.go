package tui

import (
	"strings"
	"testing"
)

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	out := wrapText("credit conditions amplify shocks", 20)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	for _, line := range lines {
		if len(line) > 20 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	out := wrapText("self-reinforcingfeedbackmechanism", 10)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 10 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestWrapTextCollapsesWhitespace(t *testing.T) {
	out := wrapText("a\t b\n  c", 80)
	if out != "a b c" {
		t.Fatalf("expected collapsed whitespace, got %q", out)
	}
}

func TestWrapTextZeroWidthIsIdentity(t *testing.T) {
	in := "unchanged text"
	if out := wrapText(in, 0); out != in {
		t.Fatalf("expected identity, got %q", out)
	}
}
