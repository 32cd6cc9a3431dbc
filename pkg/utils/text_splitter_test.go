package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortTextIsSingleChunk(t *testing.T) {
	chunks := SplitText("opening hours", 100, 10)
	if len(chunks) != 1 || chunks[0] != "opening hours" {
		t.Errorf("SplitText = %v, want the input as one chunk", chunks)
	}
}

func TestSplitTextOverlapCarriesBoundaryContext(t *testing.T) {
	text := strings.Repeat("a", 10) + strings.Repeat("b", 10)
	chunks := SplitText(text, 12, 4)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	// Each successive chunk restarts overlap characters before the
	// previous one ended.
	tail := chunks[0][len(chunks[0])-4:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("chunk 2 %q does not start with chunk 1 tail %q", chunks[1], tail)
	}
	// No content lost: stitching with the overlap removed restores the text.
	rebuilt := chunks[0]
	for _, c := range chunks[1:] {
		rebuilt += c[4:]
	}
	if rebuilt != text {
		t.Errorf("rebuilt text = %q, want %q", rebuilt, text)
	}
}

func TestSplitTextDegenerateOverlapStillTerminates(t *testing.T) {
	text := strings.Repeat("x", 30)
	chunks := SplitText(text, 10, 10)
	if len(chunks) != 3 {
		t.Errorf("expected 3 disjoint chunks, got %d: %v", len(chunks), chunks)
	}
}

func TestSplitTextIsRuneSafe(t *testing.T) {
	text := strings.Repeat("ü", 40)
	for _, c := range SplitText(text, 16, 4) {
		for _, r := range c {
			if r != 'ü' {
				t.Fatalf("multibyte rune broken across a chunk boundary: %q", c)
			}
		}
	}
}
