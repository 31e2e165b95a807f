package help

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func TestHelpRendersKeymap(t *testing.T) {
	m := New(80, 120, "dark")
	if err := m.Err(); err != nil {
		t.Fatalf("render help: %v", err)
	}
	view := stripANSI(m.View())
	for _, want := range []string{"Calendar", "jump to today", "show or hide diagnostics"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in help:\n%s", want, view)
		}
	}
}

func TestHelpEnforcesMinimumSize(t *testing.T) {
	m := New(5, 2, "")
	if m.width != 32 || m.height != 8 {
		t.Fatalf("expected minimum 32x8, got %dx%d", m.width, m.height)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			inSeq = true
			continue
		}
		if inSeq {
			if ansi.IsTerminator(r) {
				inSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
