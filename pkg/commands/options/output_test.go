package options

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHandleErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	o := OutputOptions{JSON: true, Out: &buf}
	cause := errors.New("calendar not connected")

	err := o.HandleError(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected the cause to be kept, got %v", err)
	}
	var reported ErrReported
	if !errors.As(err, &reported) {
		t.Fatalf("expected ErrReported, got %T", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"error":"calendar not connected"}` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestHandleErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	o := OutputOptions{Out: &buf}
	cause := errors.New("boom")
	if err := o.HandleError(cause); err != cause {
		t.Fatalf("expected the error unchanged, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	if err := (&OutputOptions{JSON: true, Out: &buf}).HandleError(nil); err != nil || buf.Len() != 0 {
		t.Fatalf("nil error must pass through silently")
	}
}
