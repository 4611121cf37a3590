package textenc_test

import (
	"testing"

	"github.com/openboardview/xzzpcbgo/internal/textenc"
)

func TestGuessGBK_AlreadyReplacedTextIsRejected(t *testing.T) {
	_, ok := textenc.GuessGBK("abc�def")
	if ok {
		t.Fatal("a string already carrying U+FFFD must be rejected, the original bytes are gone")
	}
}

func TestGuessGBK_PlainASCIIRoundTrips(t *testing.T) {
	guess, ok := textenc.GuessGBK("R12")
	if !ok {
		t.Fatal("expected ok=true for plain ASCII input")
	}
	if guess != "R12" {
		t.Fatalf("got %q, want %q", guess, "R12")
	}
}
