package cursor_test

import (
	"testing"

	"github.com/openboardview/xzzpcbgo/cursor"
)

// ---------------------------------------------------------------------------
// basic reads
// ---------------------------------------------------------------------------

func TestCursor_U8(t *testing.T) {
	c := cursor.New([]byte{0x2a, 0xff})
	v, err := c.U8()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x2a {
		t.Fatalf("got %#x, want 0x2a", v)
	}
	if c.Offset() != 1 {
		t.Fatalf("offset = %d, want 1", c.Offset())
	}
}

func TestCursor_U16LE(t *testing.T) {
	c := cursor.New([]byte{0x01, 0x02})
	v, err := c.U16LE()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x0201 {
		t.Fatalf("got %#x, want 0x0201", v)
	}
}

func TestCursor_U32LE(t *testing.T) {
	c := cursor.New([]byte{0x01, 0x02, 0x03, 0x04})
	v, err := c.U32LE()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x04030201 {
		t.Fatalf("got %#x, want 0x04030201", v)
	}
}

func TestCursor_I32LE_Negative(t *testing.T) {
	c := cursor.New([]byte{0xff, 0xff, 0xff, 0xff})
	v, err := c.I32LE()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != -1 {
		t.Fatalf("got %d, want -1", v)
	}
}

// ---------------------------------------------------------------------------
// overrun behavior (P1: Decode never panics)
// ---------------------------------------------------------------------------

func TestCursor_Overrun(t *testing.T) {
	c := cursor.New([]byte{0x01})
	_, err := c.U32LE()
	if err == nil {
		t.Fatal("expected an overrun error, got nil")
	}
	oe, ok := err.(*cursor.OverrunError)
	if !ok {
		t.Fatalf("expected *cursor.OverrunError, got %T", err)
	}
	if oe.At != 0 || oe.Wanted != 4 {
		t.Fatalf("got At=%d Wanted=%d, want At=0 Wanted=4", oe.At, oe.Wanted)
	}
}

func TestCursor_Skip_Overrun(t *testing.T) {
	c := cursor.New([]byte{0x01, 0x02})
	if err := c.Skip(5); err == nil {
		t.Fatal("expected an overrun error, got nil")
	}
}

func TestCursor_Seek_LazyBounds(t *testing.T) {
	c := cursor.New([]byte{0x01, 0x02})
	c.Seek(10)
	if _, err := c.U8(); err == nil {
		t.Fatal("expected an overrun error after seeking out of range")
	}
}

// ---------------------------------------------------------------------------
// Bytes does not alias the backing buffer (I5)
// ---------------------------------------------------------------------------

func TestCursor_Bytes_DoesNotAlias(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	c := cursor.New(buf)
	out, err := c.Bytes(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out[0] = 0xff
	if buf[0] == 0xff {
		t.Fatal("Bytes returned a slice aliasing the input buffer")
	}
}

func TestCursor_Bytes_Zero(t *testing.T) {
	c := cursor.New([]byte{0x01})
	out, err := c.Bytes(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got len %d, want 0", len(out))
	}
}

// ---------------------------------------------------------------------------
// UTF8 lossy decoding
// ---------------------------------------------------------------------------

func TestCursor_UTF8_ValidASCII(t *testing.T) {
	c := cursor.New([]byte("R1"))
	s, err := c.UTF8(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "R1" {
		t.Fatalf("got %q, want %q", s, "R1")
	}
}

func TestCursor_UTF8_InvalidBytesBecomeReplacementRune(t *testing.T) {
	c := cursor.New([]byte{0xff, 0xfe})
	s, err := c.UTF8(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runes := []rune(s)
	if len(runes) != 2 {
		t.Fatalf("got %d runes, want 2 (one replacement rune per invalid byte)", len(runes))
	}
	for _, r := range runes {
		if r != '�' {
			t.Fatalf("got rune %q, want U+FFFD", r)
		}
	}
}
