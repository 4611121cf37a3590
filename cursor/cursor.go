// Package cursor implements a bounded, little-endian byte reader over an
// immutable slice. It is the lowest-level building block (C1) every other
// CORE package reads through.
//
// The teacher (laenix/ewfgo) re-opens the backing *os.File and seeks for
// every field it reads (ReadAt, then binary.Read per struct). XZZPCB
// decodes an in-memory []byte supplied by an untrusted caller, not a file
// handle, so there is nothing to seek: Cursor tracks an offset into the
// slice directly and every read validates bounds before advancing it.
package cursor

import (
	"encoding/binary"

	"github.com/openboardview/xzzpcbgo/diagnostics"
)

// OverrunError is returned by any read that would run past the end of the
// buffer. It carries enough detail to build a diagnostics.Diagnostic.
type OverrunError struct {
	At     int
	Wanted int
}

func (e *OverrunError) Error() string {
	return diagnostics.Overrun(e.At, e.Wanted).Message
}

// Diagnostic converts the error into the diagnostics representation used by
// the rest of CORE.
func (e *OverrunError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.Overrun(e.At, e.Wanted)
}

// Cursor is a bounded reader over buf, starting at offset 0.
type Cursor struct {
	buf    []byte
	offset int
}

// New returns a Cursor positioned at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current absolute offset into the buffer.
func (c *Cursor) Offset() int {
	return c.offset
}

// Len returns the length of the backing buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.offset
}

// Seek moves the cursor to an absolute offset. It does not validate the
// offset against the buffer length; the next read will fail with
// OverrunError if the offset is out of range, matching the lazy
// bounds-checking the rest of this package uses.
func (c *Cursor) Seek(abs int) {
	c.offset = abs
}

func (c *Cursor) require(n int) error {
	if c.offset < 0 || n < 0 || c.offset+n > len(c.buf) {
		return &OverrunError{At: c.offset, Wanted: n}
	}
	return nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// U8 reads one unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.offset]
	c.offset++
	return v, nil
}

// U16LE reads a little-endian uint16.
func (c *Cursor) U16LE() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.offset : c.offset+2])
	c.offset += 2
	return v, nil
}

// U32LE reads a little-endian uint32.
func (c *Cursor) U32LE() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.offset : c.offset+4])
	c.offset += 4
	return v, nil
}

// I32LE reads a little-endian int32 (two's complement over the same four
// bytes U32LE reads).
func (c *Cursor) I32LE() (int32, error) {
	v, err := c.U32LE()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// Bytes returns a copy of the next n bytes, advancing the cursor. Per
// invariant I5, no returned slice aliases the input buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if err := c.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.offset:c.offset+n])
	c.offset += n
	return out, nil
}

// UTF8 reads n bytes and decodes them as lossy-tolerant UTF-8: invalid
// sequences become U+FFFD rather than aborting the read, since label text
// may carry bytes in another encoding entirely (spec.md §4.1).
func (c *Cursor) UTF8(n int) (string, error) {
	b, err := c.Bytes(n)
	if err != nil {
		return "", err
	}
	return toValidUTF8(b), nil
}

// toValidUTF8 replaces each invalid byte with a single replacement rune
// rather than collapsing runs the way strings.ToValidUTF8 does, so the
// emitted string's rune count tracks the input's malformed-byte count
// predictably.
func toValidUTF8(b []byte) string {
	return string(decodeLossy(b))
}
