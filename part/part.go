// Package part implements the part-block walker (C6) and part sub-parsers
// (C7): the nested stream found inside a decrypted DATA payload.
//
// Grounded on the teacher's ParseTable/ParseTable2 (ewf.go), which iterate
// a byte-budgeted region (section.SectionSize) filling a slice of
// fixed-width entries and bounds-checking every entry against both the
// section's declared size and the file's actual size before trusting it.
// XZZPCB's sub-blocks are variable width (name-length prefixed) rather
// than fixed 16-byte table entries, so the loop bound generalizes from an
// entry-count limit to a running byte-budget check, but the "never trust
// a declared size past what the enclosing frame allows" discipline is the
// same one the teacher applies with isValidTableEntry.
package part

import (
	"github.com/openboardview/xzzpcbgo/board"
	"github.com/openboardview/xzzpcbgo/cursor"
	"github.com/openboardview/xzzpcbgo/diagnostics"
)

// Sub-block tag bytes (spec.md §4.6).
const (
	tagArc   = 0x01
	tagLine  = 0x05
	tagLabel = 0x06
	tagPins  = 0x09
)

// ParseHeader reads the PartHeader prefix of a decrypted DATA payload
// (spec.md §4.7 "Header").
func ParseHeader(c *cursor.Cursor) (board.PartHeader, error) {
	var h board.PartHeader

	partSize, err := c.U32LE()
	if err != nil {
		return h, err
	}
	if err := c.Skip(4); err != nil { // padding
		return h, err
	}
	partX, err := c.U32LE()
	if err != nil {
		return h, err
	}
	partY, err := c.U32LE()
	if err != nil {
		return h, err
	}
	rotation, err := c.U32LE()
	if err != nil {
		return h, err
	}
	visibility, err := c.U8()
	if err != nil {
		return h, err
	}
	if err := c.Skip(1); err != nil { // visibility occupies 2 bytes of stream, stores 1
		return h, err
	}
	groupNameSize, err := c.U32LE()
	if err != nil {
		return h, err
	}
	groupName, err := c.UTF8(int(groupNameSize))
	if err != nil {
		return h, err
	}

	h.PartSize = partSize
	h.PartX = partX
	h.PartY = partY
	h.Rotation = rotation
	h.Visibility = visibility
	h.GroupName = groupName
	return h, nil
}

// Walk decodes the sub-block stream of a decrypted DATA payload. header is
// the already-consumed PartHeader at the front of plaintext; startOffset
// must be the offset immediately after it. The walk is truncated to
// header.PartSize+4 bytes from the start of plaintext (spec.md §4.6),
// and terminates on overrun, on an unknown tag, or when the cursor
// reaches the end of that view. A sub-block's declared block_size is not
// used to end the walk; only the pin array uses its block_size, to bound
// its own pin loop.
//
// Any overrun while decoding a sub-block aborts only that sub-block: Walk
// returns the sub-blocks decoded so far plus a diagnostic, never an error
// (spec.md §4.7 "Failure semantics").
func Walk(plaintext []byte, header board.PartHeader, startOffset int, bag *diagnostics.Bag) []board.PartSubBlock {
	// part_size is measured from the start of the Part payload (offset 0
	// of plaintext), which is where the header itself begins.
	viewLen := int(header.PartSize) + 4
	if viewLen > len(plaintext) {
		viewLen = len(plaintext)
	}

	// Bound the cursor itself to viewLen, not just the loop-entry check:
	// a sub-block starting just under viewLen must still have its fixed
	// fields rejected as an overrun if they'd cross the truncation
	// boundary, rather than being allowed to read into plaintext beyond
	// part_size+4.
	c := cursor.New(plaintext[:viewLen])
	c.Seek(startOffset)

	var blocks []board.PartSubBlock
	for {
		if c.Offset() >= viewLen {
			break
		}

		tag, err := c.U8()
		if err != nil {
			bag.Add(diagnostics.Overrun(c.Offset(), 1))
			break
		}

		switch tag {
		case tagArc:
			sb, err := parseArc(c)
			if err != nil {
				bag.Add(overrunDiag(err, c.Offset()))
				return blocks
			}
			blocks = append(blocks, sb)
		case tagLine:
			sb, err := parseLine(c)
			if err != nil {
				bag.Add(overrunDiag(err, c.Offset()))
				return blocks
			}
			blocks = append(blocks, sb)
		case tagLabel:
			sb, err := parseLabel(c)
			if err != nil {
				bag.Add(overrunDiag(err, c.Offset()))
				return blocks
			}
			blocks = append(blocks, sb)
		case tagPins:
			sb, err := parsePinArray(c, viewLen)
			blocks = append(blocks, sb)
			if err != nil {
				bag.Add(overrunDiag(err, c.Offset()))
				return blocks
			}
		default:
			bag.Add(diagnostics.UnknownTag(c.Offset()-1, tag))
			return blocks
		}
	}
	return blocks
}

func overrunDiag(err error, at int) diagnostics.Diagnostic {
	if oe, ok := err.(*cursor.OverrunError); ok {
		return oe.Diagnostic()
	}
	return diagnostics.Overrun(at, 0)
}

func parseArc(c *cursor.Cursor) (board.PartSubBlock, error) {
	var a board.PartArc
	if _, err := c.U32LE(); err != nil { // block_size, unused beyond framing
		return board.PartSubBlock{}, err
	}
	fields := []*uint32{&a.Layer, &a.X, &a.Y, &a.Radius, &a.AngleStart, &a.AngleEnd, &a.Scale, &a.Extra}
	for _, f := range fields {
		v, err := c.U32LE()
		if err != nil {
			return board.PartSubBlock{}, err
		}
		*f = v
	}
	return board.PartSubBlock{Kind: board.KindPartArc, Arc: &a}, nil
}

func parseLine(c *cursor.Cursor) (board.PartSubBlock, error) {
	var l board.PartLine
	if _, err := c.U32LE(); err != nil { // block_size
		return board.PartSubBlock{}, err
	}
	fields := []*uint32{&l.Layer, &l.X1, &l.Y1, &l.X2, &l.Y2, &l.Scale}
	for _, f := range fields {
		v, err := c.U32LE()
		if err != nil {
			return board.PartSubBlock{}, err
		}
		*f = v
	}
	if err := c.Skip(4); err != nil { // trailing padding
		return board.PartSubBlock{}, err
	}
	return board.PartSubBlock{Kind: board.KindPartLine, Line: &l}, nil
}

func parseLabel(c *cursor.Cursor) (board.PartSubBlock, error) {
	var l board.PartLabel
	if _, err := c.U32LE(); err != nil { // block_size
		return board.PartSubBlock{}, err
	}
	fields := []*uint32{&l.Layer, &l.X, &l.Y, &l.FontSize, &l.FontScale, &l.FontRotation}
	for _, f := range fields {
		v, err := c.U32LE()
		if err != nil {
			return board.PartSubBlock{}, err
		}
		*f = v
	}
	visibility, err := c.U8()
	if err != nil {
		return board.PartSubBlock{}, err
	}
	if err := c.Skip(1); err != nil {
		return board.PartSubBlock{}, err
	}
	labelSize, err := c.U32LE()
	if err != nil {
		return board.PartSubBlock{}, err
	}
	label, err := c.UTF8(int(labelSize))
	if err != nil {
		return board.PartSubBlock{}, err
	}
	l.Visibility = visibility
	l.Label = label
	return board.PartSubBlock{Kind: board.KindPartLabel, Label: &l}, nil
}

// parsePinArray reads the pin-array sub-block header and then repeats the
// per-pin record while cursor+block_size fits within viewLen (spec.md
// §4.7 "PinArray"). It returns whatever pins were decoded before any
// overrun, alongside that overrun as an error so Walk can record it.
func parsePinArray(c *cursor.Cursor, viewLen int) (board.PartSubBlock, error) {
	pa := board.PinArray{}
	blockSize, err := c.U32LE()
	if err != nil {
		return board.PartSubBlock{Kind: board.KindPinArray, PinArray: &pa}, err
	}

	for c.Offset()+int(blockSize) <= viewLen {
		pin, err := parsePin(c)
		if err != nil {
			return board.PartSubBlock{Kind: board.KindPinArray, PinArray: &pa}, err
		}
		pa.Pins = append(pa.Pins, pin)
	}
	return board.PartSubBlock{Kind: board.KindPinArray, PinArray: &pa}, nil
}

func parsePin(c *cursor.Cursor) (board.Pin, error) {
	var p board.Pin

	un1, err := c.U32LE()
	if err != nil {
		return p, err
	}
	x, err := c.U32LE()
	if err != nil {
		return p, err
	}
	y, err := c.U32LE()
	if err != nil {
		return p, err
	}
	innerDiameter, err := c.U32LE()
	if err != nil {
		return p, err
	}
	rotation, err := c.U32LE()
	if err != nil {
		return p, err
	}
	nameSize, err := c.U32LE()
	if err != nil {
		return p, err
	}
	name, err := c.UTF8(int(nameSize))
	if err != nil {
		return p, err
	}
	width, err := c.U32LE()
	if err != nil {
		return p, err
	}
	height, err := c.U32LE()
	if err != nil {
		return p, err
	}
	shape, err := c.U8()
	if err != nil {
		return p, err
	}
	reserved, err := c.Bytes(23)
	if err != nil {
		return p, err
	}
	netIndex, err := c.U32LE()
	if err != nil {
		return p, err
	}
	if err := c.Skip(13); err != nil {
		return p, err
	}

	p.Un1 = un1
	p.X = x
	p.Y = y
	p.InnerDiameter = innerDiameter
	p.Rotation = rotation
	p.Name = name
	p.Width = width
	p.Height = height
	p.Shape = shape
	copy(p.Reserved[:], reserved)
	p.NetIndex = netIndex
	p.IsThruHole = innerDiameter != 0
	return p, nil
}
