// Package decode implements the outer block walker (C4), the outer type
// parsers (C5), and the top-level Decode entrypoint that ties the whole
// CORE pipeline together: xorcode -> (main-region walk) -> descrypt ->
// part.Walk.
//
// Grounded on the teacher's EWFImage.Parse() (ewf.go:503-611): read a
// frame, dispatch on its type, append the result to a running slice,
// advance to the next frame, with the loop guarded against revisiting an
// offset and against running past the buffer. XZZPCB has no per-frame
// "next offset" field — frames are simply sequential — so the loop
// advances by each parser's own consumed length instead of a stored
// pointer, but the dispatch-then-append-then-advance shape, and the
// "stop the walk, don't fail the whole decode" response to a bad frame,
// are the teacher's.
package decode

import (
	"github.com/openboardview/xzzpcbgo/board"
	"github.com/openboardview/xzzpcbgo/cursor"
	"github.com/openboardview/xzzpcbgo/descrypt"
	"github.com/openboardview/xzzpcbgo/diagnostics"
	"github.com/openboardview/xzzpcbgo/part"
	"github.com/openboardview/xzzpcbgo/xorcode"
)

// Outer tag bytes (spec.md §4.4).
const (
	tagArc     = 0x01
	tagVia     = 0x02
	tagSkip3   = 0x03
	tagNoop4   = 0x04
	tagSegment = 0x05
	tagText    = 0x06
	tagData    = 0x07
	tagNoop8   = 0x08
	tagSkip9   = 0x09
)

const (
	mainRegionSizeOffset = 0x40
	mainRegionStart      = 0x44
)

// ProgressStage names the well-defined stages a Progress callback may be
// invoked at (spec.md §5).
type ProgressStage string

const (
	StageInit     ProgressStage = "init"
	StageXOR      ProgressStage = "xor"
	StageHeader   ProgressStage = "header"
	StageWalk     ProgressStage = "walk"
	StageComplete ProgressStage = "complete"
)

// Progress reports decode progress. Percent ranges 0..100. The decoder
// never relies on the callback's return value and never blocks on it
// being side-effect-free — it is purely cooperative (spec.md §5).
type Progress func(percent int, stage ProgressStage)

// progressEveryNBlocks is the suggested interval at which the outer walk
// invokes the progress callback (spec.md §5).
const progressEveryNBlocks = 100

// Option configures a Decode call.
type Option func(*options)

type options struct {
	progress Progress
}

// WithProgress attaches a progress callback to the decode call.
func WithProgress(p Progress) Option {
	return func(o *options) { o.progress = p }
}

// Decode is the CORE entrypoint (spec.md §6): it unwraps XOR obfuscation,
// walks the outer tagged-block stream, decrypts and walks any Part DATA
// blocks, and returns a Board plus whatever diagnostics were recorded
// along the way. It never panics and never returns a Go error — all
// failures are recovered into diagnostics (spec.md §7), which is what
// makes Decode safe to call on truncated, random, or adversarial input
// (property P1).
func Decode(data []byte, opts ...Option) (*board.Board, []diagnostics.Diagnostic) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}
	report := func(pct int, stage ProgressStage) {
		if cfg.progress != nil {
			cfg.progress(pct, stage)
		}
	}

	bag := &diagnostics.Bag{}
	report(0, StageInit)

	buf := xorcode.Deobfuscate(data)
	report(10, StageXOR)

	b := &board.Board{}

	c := cursor.New(buf)
	c.Seek(mainRegionSizeOffset)
	mainSize, err := c.U32LE()
	if err != nil {
		bag.Add(overrunDiag(err, c.Offset()))
		report(100, StageComplete)
		return b, bag.Items()
	}
	report(20, StageHeader)

	end := mainRegionStart + int(mainSize)
	if end > len(buf) {
		end = len(buf)
	}
	c.Seek(mainRegionStart)

	blockCount := 0
	for c.Offset() < end && c.Offset() < len(buf) {
		entity, ok := decodeOneBlock(c, buf, bag)
		if !ok {
			break
		}
		if entity != nil {
			b.Entities = append(b.Entities, *entity)
		}

		blockCount++
		if blockCount%progressEveryNBlocks == 0 {
			pct := 20 + int(float64(c.Offset()-mainRegionStart)/float64(max(end-mainRegionStart, 1))*70.0)
			report(clampPercent(pct), StageWalk)
		}
	}

	report(100, StageComplete)
	return b, bag.Items()
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 99 {
		return 99
	}
	return p
}

// decodeOneBlock reads and dispatches exactly one outer-stream frame.
// It returns (nil, true) for padding/no-op frames that produce no
// entity, (entity, true) on success, and (nil, false) when the walk must
// terminate (overrun or unknown tag) — mirroring the teacher's loop,
// which breaks out of Parse() rather than returning an error once a
// frame can no longer be trusted.
func decodeOneBlock(c *cursor.Cursor, buf []byte, bag *diagnostics.Bag) (*board.Entity, bool) {
	// A run of 4 zero bytes at the current position is padding, not a
	// tag: peek without consuming unless it really is zero.
	peekOffset := c.Offset()
	if c.Offset()+4 <= len(buf) {
		peek := cursor.New(buf)
		peek.Seek(peekOffset)
		if v, err := peek.U32LE(); err == nil && v == 0 {
			c.Seek(peekOffset + 4)
			return nil, true
		}
	}

	tag, err := c.U8()
	if err != nil {
		bag.Add(overrunDiag(err, c.Offset()))
		return nil, false
	}

	switch tag {
	case tagArc:
		a, err := parseArc(c)
		if err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return &board.Entity{Kind: board.KindArc, Arc: &a}, true
	case tagVia:
		v, err := parseVia(c)
		if err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return &board.Entity{Kind: board.KindVia, Via: &v}, true
	case tagSkip3:
		if err := skipLengthPrefixed(c); err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return nil, true
	case tagNoop4, tagNoop8:
		return nil, true
	case tagSegment:
		s, err := parseSegment(c)
		if err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return &board.Entity{Kind: board.KindSegment, Segment: &s}, true
	case tagText:
		t, err := parseText(c)
		if err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return &board.Entity{Kind: board.KindText, Text: &t}, true
	case tagData:
		p, err := parsePart(c, bag)
		if err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return &board.Entity{Kind: board.KindPart, Part: p}, true
	case tagSkip9:
		if err := skipLengthPrefixed(c); err != nil {
			bag.Add(overrunDiag(err, c.Offset()))
			return nil, false
		}
		return nil, true
	default:
		bag.Add(diagnostics.UnknownTag(c.Offset()-1, tag))
		return nil, false
	}
}

func skipLengthPrefixed(c *cursor.Cursor) error {
	size, err := c.U32LE()
	if err != nil {
		return err
	}
	return c.Skip(int(size))
}

func overrunDiag(err error, at int) diagnostics.Diagnostic {
	if oe, ok := err.(*cursor.OverrunError); ok {
		return oe.Diagnostic()
	}
	return diagnostics.Overrun(at, 0)
}

func parseArc(c *cursor.Cursor) (board.Arc, error) {
	var a board.Arc
	if _, err := c.U32LE(); err != nil { // block_size
		return a, err
	}
	layer, err := c.U32LE()
	if err != nil {
		return a, err
	}
	cx, err := c.U32LE()
	if err != nil {
		return a, err
	}
	cy, err := c.U32LE()
	if err != nil {
		return a, err
	}
	r, err := c.I32LE()
	if err != nil {
		return a, err
	}
	angleStart, err := c.I32LE()
	if err != nil {
		return a, err
	}
	angleEnd, err := c.I32LE()
	if err != nil {
		return a, err
	}
	scale, err := c.I32LE()
	if err != nil {
		return a, err
	}
	netIndex, err := c.I32LE()
	if err != nil {
		return a, err
	}
	a = board.Arc{Layer: layer, CenterX: cx, CenterY: cy, Radius: r, AngleStart: angleStart, AngleEnd: angleEnd, Scale: scale, NetIndex: netIndex}
	return a, nil
}

func parseVia(c *cursor.Cursor) (board.Via, error) {
	var v board.Via
	if _, err := c.U32LE(); err != nil { // block_size
		return v, err
	}
	x, err := c.I32LE()
	if err != nil {
		return v, err
	}
	y, err := c.I32LE()
	if err != nil {
		return v, err
	}
	outerRadius, err := c.I32LE()
	if err != nil {
		return v, err
	}
	innerRadius, err := c.I32LE()
	if err != nil {
		return v, err
	}
	layerA, err := c.U32LE()
	if err != nil {
		return v, err
	}
	layerB, err := c.U32LE()
	if err != nil {
		return v, err
	}
	netIndex, err := c.U32LE()
	if err != nil {
		return v, err
	}
	textLen, err := c.U32LE()
	if err != nil {
		return v, err
	}
	text, err := c.UTF8(int(textLen))
	if err != nil {
		return v, err
	}
	v = board.Via{X: x, Y: y, OuterRadius: outerRadius, InnerRadius: innerRadius, LayerA: layerA, LayerB: layerB, NetIndex: netIndex, Text: text}
	return v, nil
}

func parseSegment(c *cursor.Cursor) (board.Segment, error) {
	var s board.Segment
	if _, err := c.U32LE(); err != nil { // block_size
		return s, err
	}
	layer, err := c.U32LE()
	if err != nil {
		return s, err
	}
	x1, err := c.I32LE()
	if err != nil {
		return s, err
	}
	y1, err := c.I32LE()
	if err != nil {
		return s, err
	}
	x2, err := c.I32LE()
	if err != nil {
		return s, err
	}
	y2, err := c.I32LE()
	if err != nil {
		return s, err
	}
	scale, err := c.I32LE()
	if err != nil {
		return s, err
	}
	netIndex, err := c.U32LE()
	if err != nil {
		return s, err
	}
	s = board.Segment{Layer: layer, X1: x1, Y1: y1, X2: x2, Y2: y2, Scale: scale, NetIndex: netIndex}
	return s, nil
}

func parseText(c *cursor.Cursor) (board.Text, error) {
	var t board.Text
	if _, err := c.U32LE(); err != nil { // block_size
		return t, err
	}
	unknown1, err := c.U32LE()
	if err != nil {
		return t, err
	}
	posX, err := c.U32LE()
	if err != nil {
		return t, err
	}
	posY, err := c.U32LE()
	if err != nil {
		return t, err
	}
	textSize, err := c.U32LE()
	if err != nil {
		return t, err
	}
	divider, err := c.U32LE()
	if err != nil {
		return t, err
	}
	empty, err := c.U32LE()
	if err != nil {
		return t, err
	}
	one, err := c.U16LE()
	if err != nil {
		return t, err
	}
	textLen, err := c.U32LE()
	if err != nil {
		return t, err
	}
	body, err := c.UTF8(int(textLen))
	if err != nil {
		return t, err
	}
	t = board.Text{Unknown1: unknown1, PosX: posX, PosY: posY, TextSize: textSize, Divider: divider, Empty: empty, One: one, Body: body}
	return t, nil
}

// parsePart reads a DATA block's ciphertext, decrypts it, and walks its
// plaintext sub-block stream. A DES failure is recoverable: it is
// recorded as a diagnostic and the returned Part keeps its ciphertext
// with an empty sub-block list (spec.md §4.3, §4.7).
func parsePart(c *cursor.Cursor, bag *diagnostics.Bag) (*board.Part, error) {
	blockSize, err := c.U32LE()
	if err != nil {
		return nil, err
	}
	ciphertext, err := c.Bytes(int(blockSize))
	if err != nil {
		return nil, err
	}

	p := &board.Part{Ciphertext: ciphertext}

	plaintext, err := descrypt.Decrypt(ciphertext)
	if err != nil {
		bag.Add(diagnostics.DecryptFailure(c.Offset(), err.Error()))
		return p, nil
	}

	if len(plaintext) == 0 {
		return p, nil
	}

	pc := cursor.New(plaintext)
	header, err := part.ParseHeader(pc)
	if err != nil {
		bag.Add(overrunDiag(err, pc.Offset()))
		return p, nil
	}
	p.Header = header
	p.SubBlocks = part.Walk(plaintext, header, pc.Offset(), bag)
	return p, nil
}
