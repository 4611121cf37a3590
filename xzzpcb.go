// Package xzzpcb is the public entrypoint to the CORE decoder: it
// re-exports the pieces a caller needs (Decode, Board, Option,
// Diagnostic) so that everyday use only touches one import, the way the
// teacher's top-level ewf.go package is the public face over its
// internal/ and filesystem/ plumbing.
package xzzpcb

import (
	"github.com/openboardview/xzzpcbgo/board"
	"github.com/openboardview/xzzpcbgo/decode"
	"github.com/openboardview/xzzpcbgo/diagnostics"
)

// Board is the decoded result type (spec.md §3).
type Board = board.Board

// Entity, and every per-tag payload type, re-exported for convenience.
type (
	Entity       = board.Entity
	Arc          = board.Arc
	Via          = board.Via
	Segment      = board.Segment
	Text         = board.Text
	Part         = board.Part
	PartHeader   = board.PartHeader
	PartSubBlock = board.PartSubBlock
	PartArc      = board.PartArc
	PartLine     = board.PartLine
	PartLabel    = board.PartLabel
	PinArray     = board.PinArray
	Pin          = board.Pin
)

// Diagnostic is a recovered, non-fatal decode error (spec.md §7).
type Diagnostic = diagnostics.Diagnostic

// Option configures a Decode call.
type Option = decode.Option

// ProgressStage names the well-defined decode stages a Progress callback
// may observe (spec.md §5).
type ProgressStage = decode.ProgressStage

// Progress reports decode progress; see decode.Progress.
type Progress = decode.Progress

// WithProgress attaches a progress callback to a Decode call.
func WithProgress(p Progress) Option {
	return decode.WithProgress(p)
}

// Decode transforms an XZZPCB byte stream into a Board, recovering every
// error into the returned diagnostics slice rather than failing the call
// (spec.md §6). It is pure and synchronous: decoding the same bytes twice
// produces equal results (property P2), and independent calls on
// independent goroutines require no coordination (spec.md §5).
func Decode(data []byte, opts ...Option) (*Board, []Diagnostic) {
	return decode.Decode(data, opts...)
}
