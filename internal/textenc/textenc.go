// Package textenc offers a best-effort GB2312/GBK transcoding helper for
// label and text strings that CORE decoded lossily as UTF-8 (with
// U+FFFD standing in for whatever wasn't valid UTF-8). This package is
// not part of CORE and never feeds back into a board.Board value — it is
// consumed only by the CLI as a side-channel guess
// at what the original bytes meant.
//
// Grounded on the teacher's internal/ewf.go ParseHeader, which sniffs a
// byte-order-mark and runs the header bytes through a
// golang.org/x/text/encoding/unicode decoder + golang.org/x/text/transform
// pipeline, and on other_examples' dyuri-typconv binary reader, which
// keeps a golang.org/x/text/encoding.Decoder on hand for codepage-aware
// string fields. Both ground the same dependency pair used here, re-
// pointed at Simplified Chinese instead of UTF-16.
package textenc

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// GuessGBK takes a string CORE already decoded as lossy UTF-8 and tries
// reinterpreting its raw bytes as GBK (a superset of GB2312). This only
// recovers the original text when the GB2312 byte sequence happened to
// also be valid UTF-8 — cursor.UTF8 leaves such bytes untouched, so
// []byte(s) still holds the original encoding in that case. When CORE's
// decode actually substituted U+FFFD for invalid bytes, the original
// bytes are gone and GuessGBK reports ok=false.
func GuessGBK(s string) (guess string, ok bool) {
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), []byte(s))
	if err != nil {
		return "", false
	}
	return string(out), true
}
