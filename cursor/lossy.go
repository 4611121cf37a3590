package cursor

import "unicode/utf8"

const replacementChar = '�'

// decodeLossy walks b rune by rune, substituting the Unicode replacement
// character for any byte sequence utf8.DecodeRune can't decode, and returns
// the result as valid UTF-8 encoded bytes. Unlike
// strings.ToValidUTF8(string(b), "�"), which replaces a whole run of
// invalid bytes with one replacement, each invalid byte here gets its own
// replacement character.
func decodeLossy(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			out = utf8.AppendRune(out, replacementChar)
			b = b[1:]
			continue
		}
		out = utf8.AppendRune(out, r)
		b = b[size:]
	}
	return out
}
