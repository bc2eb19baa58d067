package format

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/poolkit/internal/buf"
)

// The pool label is stored as UTF-16LE in a fixed 16-byte header field,
// zero padded. Labels longer than the field are truncated on a rune
// boundary.

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeLabel converts s to its fixed-width field representation.
func EncodeLabel(s string) ([HeaderLabelSize]byte, error) {
	var out [HeaderLabelSize]byte
	if s == "" {
		return out, nil
	}
	enc, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return out, fmt.Errorf("label: %w", err)
	}
	if len(enc) > HeaderLabelSize {
		enc = enc[:HeaderLabelSize]
		// Never leave the dangling high half of a truncated surrogate pair.
		last := buf.U16LE(enc[len(enc)-2:])
		if last >= UTF16HighSurrogateStart && last <= UTF16HighSurrogateEnd {
			enc = enc[:len(enc)-2]
		}
	}
	copy(out[:], enc)
	return out, nil
}

// DecodeLabel converts the fixed-width field back to a string, stopping at
// the first zero code unit.
func DecodeLabel(raw []byte) (string, error) {
	n := len(raw)
	if n > HeaderLabelSize {
		n = HeaderLabelSize
	}
	end := 0
	for end+1 < n && buf.U16LE(raw[end:]) != 0 {
		end += 2
	}
	if end == 0 {
		return "", nil
	}
	dec, err := utf16le.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return "", fmt.Errorf("label: %w", err)
	}
	return string(dec), nil
}
