package source

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// ErrEncoding is returned when file bytes cannot be decoded as text.
var ErrEncoding = errors.New("source is not valid UTF-8 or UTF-16 text")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw file bytes into UTF-8 text. BOMs are stripped and UTF-16
// input is transcoded; line endings are left as they are. The returned flags
// describe what Encode needs to restore the original representation.
func Decode(raw []byte) ([]byte, FileFlags, error) {
	var (
		flags FileFlags
		enc   encoding.Encoding
	)
	switch {
	case bytes.HasPrefix(raw, bomUTF16LE):
		flags |= FileUTF16LE | FileHadBOM
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(raw, bomUTF16BE):
		flags |= FileUTF16BE | FileHadBOM
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}

	text := raw
	if enc != nil {
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		text = decoded
	} else if stripped, had := removeBOM(raw); had {
		flags |= FileHadBOM
		text = stripped
	}

	if !utf8.Valid(text) {
		return nil, 0, ErrEncoding
	}
	if bytes.Contains(text, []byte("\r\n")) {
		flags |= FileNormalizedCRLF
	}
	if len(text) > 0 && text[len(text)-1] != '\n' {
		flags |= FileNoFinalNewline
	}
	return text, flags, nil
}

// Encode is the inverse of Decode for the BOM and UTF-16 parts of flags.
// Line endings in text are written as given.
func Encode(text []byte, flags FileFlags) ([]byte, error) {
	var enc encoding.Encoding
	switch {
	case flags.Has(FileUTF16LE):
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case flags.Has(FileUTF16BE):
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	if enc != nil {
		out, err := enc.NewEncoder().Bytes(text)
		if err != nil {
			return nil, fmt.Errorf("encode utf-16: %w", err)
		}
		return out, nil
	}
	if flags.Has(FileHadBOM) {
		out := make([]byte, 0, len(text)+len(bomUTF8))
		out = append(out, bomUTF8...)
		return append(out, text...), nil
	}
	return text, nil
}

// EOL returns the line terminator new lines should use for a file with flags.
func EOL(flags FileFlags) string {
	if flags.Has(FileNormalizedCRLF) {
		return "\r\n"
	}
	return "\n"
}

// Normalize converts CRLF line endings to LF.
func Normalize(text []byte) []byte {
	out, _ := normalizeCRLF(text)
	return out
}
