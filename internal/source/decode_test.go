package source

import (
	"errors"
	"testing"
)

func TestDecodeUTF16RoundTrip(t *testing.T) {
	// "a\r\nb" in UTF-16LE with BOM
	raw := []byte{0xFF, 0xFE, 'a', 0, '\r', 0, '\n', 0, 'b', 0}

	text, flags, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(text) != "a\r\nb" {
		t.Fatalf("unexpected text %q", text)
	}
	for _, f := range []FileFlags{FileUTF16LE, FileHadBOM, FileNormalizedCRLF, FileNoFinalNewline} {
		if !flags.Has(f) {
			t.Errorf("missing flag %b in %b", f, flags)
		}
	}

	back, err := Encode(text, flags)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(back) != string(raw) {
		t.Fatalf("round trip mismatch: % x", back)
	}
	if EOL(flags) != "\r\n" {
		t.Errorf("expected CRLF eol")
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	_, _, err := Decode([]byte{'i', 'n', 't', 0xFF, 0xFE, 0xFD})
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestEncodeRestoresUTF8BOM(t *testing.T) {
	raw := []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}
	text, flags, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(text) != "x\n" {
		t.Fatalf("BOM not stripped: %q", text)
	}
	out, err := Encode(text, flags)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(out) != string(raw) {
		t.Fatalf("BOM not restored: % x", out)
	}
}
