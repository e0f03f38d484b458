package balancesheet

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names the character set a document was decoded from.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	declaredEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*?encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
)

// DecodeText converts raw document bytes to a Go string. The register serves
// UTF-8, UTF-16 and Latin code pages, not always matching the XML
// declaration. Detection order: byte order mark, valid UTF-8, the declared
// label when it decodes cleanly, and finally Windows-1252, which accepts any
// byte sequence.
func DecodeText(raw []byte) (string, Encoding, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return decodeWith(unicode.UTF8BOM, raw, EncodingUTF8)
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), raw, EncodingUTF16LE)
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), raw, EncodingUTF16BE)
	}

	// multi-byte UTF-8 sequences almost never occur by accident in Latin
	// text, so valid UTF-8 wins over a declared code page
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8, nil
	}

	if label := declaredLabel(raw); label != "" {
		if enc, name := charset.Lookup(label); enc != nil && name != "utf-8" {
			if text, _, err := decodeWith(enc, raw, Encoding(name)); err == nil && !strings.ContainsRune(text, utf8.RuneError) {
				return text, Encoding(name), nil
			}
		}
	}
	return decodeWith(charmap.Windows1252, raw, EncodingWindows1252)
}

func declaredLabel(raw []byte) string {
	head := raw
	if len(head) > 256 {
		head = head[:256]
	}
	m := declaredEncoding.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return strings.ToLower(string(m[1]))
}

func decodeWith(enc encoding.Encoding, raw []byte, name Encoding) (string, Encoding, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}

// passThroughCharset lets encoding/xml accept documents whose declaration
// names a non-UTF-8 charset after DecodeText has already converted them.
func passThroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
