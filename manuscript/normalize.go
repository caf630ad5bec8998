package manuscript

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// literal escape sequences left by lossy export channels
var escapes = strings.NewReplacer(`\r\n`, "\n", `\n`, "\n", `\r`, "\r", `\t`, "\t")

var lineEnds = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize canonicalizes manuscript text: literal escape sequences become
// control characters, all line endings become LF, leading byte order mark is
// dropped, and text is composed to NFC. Normalize is idempotent.
func Normalize(text string) string {
	text = escapes.Replace(text)
	text = lineEnds.Replace(text)
	text = strings.TrimLeft(text, "\uFEFF")
	return norm.NFC.String(text)
}

// Decode reads the whole manuscript converting it to UTF-8. Byte order mark
// is trusted, otherwise valid UTF-8 is taken as is and anything else is
// decoded using fallback encoding label (or whatever detection guesses when
// fallback is empty). Invalid sequences are replaced with U+FFFD. Name of the
// encoding used is returned.
func Decode(r io.Reader, fallback string) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("unable to read manuscript: %w", err)
	}

	enc, name, certain := charset.DetermineEncoding(data, "text/plain")
	if !certain {
		switch {
		case utf8.Valid(data):
			enc, name = nil, "utf-8"
		case fallback != "":
			if enc, name = charset.Lookup(fallback); enc == nil {
				return "", "", fmt.Errorf("unknown manuscript encoding %q", fallback)
			}
		}
	}
	if enc != nil && name != "utf-8" {
		if data, _, err = transform.Bytes(enc.NewDecoder(), data); err != nil {
			return "", "", fmt.Errorf("unable to decode manuscript from %s: %w", name, err)
		}
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte("\uFFFD"))
	}
	return string(data), name, nil
}
