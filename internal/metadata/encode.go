package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Style selects the byte layout of encoded records.
type Style string

const (
	// StyleCompact writes the shortest JSON and keeps UTF-8 text as is.
	StyleCompact Style = "compact"
	// StylePython matches Python's json.dump defaults: ", " and ": "
	// separators and every non-ASCII character escaped as \uXXXX. Files
	// written this way hash to the same digests as the Python tooling.
	StylePython Style = "python"
)

// ParseStyle validates a configured style name. Empty means StyleCompact.
func ParseStyle(name string) (Style, error) {
	switch Style(name) {
	case "", StyleCompact:
		return StyleCompact, nil
	case StylePython:
		return StylePython, nil
	default:
		return "", fmt.Errorf("unknown json style %q (use compact or python)", name)
	}
}

// Encode serializes rec in the compact style. An empty indent produces
// single-line JSON.
func Encode(rec Record, indent string) ([]byte, error) {
	return EncodeStyle(rec, indent, StyleCompact)
}

// EncodeStyle serializes rec with the given indent and style.
// HTML characters are not escaped so names like "A&B" survive as written.
func EncodeStyle(rec Record, indent string, style Style) ([]byte, error) {
	style, err := ParseStyle(string(style))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	// json.Encoder always terminates with a newline; files are written without it.
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if style == StylePython {
		out = pythonLayout(out, indent == "")
	}
	return out, nil
}

// pythonLayout rewrites encoder output: separators gain a space when spaced
// is set (indented output already has them after ':' and a newline after ','),
// and string contents are restricted to ASCII.
func pythonLayout(data []byte, spaced bool) []byte {
	var out bytes.Buffer
	out.Grow(len(data) + len(data)/4)

	inString, escaped := false, false
	for i := 0; i < len(data); {
		c := data[i]
		if !inString {
			out.WriteByte(c)
			switch c {
			case '"':
				inString = true
			case ',', ':':
				if spaced {
					out.WriteByte(' ')
				}
			}
			i++
			continue
		}

		switch {
		case escaped:
			escaped = false
			out.WriteByte(c)
		case c == '\\':
			escaped = true
			out.WriteByte(c)
		case c == '"':
			inString = false
			out.WriteByte(c)
		case c == 0x7f:
			out.WriteString(`\u007f`)
		case c < utf8.RuneSelf:
			out.WriteByte(c)
		default:
			r, size := utf8.DecodeRune(data[i:])
			writeUnicodeEscape(&out, r)
			i += size
			continue
		}
		i++
	}
	return out.Bytes()
}

func writeUnicodeEscape(out *bytes.Buffer, r rune) {
	if r > 0xffff {
		hi, lo := utf16.EncodeRune(r)
		fmt.Fprintf(out, `\u%04x\u%04x`, hi, lo)
		return
	}
	fmt.Fprintf(out, `\u%04x`, r)
}
