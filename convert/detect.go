package convert

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// enough for BOM and for most of filetype matchers
const sniffLen = 262

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32 LE has to be checked before
// UTF-16 LE since they share first two bytes.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader which decodes to UTF-8 and drops BOM.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder().Reader(r)
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Reader(r)
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Reader(r)
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder().Reader(r)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder().Reader(r)
	}
	// this should never happen
	panic("unsupported encoding requested")
}

// hasExtension compares file extension case insensitively, ext includes dot.
func hasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// readText loads whole text file as UTF-8 string with LF line endings.
// Files recognized as known binary formats are refused.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IoError{Op: "read", Path: path, Err: err}
	}

	head := data[:min(len(data), sniffLen)]
	enc := detectUTF(head)
	if enc == encUnknown {
		if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
			return "", &ConfigError{Path: path, Reason: "binary file of type " + kind.MIME.Value + " is not text"}
		}
	}

	text, err := io.ReadAll(selectReader(bytes.NewReader(data), enc))
	if err != nil {
		return "", &ConfigError{Path: path, Reason: "unable to decode text", Err: err}
	}
	return strings.ReplaceAll(string(text), "\r\n", "\n"), nil
}
