package convert

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

func encodeText(t *testing.T, text string, enc srcEncoding) []byte {
	t.Helper()
	var tr transform.Transformer
	switch enc {
	case encUnknown:
		return []byte(text)
	case encUTF8:
		return append([]byte{0xEF, 0xBB, 0xBF}, text...)
	case encUTF16BigEndian:
		tr = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	case encUTF16LittleEndian:
		tr = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	case encUTF32BigEndian:
		tr = utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder()
	case encUTF32LittleEndian:
		tr = utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder()
	default:
		t.Fatalf("unsupported encoding: %v", enc)
	}
	out, _, err := transform.Bytes(tr, []byte(text))
	if err != nil {
		t.Fatalf("encode text: %v", err)
	}
	return out
}

func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 0x00}, encUTF8},
		{"UTF-16 Big Endian BOM", []byte{0xFE, 0xFF, 0x00, 0x00}, encUTF16BigEndian},
		{"UTF-16 Little Endian BOM", []byte{0xFF, 0xFE, 0x01, 0x00}, encUTF16LittleEndian},
		{"UTF-32 Big Endian BOM", []byte{0x00, 0x00, 0xFE, 0xFF}, encUTF32BigEndian},
		{"UTF-32 Little Endian BOM", []byte{0xFF, 0xFE, 0x00, 0x00}, encUTF32LittleEndian},
		{"No BOM", []byte("h1 title"), encUnknown},
		{"Short", []byte{0xEF}, encUnknown},
		{"Empty", nil, encUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectUTF(tt.buf); got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectReader(t *testing.T) {
	const text = "h1 Заголовок\n*em* ✓"
	for _, enc := range []srcEncoding{encUnknown, encUTF8, encUTF16BigEndian, encUTF16LittleEndian, encUTF32BigEndian, encUTF32LittleEndian} {
		data := encodeText(t, text, enc)
		if got := detectUTF(data); got != enc {
			t.Fatalf("detectUTF() = %v, want %v", got, enc)
		}
		out, err := io.ReadAll(selectReader(bytes.NewReader(data), enc))
		if err != nil {
			t.Fatalf("encoding %v: read error = %v", enc, err)
		}
		if string(out) != text {
			t.Errorf("encoding %v: got %q, want %q", enc, out, text)
		}
	}
}

func TestSelectReader_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for invalid encoding, but didn't panic")
		}
	}()
	selectReader(bytes.NewReader([]byte("test")), srcEncoding(999))
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()

	t.Run("utf16 with crlf", func(t *testing.T) {
		path := filepath.Join(dir, "doc16.cmdf")
		if err := os.WriteFile(path, encodeText(t, "h1 a\r\nb\r\n", encUTF16LittleEndian), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := readText(path)
		if err != nil {
			t.Fatalf("readText() error = %v", err)
		}
		if got != "h1 a\nb\n" {
			t.Errorf("readText() = %q", got)
		}
	})

	t.Run("binary rejected", func(t *testing.T) {
		path := filepath.Join(dir, "image.cmdf")
		png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
		if err := os.WriteFile(path, png, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := readText(path)
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("readText() error = %v, want ConfigError", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readText(filepath.Join(dir, "absent.cmdf"))
		var ie *IoError
		if !errors.As(err, &ie) || !errors.Is(err, os.ErrNotExist) {
			t.Errorf("readText() error = %v, want IoError wrapping ErrNotExist", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.cmdf")
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if got, err := readText(path); err != nil || got != "" {
			t.Errorf("readText() = %q, %v", got, err)
		}
	})
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		ext  string
		want bool
	}{
		{"doc.cmdf", ".cmdf", true},
		{"dir/DOC.CMDF", ".cmdf", true},
		{"doc.cmdf.txt", ".cmdf", false},
		{"cmdf", ".cmdf", false},
		{"style.cmds", ".cmdf", false},
	}
	for _, tt := range tests {
		if got := hasExtension(tt.path, tt.ext); got != tt.want {
			t.Errorf("hasExtension(%q, %q) = %v, want %v", tt.path, tt.ext, got, tt.want)
		}
	}
}
