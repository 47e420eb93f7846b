// Package source reads Lox programs from disk.
//
// Files ending in .gz or .zst are decompressed on the fly. Text carrying a
// byte-order mark is normalised to UTF-8 without the mark; everything else is
// passed through byte for byte.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Extensions recognised as Lox source, compressed or not.
var Extensions = []string{".lox", ".lox.gz", ".lox.zst"}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Load reads path and returns its text.
func Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	r, closeFn, err := decompressor(path, f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	defer closeFn()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return text, nil
}

// decompressor picks a reader by file extension.
func decompressor(path string, r io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return r, func() {}, nil
}

// Decode converts raw bytes to source text. A UTF-8 mark is stripped and
// UTF-16 input with a mark is transcoded. Input without a mark is returned
// unchanged, invalid bytes included; the scanner reports those.
func Decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return string(data), nil
}

// DisplayName trims compression suffixes so diagnostics name the program,
// e.g. "demo.lox.gz" becomes "demo.lox".
func DisplayName(path string) string {
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// IsSource reports whether path has one of the recognised extensions.
func IsSource(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
