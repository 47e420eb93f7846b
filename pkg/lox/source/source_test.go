package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
)

const program = "print 1 + 2;\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPlain(t *testing.T) {
	path := writeFile(t, "a.lox", []byte(program))
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != program {
		t.Errorf("Load() = %q, want %q", got, program)
	}
}

func TestLoadGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(program))
	zw.Close()

	got, err := Load(writeFile(t, "a.lox.gz", buf.Bytes()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != program {
		t.Errorf("Load() = %q", got)
	}
}

func TestLoadZstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write([]byte(program))
	zw.Close()

	got, err := Load(writeFile(t, "a.lox.zst", buf.Bytes()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != program {
		t.Errorf("Load() = %q", got)
	}
}

func TestLoadCorruptGzip(t *testing.T) {
	if _, err := Load(writeFile(t, "bad.lox.gz", []byte("not gzip"))); err == nil {
		t.Error("expected an error for corrupt gzip input")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.lox")); !os.IsNotExist(unwrapAll(err)) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}

func TestDecode(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(program))
	if err != nil {
		t.Fatal(err)
	}
	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(program))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain", []byte(program), program},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, program...), program},
		{"utf-16le", utf16le, program},
		{"utf-16be", utf16be, program},
		{"invalid bytes kept", []byte{'a', 0xff, 'b'}, "a\xffb"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"demo.lox":     "demo.lox",
		"demo.lox.gz":  "demo.lox",
		"demo.lox.ZST": "demo.lox",
		"dir/x.lox":    "dir/x.lox",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSource(t *testing.T) {
	for _, p := range []string{"a.lox", "b.LOX", "c.lox.gz", "d.lox.zst"} {
		if !IsSource(p) {
			t.Errorf("IsSource(%q) = false", p)
		}
	}
	for _, p := range []string{"a.go", "b.gz", "lox"} {
		if IsSource(p) {
			t.Errorf("IsSource(%q) = true", p)
		}
	}
}
