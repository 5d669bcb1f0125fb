package validation

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var (
	xzHeader     = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x04}
	gzipHeader   = []byte{0x1f, 0x8b, 0x08, 0x00}
	sqliteHeader = []byte("SQLite format 3\x00\x10\x00")
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{"simple file", "file.txt", nil},
		{"absolute path", "/tmp/data/file.db", nil},
		{"unicode", "données/файл.txt", nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"null byte", "file\x00.txt", ErrInvalidCharacter},
		{"control character", "file\n.txt", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want FileType
	}{
		{"xz", xzHeader, FileTypeXZ},
		{"gzip", gzipHeader, FileTypeGzip},
		{"sqlite", sqliteHeader, FileTypeSQLite},
		{"text", []byte("hello world, this is plain text"), FileTypeUnknown},
		{"short", []byte{0x1f}, FileTypeUnknown},
		{"empty", nil, FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, r, err := Sniff(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Sniff failed: %v", err)
			}
			if ft != tt.want {
				t.Errorf("Sniff = %s, want %s", ft, tt.want)
			}
			rest, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if !bytes.Equal(rest, tt.data) {
				t.Errorf("Sniff reader lost bytes: got %d, want %d", len(rest), len(tt.data))
			}
		})
	}
}

func TestFileTypeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     FileType
	}{
		{"dump.sql.xz", FileTypeXZ},
		{"DUMP.XZ", FileTypeXZ},
		{"data.gz", FileTypeGzip},
		{"bundle.tgz", FileTypeGzip},
		{"app.db", FileTypeSQLite},
		{"app.sqlite3", FileTypeSQLite},
		{"notes.txt", FileTypeUnknown},
		{"noext", FileTypeUnknown},
	}
	for _, tt := range tests {
		if got := FileTypeFromExtension(tt.filename); got != tt.want {
			t.Errorf("FileTypeFromExtension(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestCheckFileType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		detected FileType
		wantErr  bool
	}{
		{"xz matches", "a.xz", FileTypeXZ, false},
		{"gzip matches", "a.gz", FileTypeGzip, false},
		{"xz mismatch", "a.xz", FileTypeUnknown, true},
		{"gzip holding xz", "a.gz", FileTypeXZ, true},
		{"plain file with xz content", "a.bin", FileTypeXZ, false},
		{"plain file", "a.txt", FileTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFileType(tt.filename, tt.detected)
			if tt.wantErr {
				if !errors.Is(err, ErrTypeMismatch) {
					t.Errorf("CheckFileType = %v, want ErrTypeMismatch", err)
				}
			} else if err != nil {
				t.Errorf("CheckFileType = %v, want nil", err)
			}
		})
	}
}

func TestIsSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"sqlite", write("a.db", sqliteHeader), true},
		{"empty", write("empty.db", nil), true},
		{"text", write("notes.txt", []byte("not a database")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsSQLiteFile(tt.path)
			if err != nil {
				t.Fatalf("IsSQLiteFile failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsSQLiteFile = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := IsSQLiteFile(filepath.Join(dir, "missing.db")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("IsSQLiteFile(missing) = %v, want os.ErrNotExist", err)
	}
}
