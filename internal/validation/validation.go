// Package validation checks user-supplied paths and identifies input files
// by their magic bytes.
package validation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxPathLength is the maximum allowed path length.
const MaxPathLength = 4096

// Common validation errors.
var (
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTypeMismatch     = errors.New("file type mismatch")
)

// ValidatePath rejects empty or overlong paths and paths containing NUL or
// control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// FileType is a file format recognised by its header.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeUnknown FileType = "unknown"
)

// headerSize covers the longest signature in magicBytes.
const headerSize = 16

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
}

// Sniff detects the type of r from its first bytes. The returned reader
// yields the whole stream, header included.
func Sniff(r io.Reader) (FileType, io.Reader, error) {
	br := bufio.NewReader(r)
	buf, err := br.Peek(headerSize)
	if err != nil && err != io.EOF {
		return FileTypeUnknown, br, fmt.Errorf("failed to read file header: %w", err)
	}
	return detectFileTypeFromMagic(buf), br, nil
}

// FileTypeFromExtension returns the type a filename claims to be.
func FileTypeFromExtension(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xz", ".txz":
		return FileTypeXZ
	case ".gz", ".tgz":
		return FileTypeGzip
	case ".sqlite", ".sqlite3", ".db":
		return FileTypeSQLite
	default:
		return FileTypeUnknown
	}
}

// CheckFileType reports a compressed extension whose content is something
// else. Files with other extensions are never rejected.
func CheckFileType(filename string, detected FileType) error {
	expected := FileTypeFromExtension(filename)
	if expected != FileTypeXZ && expected != FileTypeGzip {
		return nil
	}
	if detected != expected {
		return fmt.Errorf("%w: extension suggests %s but content is %s", ErrTypeMismatch, expected, detected)
	}
	return nil
}

// IsSQLiteFile reports whether path starts with the SQLite header. Empty
// files count as SQLite databases; SQLite initialises them on first write.
func IsSQLiteFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	ft, _, err := Sniff(f)
	if err != nil {
		return false, err
	}
	if ft == FileTypeSQLite {
		return true, nil
	}
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	return info.Size() == 0, nil
}

func detectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}
