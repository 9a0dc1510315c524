// Package validation checks user-supplied names and paths before they are
// used to build file names, and verifies that input files hold what their
// extension claims.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrInvalidPrefix    = errors.New("invalid prefix")
	ErrInvalidSiglum    = errors.New("invalid siglum")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTypeMismatch     = errors.New("file type mismatch")
)

// globMeta are the characters filepath.Match treats specially.
const globMeta = `*?[]\`

// ValidateFilename checks that filename is a single safe path element.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}

	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}

	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}

	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}

	// Reject filenames starting with hyphen (can be confused with command flags)
	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}

	return nil
}

// ValidatePrefix checks a collation prefix. The prefix names every file of
// a run and is used in a glob pattern, so it must be a safe filename free of
// glob metacharacters and whitespace.
func ValidatePrefix(prefix string) error {
	if err := ValidateFilename(prefix); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrefix, err)
	}
	if strings.ContainsAny(prefix, globMeta) {
		return fmt.Errorf("%w: glob metacharacter in %q", ErrInvalidPrefix, prefix)
	}
	if strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: whitespace in %q", ErrInvalidPrefix, prefix)
	}
	return nil
}

// ValidateSiglum checks a witness identifier: non-empty, made of letters,
// digits, '.' or '-', and not starting with '-'.
func ValidateSiglum(siglum string) error {
	if siglum == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSiglum)
	}
	if strings.HasPrefix(siglum, "-") {
		return fmt.Errorf("%w: %q starts with hyphen", ErrInvalidSiglum, siglum)
	}
	for _, r := range siglum {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' {
			continue
		}
		return fmt.Errorf("%w: character %q in %q", ErrInvalidSiglum, r, siglum)
	}
	return nil
}

// ValidatePath performs path validation without requiring a base directory.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// FileType represents a validated file type.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeZip     FileType = "zip"
	FileTypeXML     FileType = "xml"
	FileTypeJSON    FileType = "json"
	FileTypeText    FileType = "text"
	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
}

// ValidateFileType reads the head of reader and checks that its content
// matches the type suggested by filename. Text-like types accept any
// content that looks like text.
func ValidateFileType(reader io.Reader, filename string) (FileType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detected := detectFileTypeFromMagic(buf)
	expected := detectFileTypeFromExtension(filename)

	if detected == expected {
		return detected, nil
	}

	switch expected {
	case FileTypeText, FileTypeXML, FileTypeJSON:
		if detected == FileTypeUnknown && (len(buf) == 0 || isLikelyText(buf)) {
			return expected, nil
		}
	case FileTypeUnknown:
		return detected, nil
	}

	if detected == FileTypeUnknown {
		detected = "binary"
	}
	return FileTypeUnknown, fmt.Errorf("%w: extension suggests %s but content is %s", ErrTypeMismatch, expected, detected)
}

// detectFileTypeFromMagic detects file type from magic bytes.
func detectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

// detectFileTypeFromExtension determines expected file type from filename extension.
func detectFileTypeFromExtension(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xz":
		return FileTypeXZ
	case ".gz":
		return FileTypeGzip
	case ".zip":
		return FileTypeZip
	case ".xml", ".tei":
		return FileTypeXML
	case ".json":
		return FileTypeJSON
	case ".txt", ".csv":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Null bytes are a strong indicator of binary content
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 continuation bytes (0x80-0xBF) and start bytes (0xC0-0xFD) are neutral
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
