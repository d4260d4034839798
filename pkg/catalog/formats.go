package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat identifies a catalog file encoding.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // human-edited catalog
	FormatMsgpack            // binary catalog
)

// FormatInfo describes a catalog file format.
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML catalog",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "MessagePack catalog",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // fixmap header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// ValidateFileFormat checks that filename has the format's extension and size
// and that its contents decode as a catalog.
func ValidateFileFormat(filename string, expected FileFormat) error {
	info, ok := supportedFormats[expected]
	if !ok {
		return fmt.Errorf("unknown format: %v", expected)
	}

	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if stat.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, stat.Size(), info.Description, info.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(info.Extensions, ext) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, info.Description, info.Extensions)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if _, err := decodeFile(data, expected); err != nil {
		return fmt.Errorf("%s is not a valid %s: %w", filename, info.Description, err)
	}
	log.Debugf("Catalog file %s validated as %s", filename, info.Description)
	return nil
}

// DetectFileFormat picks the format by extension and confirms it validates.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range []FileFormat{FormatTOML, FormatMsgpack} {
		if !slices.Contains(supportedFormats[format].Extensions, ext) {
			continue
		}
		if err := ValidateFileFormat(filename, format); err != nil {
			return FormatUnknown, err
		}
		return format, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

func decodeFile(data []byte, format FileFormat) (File, error) {
	var f File
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return File{}, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &f); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("unknown format: %v", format)
	}
	return f, nil
}
