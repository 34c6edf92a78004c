package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/readmark/internal/domain"
)

// Version is written into every exported document.
const Version = 1

// Format is the encoding of a backup file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Document is the on-disk shape of an export.
type Document struct {
	Version    int                `yaml:"version" json:"version"`
	ExportedAt int64              `yaml:"exported_at" json:"exportedAt"`
	Bookmarks  []*domain.Bookmark `yaml:"bookmarks" json:"bookmarks"`
}

// ParseFormat maps a query value to a Format; empty means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown backup format %q", s)
	}
}

// FormatFor guesses the format from a file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

// Encode writes bookmarks as a versioned document.
func Encode(w io.Writer, bookmarks []*domain.Bookmark, format Format, now time.Time) error {
	if bookmarks == nil {
		bookmarks = []*domain.Bookmark{}
	}
	doc := Document{
		Version:    Version,
		ExportedAt: domain.Millis(now),
		Bookmarks:  bookmarks,
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return enc.Close()
}

// Decode reads a document, or a bare list of records as the extension
// exports them.
func Decode(data []byte, format Format) ([]*domain.Bookmark, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	unmarshal := yaml.Unmarshal
	if format == FormatJSON {
		unmarshal = json.Unmarshal
	}

	if isList(data) {
		var list []*domain.Bookmark
		if err := unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse bookmark list: %w", err)
		}
		return list, nil
	}

	var doc Document
	if err := unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("backup version %d is newer than supported version %d", doc.Version, Version)
	}
	return doc.Bookmarks, nil
}

// isList reports whether the document's first meaningful token opens a
// sequence.
func isList(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.HasPrefix(line, "[") || strings.HasPrefix(line, "- ") || line == "-"
	}
	return false
}

// Loader reads a backup file from disk.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

func (l *Loader) Load() ([]*domain.Bookmark, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	return Decode(data, FormatFor(l.filePath))
}
