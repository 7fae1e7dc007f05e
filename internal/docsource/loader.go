package docsource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned when no loader handles a file's extension.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is a loaded analysis input.
type Document struct {
	// Path is the source location, a file path or a remote identifier.
	Path string
	// Text is the extracted plain text.
	Text string
}

// Loader converts a source file into plain text. Implementations exist per
// format family; binary formats plug in behind this boundary.
type Loader interface {
	// Supports reports whether the loader handles the given extension
	// (lowercase, with leading dot).
	Supports(ext string) bool
	// Load reads the file and returns its text.
	Load(path string) (*Document, error)
}

// TextLoader handles plain-text formats directly.
type TextLoader struct{}

var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".tex": true,
}

func (TextLoader) Supports(ext string) bool { return textExtensions[ext] }

func (TextLoader) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	text := string(data)
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("document %s: not valid UTF-8", path)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document %s: empty", path)
	}
	return &Document{Path: path, Text: text}, nil
}

// Registry dispatches loading across registered loaders by extension.
type Registry struct {
	loaders []Loader
}

func NewRegistry(loaders ...Loader) *Registry {
	return &Registry{loaders: loaders}
}

// DefaultRegistry covers the plain-text formats built in.
func DefaultRegistry() *Registry {
	return NewRegistry(TextLoader{})
}

func (r *Registry) Load(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range r.loaders {
		if l.Supports(ext) {
			return l.Load(path)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Supported reports whether any registered loader handles the path.
func (r *Registry) Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range r.loaders {
		if l.Supports(ext) {
			return true
		}
	}
	return false
}
