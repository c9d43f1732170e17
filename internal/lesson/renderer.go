// Package lesson resolves a topic's lesson reference to its HTML page.
package lesson

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/example/blitzkarten/internal/logger"
)

//go:embed content/*.html
var content embed.FS

// Page is a rendered lesson
type Page struct {
	Name     string
	FileName string
	HTML     string
	Found    bool
}

// Renderer reads lesson pages from a file system
type Renderer struct {
	fsys fs.FS
	log  *logger.Logger
}

// New creates a renderer over fsys
func New(fsys fs.FS, log *logger.Logger) *Renderer {
	return &Renderer{fsys: fsys, log: log.With("component", "lesson")}
}

// Embedded serves the lessons compiled into the binary
func Embedded(log *logger.Logger) *Renderer {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		// content is a compile-time directory, Sub cannot fail on it
		panic(err)
	}
	return New(sub, log)
}

// Dir serves lessons from a directory on disk
func Dir(dir string, log *logger.Logger) *Renderer {
	return New(os.DirFS(dir), log)
}

// FileName returns the file a lesson reference resolves to
func FileName(name string) string {
	return name + ".html"
}

// Load reads the lesson page for name
func (r *Renderer) Load(name string) (string, error) {
	file := FileName(name)
	if name == "" || strings.Contains(name, "/") || !fs.ValidPath(file) {
		return "", fmt.Errorf("invalid lesson name %q: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(r.fsys, path.Clean(file))
	if err != nil {
		return "", fmt.Errorf("failed to read lesson %s: %w", file, err)
	}
	return string(data), nil
}

// Render returns the lesson page, or a placeholder when it cannot be read
func (r *Renderer) Render(name string) Page {
	page := Page{Name: name, FileName: FileName(name)}
	html, err := r.Load(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("failed to load lesson", "name", name, "error", err)
		}
		page.HTML = Placeholder(name)
		return page
	}
	page.HTML = html
	page.Found = true
	return page
}

// Placeholder is shown in place of a lesson that cannot be loaded
func Placeholder(name string) string {
	return fmt.Sprintf("Could not load %s.", FileName(name))
}
