package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// WriteError reports a local filesystem failure while persisting an artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write artifact %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ExtensionFor maps an output format tag to a file extension. "html" maps to
// ".html"; every other tag maps to ".md".
func ExtensionFor(format string) string {
	if format == "html" {
		return ".html"
	}
	return ".md"
}

// ContentTypeFor maps a file extension to the content type set on upload.
func ContentTypeFor(ext string) string {
	if ext == ".html" {
		return "text/html"
	}
	return "text/markdown"
}

// Writer persists generated text into Dir, one file per job.
type Writer struct {
	Dir string
}

// Write stores content as <Dir>/<slug><ext>, creating the directory if needed
// and overwriting any existing file of the same name. It returns the path of
// the written file.
func (w *Writer) Write(slug, format, content string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", &WriteError{Path: w.Dir, Err: err}
	}
	path := filepath.Join(w.Dir, slug+ExtensionFor(format))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote artifact")
	return path, nil
}
