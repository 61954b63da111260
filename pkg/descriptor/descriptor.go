package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Descriptor describes one unit of work: which template to render, the
// variables to substitute, and how the generated output is named and stored.
type Descriptor struct {
	Template     string                 `json:"template"`
	Variables    map[string]interface{} `json:"variables"`
	MaxTokens    int                    `json:"max_tokens"`
	Slug         string                 `json:"slug"`
	OutputFormat string                 `json:"output_format"`
}

// ReadError reports a descriptor file that could not be read, parsed, or
// that fails field validation.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read descriptor %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Load reads and validates a single descriptor file. All failure modes
// (missing file, malformed JSON, missing required field) surface here as a
// *ReadError so later stages can assume a well-formed descriptor.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("parse JSON: %w", err)}
	}
	if err := d.validate(); err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	log.Debug().Str("path", path).Str("slug", d.Slug).Str("template", d.Template).Msg("loaded descriptor")
	return &d, nil
}

func (d *Descriptor) validate() error {
	if d.Template == "" {
		return fmt.Errorf("missing required field 'template'")
	}
	if d.Slug == "" {
		return fmt.Errorf("missing required field 'slug'")
	}
	if d.MaxTokens <= 0 {
		return fmt.Errorf("'max_tokens' must be a positive integer, got %d", d.MaxTokens)
	}
	if d.OutputFormat == "" {
		return fmt.Errorf("missing required field 'output_format'")
	}
	return nil
}

// Discover returns the descriptor files under dir, in whatever order the
// filesystem yields them.
func Discover(dir string) ([]string, error) {
	pattern := filepath.Join(dir, "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
	}
	log.Debug().Str("pattern", pattern).Int("count", len(paths)).Msg("discovered descriptors")
	return paths, nil
}
