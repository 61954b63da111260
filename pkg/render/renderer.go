package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/rs/zerolog/log"
)

// TemplateNotFoundError reports a template identifier that does not resolve
// to a file under the template directory.
type TemplateNotFoundError struct {
	Name string
	Dir  string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template '%s' not found in %s", e.Name, e.Dir)
}

// TemplateRenderError reports a template body that could not be parsed or
// that references a variable absent from the mapping.
type TemplateRenderError struct {
	Name string
	Err  error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("failed to render template '%s': %v", e.Name, e.Err)
}

func (e *TemplateRenderError) Unwrap() error { return e.Err }

// Renderer substitutes descriptor variables into template files under Dir.
// Each call re-reads the file; templates are never cached.
type Renderer struct {
	Dir string
}

// bare {{name}} placeholders; dotted references like {{.name}} pass through
var bareVarRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render reads name from the template directory and substitutes variables
// into its body. Rendering is deterministic: identical inputs produce
// identical text. A reference to a variable missing from the mapping fails
// the render instead of emitting an empty string.
func (r *Renderer) Render(name string, variables map[string]interface{}) (string, error) {
	path := filepath.Join(r.Dir, name)
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &TemplateNotFoundError{Name: name, Dir: r.Dir}
		}
		return "", &TemplateRenderError{Name: name, Err: err}
	}

	normalized := bareVarRe.ReplaceAllString(string(body), "{{.$1}}")
	tmpl, err := template.New(name).Option("missingkey=error").Parse(normalized)
	if err != nil {
		return "", &TemplateRenderError{Name: name, Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", &TemplateRenderError{Name: name, Err: err}
	}
	log.Debug().Str("template", name).Int("bytes", buf.Len()).Msg("rendered template")
	return buf.String(), nil
}
