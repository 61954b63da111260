package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestRender_SubstitutesVariables(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "greet.tmpl", "Hello, {{name}}!")

	r := &Renderer{Dir: dir}
	got, err := r.Render("greet.tmpl", map[string]interface{}{"name": "Ada"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Hello, Ada!" {
		t.Errorf("rendered %q, want %q", got, "Hello, Ada!")
	}
}

func TestRender_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "report.tmpl", "{{title}}: {{count}} items for {{owner}}")

	r := &Renderer{Dir: dir}
	vars := map[string]interface{}{"title": "Weekly", "count": 12, "owner": "ops"}
	first, err := r.Render("report.tmpl", vars)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Render("report.tmpl", vars)
		if err != nil {
			t.Fatalf("Render #%d: %v", i, err)
		}
		if again != first {
			t.Fatalf("render #%d = %q, want %q", i, again, first)
		}
	}
}

func TestRender_WhitespaceInPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "spaced.tmpl", "Hi {{ name }} and {{other}}")

	r := &Renderer{Dir: dir}
	got, err := r.Render("spaced.tmpl", map[string]interface{}{"name": "Ada", "other": "Grace"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Hi Ada and Grace" {
		t.Errorf("rendered %q", got)
	}
}

func TestRender_DottedPlaceholdersPassThrough(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "dotted.tmpl", "Hello, {{.name}}!")

	r := &Renderer{Dir: dir}
	got, err := r.Render("dotted.tmpl", map[string]interface{}{"name": "Ada"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Hello, Ada!" {
		t.Errorf("rendered %q", got)
	}
}

func TestRender_TemplateNotFound(t *testing.T) {
	r := &Renderer{Dir: t.TempDir()}
	_, err := r.Render("missing.tmpl", map[string]interface{}{})
	var nf *TemplateNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *TemplateNotFoundError, got %T: %v", err, err)
	}
	if nf.Name != "missing.tmpl" {
		t.Errorf("error name = %q, want missing.tmpl", nf.Name)
	}
}

func TestRender_MissingVariable(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "greet.tmpl", "Hello, {{name}}!")

	r := &Renderer{Dir: dir}
	_, err := r.Render("greet.tmpl", map[string]interface{}{"other": "value"})
	var re *TemplateRenderError
	if !errors.As(err, &re) {
		t.Fatalf("expected *TemplateRenderError, got %T: %v", err, err)
	}
}

func TestRender_NoCaching(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "greet.tmpl", "before {{name}}")

	r := &Renderer{Dir: dir}
	if _, err := r.Render("greet.tmpl", map[string]interface{}{"name": "x"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// every call re-reads the file, so an edit shows up immediately
	writeTemplate(t, dir, "greet.tmpl", "after {{name}}")
	got, err := r.Render("greet.tmpl", map[string]interface{}{"name": "x"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "after x" {
		t.Errorf("rendered %q, want %q", got, "after x")
	}
}
