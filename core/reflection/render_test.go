package reflection

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTemplateRenderer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmpl.md")

	r := NewTemplateRenderer(path)

	if _, err := r.Render(map[string]string{}); err != ErrTemplateMissing {
		t.Errorf("Render() error = %v, want %v", err, ErrTemplateMissing)
	}

	writeTemplate := func(content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing template: %v", err)
		}
	}

	writeTemplate("# {{.student_name}}\n\n{{.lesson_goal}}\n")
	got, err := r.Render(map[string]string{"student_name": "健太", "lesson_goal": "二次関数"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "# 健太\n\n二次関数\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	// missing fields render as empty, never as an error
	got, err = r.Render(map[string]string{"student_name": "健太"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "# 健太\n\n\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	// template edits take effect without recreating the renderer
	writeTemplate("{{.memo}}")
	got, err = r.Render(map[string]string{"memo": "note"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "note" {
		t.Errorf("Render() = %q, want %q", got, "note")
	}
}
