package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateRequiresPagesTemplateAndPageHtml(t *testing.T) {
	root := t.TempDir()
	if err := Validate(root); err == nil {
		t.Fatal("expected Validate to fail on an empty project")
	}

	mustMkdirAll(t, filepath.Join(root, DirPages))
	mustMkdirAll(t, filepath.Join(root, DirTemplate))
	if err := Validate(root); err == nil {
		t.Fatal("expected Validate to fail without a page.html")
	}

	mustWriteFile(t, filepath.Join(root, DirTemplate, FileTemplatePage), defaultPageTemplate)
	if err := Validate(root); err != nil {
		t.Fatalf("Validate() error on a complete project: %v", err)
	}
}

func TestNewProjectScaffoldsRequiredLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "mysite")

	if err := NewProject(root); err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}
	if err := Validate(root); err != nil {
		t.Errorf("Validate() on a freshly scaffolded project: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, DirPages, "index.md")); err != nil {
		t.Errorf("expected a starter index.md: %v", err)
	}
}

func TestNewProjectRefusesExistingPath(t *testing.T) {
	root := t.TempDir()
	if err := NewProject(root); err == nil {
		t.Fatal("expected NewProject to refuse an already-existing path")
	}
}
