// Package site drives a siter project end to end: it loads the fixed
// project layout, registers the builtins that need filesystem access
// (stubs, root, content), renders every page, and swaps the result into
// place. It is the Go analogue of the original's CDirs/CSiter pairing,
// split here the way pongo2 splits TemplateLoader (layout/IO) from
// TemplateSet (registration/caching) into two files.
package site

import (
	"os"
	"path/filepath"

	"github.com/alxm/siter"
)

// Fixed project directory and file names, grounded on
// _examples/original_source/siterlib/settings.py's CSettings class.
const (
	DirPages    = "siter-pages"
	DirTemplate = "siter-template"
	DirConfig   = "siter-config"
	DirStatic   = "siter-static"
	DirStubs    = "siter-stubs"
	DirStaging  = "siter-staging"
	DirOut      = "siter-out"

	FileTemplatePage = "page.html"

	pagesExt = ".md"
)

// defaultPageTemplate and defaultIndexPage seed a freshly scaffolded
// project, carried over from CDirs.new_project's embedded starter files.
const defaultPageTemplate = `<!DOCTYPE html>
<html lang="en">
    <head>
        <meta charset="utf-8">
        <meta name="generator" content="siter">
        <title>Default siter Template</title>
    </head>
    <body>
        {{!content}}
    </body>
</html>
`

const defaultIndexPage = "*Hello World!*\n"

// Validate checks that every required project directory exists directly
// under root, returning a fatal ConfigError naming the first one
// missing. The Go port of CDirs.validate.
func Validate(root string) error {
	for _, dir := range []string{DirPages, DirTemplate} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil || !info.IsDir() {
			return &siter.Error{Kind: siter.ErrConfig, Sender: "layout",
				Message: "required directory " + dir + " not found"}
		}
	}
	templatePage := filepath.Join(root, DirTemplate, FileTemplatePage)
	if info, err := os.Stat(templatePage); err != nil || info.IsDir() {
		return &siter.Error{Kind: siter.ErrConfig, Sender: "layout",
			Message: "required file " + filepath.Join(DirTemplate, FileTemplatePage) + " not found"}
	}
	return nil
}

// NewProject scaffolds a fresh project at path: siter-pages/,
// siter-template/ (with page.html), and a starter index page. The Go
// port of CDirs.new_project.
func NewProject(path string) error {
	if path != "." {
		if _, err := os.Stat(path); err == nil {
			return &siter.Error{Kind: siter.ErrConfig, Sender: "layout",
				Message: "path " + path + " already exists"}
		}
	}
	for _, dir := range []string{DirPages, DirTemplate} {
		if err := os.MkdirAll(filepath.Join(path, dir), 0o755); err != nil {
			return siter.Wrap(siter.ErrConfig, "layout", err)
		}
	}

	if err := os.WriteFile(filepath.Join(path, DirTemplate, FileTemplatePage),
		[]byte(defaultPageTemplate), 0o644); err != nil {
		return siter.Wrap(siter.ErrConfig, "layout", err)
	}
	if err := os.WriteFile(filepath.Join(path, DirPages, "index.md"),
		[]byte(defaultIndexPage), 0o644); err != nil {
		return siter.Wrap(siter.ErrConfig, "layout", err)
	}
	return nil
}
