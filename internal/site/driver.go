package site

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alxm/siter"
)

// Driver owns one project's full generation pipeline: loading pages and
// templates, registering the filesystem-dependent builtins (stubs, root,
// content), rendering every page, and swapping the result into place.
// The Go analogue of CSiter, split from the pure-language core (package
// siter) the way pongo2 keeps TemplateSet (loading/caching/registration)
// separate from Template (evaluation).
type Driver struct {
	Root   string
	Logger *log.Logger

	env *siter.BindingEnvironment

	pagesMu   sync.Mutex // guards stubsCache
	templates map[string]*TextFile

	pageTemplate *TextFile

	stubsCache map[string]string // stub shortpath -> rendered HTML
}

// New constructs a Driver rooted at root. The binding environment is
// empty until Load registers the global builtins.
func New(root string, logger *log.Logger) *Driver {
	return &Driver{
		Root:       root,
		Logger:     logger,
		env:        siter.NewBindingEnvironment(),
		templates:  make(map[string]*TextFile),
		stubsCache: make(map[string]string),
	}
}

func (d *Driver) warn(w *siter.Warning) {
	if d.Logger != nil {
		d.Logger.Println(w.String())
	}
}

func (d *Driver) dir(name string) string {
	return filepath.Join(d.Root, name)
}

// Generate runs the full gen pipeline: load, register builtins, render
// every page to a staging directory, copy static assets, then
// atomically swap staging into siter-out. The Go port of
// CSiter._step_main's four sub-steps.
func (d *Driver) Generate() error {
	if err := Validate(d.Root); err != nil {
		return err
	}

	if err := d.loadConfigAndBuiltins(); err != nil {
		return err
	}

	stagingDir := d.dir(DirStaging)
	if err := resetDir(stagingDir); err != nil {
		return siter.Wrap(siter.ErrConfig, "driver", err)
	}

	if err := d.copyStatic(stagingDir); err != nil {
		return err
	}

	if err := d.generatePages(stagingDir); err != nil {
		return err
	}

	return d.swapStaging(stagingDir)
}

// loadConfigAndBuiltins registers the core language builtins plus the
// site-local ones (stubs, root-per-page is set later), then evaluates
// every file under siter-config/ purely for side effects (declaring
// global def variables/macros a project wants available to every page).
// The Go port of CSiter._step_load.
func (d *Driver) loadConfigAndBuiltins() error {
	if err := siter.RegisterCoreBuiltins(d.env); err != nil {
		return err
	}

	if err := d.env.AddVariable(siter.NameGenerated, siter.TextCollection(siter.FormatGenerated(nowFunc())), true); err != nil {
		return err
	}

	if err := d.env.Add(siter.NameStubs, siter.NewFunctionBinding(siter.NewArity(2, 3, 4), false, d.builtinStubs, nil), true); err != nil {
		return err
	}

	tmplFile, err := loadTextFile(d.Root, filepath.Join(d.dir(DirTemplate), FileTemplatePage))
	if err != nil {
		return err
	}
	d.pageTemplate = tmplFile

	configPath := d.dir(DirConfig)
	if info, err := os.Stat(configPath); err == nil && info.IsDir() {
		configFiles, err := walkFiles(d.Root, configPath, "")
		if err != nil {
			return err
		}
		for _, cf := range configFiles {
			ev := &siter.Evaluator{Bindings: d.env, Warn: d.warn}
			if _, err := ev.Evaluate(cf.Tokens); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyStatic mirrors CSiter._step_static: siter-static/, if present, is
// copied verbatim into the staging directory.
func (d *Driver) copyStatic(stagingDir string) error {
	staticDir := d.dir(DirStatic)
	info, err := os.Stat(staticDir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return copyTree(staticDir, stagingDir)
}

// generatePages mirrors CSiter._step_gen: every page under siter-pages/
// is rendered through the page template and written into the staging
// directory, mirroring the page's own subdirectory structure.
func (d *Driver) generatePages(stagingDir string) error {
	pages, err := walkFiles(d.Root, d.dir(DirPages), pagesExt)
	if err != nil {
		return err
	}

	for _, page := range pages {
		html, err := d.renderPage(page)
		if err != nil {
			return err
		}

		relDir := filepath.Dir(strings.TrimPrefix(page.ShortPath, DirPages+string(filepath.Separator)))
		outDir := filepath.Join(stagingDir, relDir)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return siter.Wrap(siter.ErrConfig, "driver", err)
		}

		outPath := filepath.Join(outDir, page.NameNoExt+".html")
		if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
			return siter.Wrap(siter.ErrConfig, "driver", err)
		}
	}

	return nil
}

// renderPage evaluates one page through the page template, binding its
// page-local variables first. The Go port of CSiter.process_file with
// IsStub=false.
func (d *Driver) renderPage(page *TextFile) (string, error) {
	d.env.Push()
	defer d.env.Pop()

	d.setLocalBindings(page)
	if err := d.setContentBinding(page); err != nil {
		return "", err
	}

	ev := &siter.Evaluator{Bindings: d.env, Warn: d.warn}
	out, err := ev.Evaluate(d.pageTemplate.Tokens)
	if err != nil {
		return "", err
	}
	return out.Resolve(), nil
}

// setLocalBindings binds modified and root, the Go port of
// CSiter._set_local_bindings. root is the page's directory depth
// relative to siter-pages/, expressed as the "../" prefix a page would
// need to reach the site root — useful for relative asset links.
func (d *Driver) setLocalBindings(page *TextFile) {
	d.env.AddVariable(siter.NameModified, siter.TextCollection(siter.FormatModified(page.ModTime)), false)

	rel := filepath.Dir(strings.TrimPrefix(page.ShortPath, DirPages+string(filepath.Separator)))
	depth := 0
	if rel != "." {
		depth = len(strings.Split(rel, string(filepath.Separator)))
	}
	root := strings.Repeat("../", depth)
	d.env.AddVariable(siter.NameRoot, siter.TextCollection(root), false)
}

// setContentBinding evaluates the page's own tokens, resolves the
// result, renders it as Markdown, and binds the HTML as the protected
// content variable. The Go port of CSiter._set_file_bindings with
// SetContent=True, pinning the "content Markdown-ification timing" open
// question to "the driver wraps the evaluated body in Markdown before
// binding content" (see DESIGN.md).
func (d *Driver) setContentBinding(file *TextFile) error {
	ev := &siter.Evaluator{Bindings: d.env, Warn: d.warn}
	out, err := ev.Evaluate(file.Tokens)
	if err != nil {
		return err
	}
	evaluated := out.Resolve()

	html, err := siter.RenderMarkdown(evaluated)
	if err != nil {
		return err
	}

	return d.env.AddVariable(siter.NameContent, siter.TextCollection(html), true)
}

// renderStub evaluates a stub file through a stub template without
// binding modified/root (stubs keep the root path of the
// page that invoked them), caching by short path exactly as
// CSiter.process_file does for IsStub=True.
func (d *Driver) renderStub(stub *TextFile, tmpl *TextFile) (string, error) {
	d.pagesMu.Lock()
	if cached, ok := d.stubsCache[stub.ShortPath]; ok {
		d.pagesMu.Unlock()
		return cached, nil
	}
	d.pagesMu.Unlock()

	d.env.Push()
	defer d.env.Pop()

	if err := d.setContentBinding(stub); err != nil {
		return "", err
	}

	ev := &siter.Evaluator{Bindings: d.env, Warn: d.warn}
	out, err := ev.Evaluate(tmpl.Tokens)
	if err != nil {
		return "", err
	}
	html := out.Resolve()

	d.pagesMu.Lock()
	d.stubsCache[stub.ShortPath] = html
	d.pagesMu.Unlock()

	return html, nil
}

// builtinStubs implements the `stubs` builtin (args[0]=stub subdirectory,
// args[1]=body template name, optional args[2]/args[3]=max count and/or
// separator template name). The Go port of CFunctions.stubs.
func (d *Driver) builtinStubs(_ *siter.Evaluator, args []string) (string, error) {
	stubDir := filepath.Join(d.dir(DirStubs), args[0])
	bodyTemplate, err := d.loadTemplate(args[1])
	if err != nil {
		return "", err
	}

	stubFiles, err := walkFiles(d.Root, stubDir, pagesExt)
	if err != nil {
		return "", err
	}
	sort.Slice(stubFiles, func(i, j int) bool { return stubFiles[i].Name > stubFiles[j].Name })

	var splitTemplateName string
	numMax := 0

	switch len(args) {
	case 3:
		if n, err := strconv.Atoi(args[2]); err == nil {
			numMax = n
		} else {
			splitTemplateName = args[2]
		}
	case 4:
		splitTemplateName = args[2]
		if n, err := strconv.Atoi(args[3]); err == nil {
			numMax = n
		}
	}

	if numMax > 0 && numMax < len(stubFiles) {
		stubFiles = stubFiles[:numMax]
	}

	separator := ""
	if splitTemplateName != "" {
		splitTemplate, err := d.loadTemplate(splitTemplateName)
		if err != nil {
			return "", err
		}
		separator = splitTemplate.Tokens.Resolve()
	}

	rendered := make([]string, len(stubFiles))
	for i, sf := range stubFiles {
		html, err := d.renderStub(sf, bodyTemplate)
		if err != nil {
			return "", err
		}
		rendered[i] = html
	}

	return strings.Join(rendered, separator), nil
}

func (d *Driver) loadTemplate(name string) (*TextFile, error) {
	if tf, ok := d.templates[name]; ok {
		return tf, nil
	}
	tf, err := loadTextFile(d.Root, filepath.Join(d.dir(DirTemplate), name))
	if err != nil {
		return nil, err
	}
	d.templates[name] = tf
	return tf, nil
}

// swapStaging replaces siter-out/ with the staging directory's contents
// in one directory-rename, the Go port of CDir.replace: an atomic
// directory swap rather than a file-by-file overwrite, so a failed or
// partial generation never leaves siter-out/ half-written.
func (d *Driver) swapStaging(stagingDir string) error {
	outDir := d.dir(DirOut)
	if err := os.RemoveAll(outDir); err != nil {
		return siter.Wrap(siter.ErrConfig, "driver", err)
	}
	if err := os.Rename(stagingDir, outDir); err != nil {
		return siter.Wrap(siter.ErrConfig, "driver", err)
	}
	return nil
}

func resetDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// nowFunc is a seam for tests; production code always calls time.Now.
var nowFunc = time.Now
