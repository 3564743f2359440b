// internal/builder/builder.go
package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sitesync/internal/compose"
	"sitesync/internal/util"
)

// PageSpec describes one generated file under a project's pages directory.
type PageSpec struct {
	Output string
	// Template is a control-root relative template, "" when the page always
	// uses Builtin.
	Template string
	// Builtin is used when Template is absent. An empty Builtin makes the
	// page optional: a missing template skips it with a warning.
	Builtin string
}

// BuiltinSource marks pages rendered from a built-in shell.
const BuiltinSource = "builtin"

// Pages is the fixed set of per-project outputs.
var Pages = []PageSpec{
	{Output: "page.tsx", Template: "template.tsx", Builtin: projectShell},
	{Output: "ProjectUI.tsx", Template: "ProjectUI.tsx"},
	{Output: "register/page.tsx", Builtin: registerShell},
	{Output: "register/RegistrationUI.tsx", Template: "RegistrationUI.tsx"},
	{Output: "dashboard/page.tsx", Builtin: dashboardShell},
	{Output: "dashboard/DashboardUI.tsx", Template: "DashboardUI.tsx"},
}

// SiteConfigTemplate is the control-root file that overrides the built-in
// site configuration template.
const SiteConfigTemplate = "firebase.ts"

// Writer renders templates from a control root into an output directory.
type Writer struct {
	ControlRoot string
	Log         *zap.Logger
}

// NewWriter returns a Writer reading templates from controlRoot.
func NewWriter(controlRoot string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{ControlRoot: controlRoot, Log: log}
}

// loadTemplate reads the control template name, falling back to builtin.
// ok is false when an optional template is missing.
func (w *Writer) loadTemplate(name, builtin string) (text, source string, ok bool, err error) {
	if name != "" {
		data, err := os.ReadFile(filepath.Join(w.ControlRoot, name))
		switch {
		case err == nil:
			return string(data), name, true, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", "", false, fmt.Errorf("read template %s: %w", name, err)
		}
	}
	if builtin == "" {
		return "", "", false, nil
	}
	return builtin, BuiltinSource, true, nil
}

// RenderPages composes every page without writing. Missing optional
// templates are returned in skipped.
func (w *Writer) RenderPages(bag compose.Bag) (pages []Page, skipped []string, err error) {
	for _, spec := range Pages {
		text, source, ok, err := w.loadTemplate(spec.Template, spec.Builtin)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			w.Log.Warn("template not found in control root, page skipped",
				zap.String("template", spec.Template), zap.String("page", spec.Output))
			skipped = append(skipped, spec.Output)
			continue
		}
		if source == BuiltinSource && spec.Template != "" {
			w.Log.Warn("template not found in control root, using built-in shell",
				zap.String("template", spec.Template))
		}
		pages = append(pages, Page{
			Output:   spec.Output,
			Source:   source,
			Template: text,
			Text:     compose.Compose(text, bag),
		})
	}
	return pages, skipped, nil
}

// WritePages renders every page into dir.
func (w *Writer) WritePages(dir string, bag compose.Bag) (Report, error) {
	pages, skipped, err := w.RenderPages(bag)
	if err != nil {
		return Report{}, err
	}
	written, err := w.WriteAll(dir, pages)
	return Report{Written: written, Skipped: skipped}, err
}

// WriteAll writes already rendered pages into dir and returns their paths.
func (w *Writer) WriteAll(dir string, pages []Page) ([]string, error) {
	var written []string
	for _, p := range pages {
		out := filepath.Join(dir, filepath.FromSlash(p.Output))
		if err := w.WritePage(out, p); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

// WritePage writes one rendered page to path.
func (w *Writer) WritePage(path string, p Page) error {
	if err := util.WriteFileAtomic(path, []byte(p.Text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Log.Debug("page written", zap.String("path", path), zap.String("source", p.Source))
	return nil
}

// RenderSiteConfig composes the shared site configuration file.
func (w *Writer) RenderSiteConfig(bag compose.Bag) (Page, error) {
	text, source, _, err := w.loadTemplate(SiteConfigTemplate, siteConfigTemplate)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Output:   SiteConfigTemplate,
		Source:   source,
		Template: text,
		Text:     compose.Compose(text, bag),
	}, nil
}

// WriteSiteConfig overwrites the site configuration file at path.
func (w *Writer) WriteSiteConfig(path string, bag compose.Bag) error {
	page, err := w.RenderSiteConfig(bag)
	if err != nil {
		return err
	}
	return w.WritePage(path, page)
}
