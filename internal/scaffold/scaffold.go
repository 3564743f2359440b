// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"sitesync/internal/content"
	"sitesync/internal/project"
)

// ControlDir is the control root created inside a new project.
const ControlDir = "CONTROL_WEBSITE"

// Project holds the values a new control tree is seeded with.
type Project struct {
	Name  string
	Slug  string
	Brand string
}

// CreateControlTree lays out a control tree under dir: configuration file,
// descriptor, sample document, override folders, one chapter and the page
// templates. Existing files are never overwritten. It returns the paths it
// created.
func CreateControlTree(dir string, p Project) ([]string, error) {
	if p.Name == "" {
		p.Name = filepath.Base(filepath.Clean(dir))
	}
	p.Slug = project.NormalizeSlug(p.Slug, p.Name)
	if p.Brand == "" {
		p.Brand = p.Name
	}

	var created []string
	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(dir, path), 0755) }
	dirs := []string{
		"screenshots",
		filepath.Join(ControlDir, "1_HERO_AND_HEADER"),
		filepath.Join(ControlDir, content.ChaptersDir),
		filepath.Join(ControlDir, "3_DESIGN_STUDIO"),
		filepath.Join(ControlDir, "4_FINAL_CONVERSION"),
	}
	for _, d := range dirs {
		if err := mkdir(d); err != nil {
			return created, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := map[string]string{
		"sitesync.yaml": configContent,
		filepath.Join(ControlDir, "product.config.json"):                      descriptorContent,
		filepath.Join(ControlDir, "WEBSITE.md"):                               documentContent,
		filepath.Join(ControlDir, "template.tsx"):                             pageTemplateContent,
		filepath.Join(ControlDir, "ProjectUI.tsx"):                            projectUIContent,
		filepath.Join(ControlDir, "3_DESIGN_STUDIO", "HERO_FONT_SIZE_PX.txt"): "120\n",
	}
	for _, path := range slices.Sorted(maps.Keys(files)) {
		out, err := execute(path, files[path], p)
		if err != nil {
			return created, err
		}
		full := filepath.Join(dir, path)
		ok, err := writeNew(full, out)
		if err != nil {
			return created, fmt.Errorf("failed to write file %s: %w", path, err)
		}
		if ok {
			created = append(created, full)
		}
	}

	chapter, err := CreateChapter(filepath.Join(dir, ControlDir), "Getting Started")
	if err != nil {
		return created, err
	}
	return append(created, chapter), nil
}

// CreateChapter adds the next numbered chapter folder under a control root,
// seeded from the chapter archetype.
func CreateChapter(controlRoot, title string) (string, error) {
	parent := filepath.Join(controlRoot, content.ChaptersDir)
	dirs, err := content.OSLister{}.ListDirs(parent)
	if err != nil {
		return "", err
	}
	slug := project.NormalizeSlug("", title)
	path := filepath.Join(parent, fmt.Sprintf("%02d_%s", len(dirs)+1, strings.ReplaceAll(slug, "-", "_")))
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}

	data := struct{ Title string }{Title: title}
	for name, body := range map[string]string{
		"TITLE.txt":       "[[.Title]]\n",
		"DESCRIPTION.txt": chapterDescriptionContent,
	} {
		out, err := execute(name, body, data)
		if err != nil {
			return "", err
		}
		if _, err := writeNew(filepath.Join(path, name), out); err != nil {
			return "", err
		}
	}
	return path, nil
}

// archetypeFuncs are available to every archetype. json quotes a value
// for the descriptor.
var archetypeFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		data, err := json.Marshal(v)
		return string(data), err
	},
}

func execute(name, body string, data any) ([]byte, error) {
	tmpl, err := template.New(name).Delims("[[", "]]").Funcs(archetypeFuncs).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse archetype %s: %w", name, err)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("failed to execute archetype %s: %w", name, err)
	}
	return out.Bytes(), nil
}

// writeNew writes path unless it already exists.
func writeNew(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

// Archetypes use [[ ]] so that page templates keep their {{ }} placeholders.

const configContent = `# sitesync configuration. Every key can be overridden with SITESYNC_<KEY>,
# for example SITESYNC_SITE_ROOT or SITESYNC_FIREBASE_API_KEY.
control_root: CONTROL_WEBSITE
site_root: ../website
extract_mode: single
lowercase_assets: true
pricing:
  url: ""
  timeout: 10s
support:
  email: ""
  phone: ""
publish:
  enabled: false
  push: false
  message: "feat: sync project {{ SLUG }}"
`

const descriptorContent = `{
  "name": [[json .Name]],
  "slug": [[json .Slug]],
  "category": "tool",
  "brand": [[json .Brand]],
  "status": "beta"
}
`

const documentContent = `# [[.Name]]

## Hero Section
**Title:** Meet [[.Name]]
**Subtitle:** One sentence about what [[.Name]] does.
**CTA Primary Label:** Download Now
**CTA Primary Link:** #
**CTA Secondary Label:** Learn More
**CTA Secondary Link:** #features

## UI & Styling
**Hero Title Size:** 120
**Screenshots Path:** screenshots

## Demo & Vision
**Caption:** The one line people should remember.

## Pricing
### Plan: Premium
**Subtitle:** For individuals
- Everything in Free
- Priority support

### Plan: Crown
**Subtitle:** For teams
- Everything in Premium
- Team management

## Tech Stack
- Go

## Final CTA
**Title:** Ready?
**Subtitle:** Start with [[.Name]] today.
**Button Label:** Get Started
**Button Link:** #
`

const pageTemplateContent = `import { Metadata } from 'next';
import ProjectUI from './ProjectUI';

export const metadata: Metadata = {
    title: '{{ META_TITLE }}',
    description: '{{ META_DESCRIPTION }}'
};

export default function Page() {
    return <ProjectUI />;
}
`

const projectUIContent = `'use client';

const pricing = {{ PRICING_DATA_JSON }};
const plans = {{ PLAN_STRUCTURE_JSON }};
const styles = {{ STYLES_JSON }};

export default function ProjectUI() {
  return (
    <main className="min-h-screen bg-[#05070A] text-white">
      {{ HERO_BACKGROUND_ELEMENT }}
      <header className="p-8">{{ BRAND_LOGO_ELEMENT }}</header>
      <section className="text-center">
        <h1 style={{ fontSize: styles.heroTitleSize }}>{{ HERO_TITLE_HTML }}</h1>
        <p>{{ HERO_SUBTITLE }}</p>
        <a href="{{ CTA_PRIMARY_LINK }}">{{ CTA_PRIMARY_LABEL }}</a>
        <a href="{{ CTA_SECONDARY_LINK }}">{{ CTA_SECONDARY_LABEL }}</a>
        <div className="group/hero">{{ HERO_IMAGE_ELEMENT }}</div>
      </section>
      {{ CHAPTERS_HTML }}
      {{ VISION_SECTION_HTML }}
      {{ TECH_STACK_HTML }}
      <section className="text-center">
        <h2>{{ FINAL_CTA_TITLE }}</h2>
        <p>{{ FINAL_CTA_SUBTITLE }}</p>
        <a href="{{ FINAL_CTA_BUTTON_LINK }}">{{ FINAL_CTA_BUTTON_LABEL }}</a>
      </section>
      <footer>© {{ YEAR }} {{ BRAND_NAME }} · {{ SUPPORT_EMAIL }} · {{ SUPPORT_PHONE }}</footer>
    </main>
  );
}
`

const chapterDescriptionContent = `What "[[.Title]]" shows, in one or two sentences.
`
