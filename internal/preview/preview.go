// Package preview renders a local HTML page for a control tree: the control
// document itself plus a summary of every resolved value.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"sitesync/internal/builder"
	"sitesync/internal/content"
	"sitesync/internal/project"
	"sitesync/internal/util"
)

// IndexFile is the page written into the preview directory.
const IndexFile = "index.html"

// Data is what the preview page shows besides the document.
type Data struct {
	Project   project.Descriptor
	Content   content.Content
	AssetBase string
	// Files are the screenshot names found for the project.
	Files       []string
	Lowercase   bool
	Card        string
	Hero        string
	Pricing     string
	Warnings    []string
	RunID       string
	GeneratedAt time.Time
}

// PageData is passed to the layout.
type PageData struct {
	Data
	Document    template.HTML
	HeroIsVideo bool
	// MissingImages are document image references with no screenshot.
	MissingImages []string
}

var layout = template.Must(template.New("main").Parse(layoutSource))

// Render returns the full preview page for document.
func Render(document string, data Data) ([]byte, error) {
	doc, err := RenderDocument(document, Images{Base: data.AssetBase, Lowercase: data.Lowercase})
	if err != nil {
		return nil, err
	}
	page := PageData{
		Data:          data,
		Document:      template.HTML(doc.HTML),
		HeroIsVideo:   builder.IsVideo(data.Hero),
		MissingImages: missing(doc.Images, data.Files),
	}
	var buf bytes.Buffer
	if err := layout.ExecuteTemplate(&buf, "main", page); err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.Bytes(), nil
}

// missing returns the refs absent from files, compared case-insensitively
// and reported once each.
func missing(refs, files []string) []string {
	have := make(map[string]bool, len(files))
	for _, f := range files {
		have[strings.ToLower(f)] = true
	}
	var out []string
	for _, r := range refs {
		key := strings.ToLower(r)
		if have[key] {
			continue
		}
		have[key] = true
		out = append(out, r)
	}
	return out
}

// Build writes the preview page into dir.
func Build(dir, document string, data Data) (string, error) {
	out, err := Render(document, data)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, IndexFile)
	if err := util.WriteFileAtomic(path, out, 0644); err != nil {
		return "", fmt.Errorf("write preview %s: %w", path, err)
	}
	return path, nil
}

const layoutSource = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{ .Project.Name }} preview</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; background: #0a0c10; color: #e5e5e5; }
    main { display: grid; grid-template-columns: 2fr 1fr; gap: 2rem; max-width: 1200px; margin: 0 auto; padding: 2rem; }
    aside { border-left: 1px solid #333; padding-left: 2rem; font-size: 0.9rem; }
    img, video { max-width: 100%; }
    .warn { color: #f59e0b; }
    dt { color: #10b981; margin-top: 0.5rem; }
    code { color: #22d3ee; }
  </style>
</head>
<body>
  <main>
    <article>
      {{ .Document }}
    </article>
    <aside>
      <h2>{{ .Project.Name }} <small>({{ .Project.Slug }})</small></h2>
      <dl>
        <dt>Brand</dt><dd>{{ .Project.Brand }}</dd>
        <dt>Category / status</dt><dd>{{ .Project.Category }} / {{ .Project.Status }}</dd>
        <dt>Hero title</dt><dd>{{ .Content.Hero.Title }}</dd>
        <dt>Hero subtitle</dt><dd>{{ .Content.Hero.Subtitle }}</dd>
        <dt>Primary CTA</dt><dd>{{ .Content.Hero.PrimaryLabel }} <code>{{ .Content.Hero.PrimaryLink }}</code></dd>
        <dt>Secondary CTA</dt><dd>{{ .Content.Hero.SecondaryLabel }} <code>{{ .Content.Hero.SecondaryLink }}</code></dd>
        <dt>Pricing</dt><dd>{{ .Pricing }}</dd>
      </dl>
      {{ if .Hero }}<h3>Hero</h3>
      {{ if .HeroIsVideo }}<video src="{{ .Hero }}" muted loop autoplay></video>{{ else }}<img src="{{ .Hero }}" alt="hero">{{ end }}{{ end }}
      {{ if .Card }}<h3>Card</h3><img src="{{ .Card }}" alt="card">{{ end }}
      <h3>Chapters ({{ len .Content.Chapters }})</h3>
      <ol>{{ range .Content.Chapters }}
        <li><strong>{{ .Title }}</strong> {{ .Description }}{{ if .Image }} <code>{{ .Image }}</code>{{ end }}</li>{{ end }}
      </ol>
      <h3>Plans ({{ len .Content.Plans }})</h3>
      <ul>{{ range .Content.Plans }}
        <li><strong>{{ .Name }}</strong>{{ if .Price }} {{ .Price }}{{ end }}{{ range .Features }}<br>{{ . }}{{ end }}</li>{{ end }}
      </ul>
      {{ if .MissingImages }}<h3 class="warn">Images not in screenshots</h3>
      <ul>{{ range .MissingImages }}
        <li class="warn"><code>{{ . }}</code></li>{{ end }}
      </ul>{{ end }}
      {{ if .Warnings }}<h3 class="warn">Warnings</h3>
      <ul>{{ range .Warnings }}
        <li class="warn">{{ . }}</li>{{ end }}
      </ul>{{ end }}
      <p><small>run {{ .RunID }} at {{ .GeneratedAt.Format "2006-01-02 15:04:05" }}</small></p>
    </aside>
  </main>
</body>
</html>
`
