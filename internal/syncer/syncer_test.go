package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sitesync/internal/config"
	"sitesync/internal/project"
	"sitesync/internal/registry"
	"sitesync/internal/remote"
)

const website = `# Acme

## Hero Section
**Title:** Hello World
**Subtitle:** Sync everything

## Feature Chapters
### Chapter 1: Onboarding
**Description:** Start in minutes
### Chapter 2: Sync
**Description:** Stay current

## Pricing
### Plan: Pro
**Price:** 15
- Unlimited projects

## Tech Stack
- Go
`

type stubPublisher struct {
	dir, message string
	calls        int
	ok           bool
}

func (p *stubPublisher) Publish(_ context.Context, dir, message string) bool {
	p.calls++
	p.dir, p.message = dir, message
	return p.ok
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

type fixture struct {
	cfg  config.Config
	pub  *stubPublisher
	sync *Syncer
}

func newFixture(t *testing.T, pricingURL string) fixture {
	t.Helper()
	projectRoot := t.TempDir()
	site := t.TempDir()

	cfg := config.Default()
	cfg.ProjectRoot = projectRoot
	cfg.ControlRoot = filepath.Join(projectRoot, "CONTROL_WEBSITE")
	cfg.SiteRoot = site
	cfg.Pricing.URL = pricingURL
	cfg.Pricing.Timeout = 2 * time.Second
	cfg.Support.Email = "help@example.com"

	writeFile(t, cfg.ControlRoot, "product.config.json",
		`{"name":"Acme","slug":"Acme-App","category":"tool","brand":"Acme Inc","status":"beta"}`)
	writeFile(t, cfg.ControlRoot, "WEBSITE.md", website)
	writeFile(t, cfg.ControlRoot, "template.tsx", "title: '{{ META_TITLE }}'\n")
	writeFile(t, cfg.ControlRoot, "ProjectUI.tsx", "<h1>{{ HERO_TITLE_HTML }}</h1>\n{{ CHAPTERS_HTML }}\nconst pricing = {{ PRICING_DATA_JSON }};\n{{ MYSTERY }}\n")
	writeFile(t, projectRoot, "screenshots/Card.PNG", "png")
	writeFile(t, projectRoot, "screenshots/hero.mp4", "mp4")

	pub := &stubPublisher{ok: true}
	s := New(cfg, zaptest.NewLogger(t))
	s.Publisher = pub
	s.Now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }
	s.NewID = func() string { return "run-1" }
	return fixture{cfg: cfg, pub: pub, sync: s}
}

func pricingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"pricing": map[string]any{
				"USD": map[string]any{"symbol": "$", "position": "prefix", "plans": map[string]any{"pro": map[string]string{"monthly": "9"}}},
			},
			"support_phone": "+1 555",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestRun_EndToEnd(t *testing.T) {
	srv := pricingServer(t)
	f := newFixture(t, srv.URL)

	res, err := f.sync.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, "acme-app", res.Project.Slug)
	assert.Equal(t, remote.SourceRemote, res.PricingSource)
	require.Len(t, res.Content.Chapters, 2)
	assert.Equal(t, "Onboarding", res.Content.Chapters[0].Title)
	assert.Equal(t, "Start in minutes", res.Content.Chapters[0].Description)

	pages := f.cfg.PagesDir("acme-app")
	page, err := os.ReadFile(filepath.Join(pages, "page.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "title: 'Acme | Acme Inc'\n", string(page))

	ui, err := os.ReadFile(filepath.Join(pages, "ProjectUI.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(ui), `Hello <span className=`)
	assert.Contains(t, string(ui), `const pricing = {"USD":{"symbol":"$","position":"prefix","plans":{"pro":{"monthly":"9"}}}};`)
	assert.Contains(t, string(ui), "{{ MYSTERY }}")
	assert.FileExists(t, filepath.Join(pages, "register", "page.tsx"))
	assert.FileExists(t, filepath.Join(pages, "dashboard", "page.tsx"))
	assert.FileExists(t, f.cfg.SiteConfigPath())

	assert.FileExists(t, filepath.Join(f.cfg.AssetsDir("acme-app"), "card.png"))
	assert.Equal(t, "/assets/projects/acme-app/card.png", res.Assets.Card)
	assert.Equal(t, "/assets/projects/acme-app/hero.mp4", res.Assets.Hero)

	var records []registry.Record
	readJSON(t, f.cfg.RegistryPath(), &records)
	require.Len(t, records, 1)
	assert.Equal(t, "acme-app", records[0]["slug"])
	assert.Equal(t, "Sync everything", records[0]["description"])
	assert.Equal(t, "/assets/projects/acme-app/card.png", records[0]["image"])
	assert.Equal(t, "2026-05-06T07:08:09.000Z", records[0]["lastUpdated"])

	assert.True(t, res.Published)
	assert.Equal(t, f.cfg.SiteRoot, f.pub.dir)
	assert.Equal(t, "feat: sync project acme-app", f.pub.message)
	assert.Equal(t, []string{"MYSTERY"}, res.UnknownPlaceholders()["ProjectUI.tsx"])
}

func TestRun_IsRepeatable(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.sync.Run(context.Background())
	require.NoError(t, err)
	res, err := f.sync.Run(context.Background())
	require.NoError(t, err)

	var records []registry.Record
	readJSON(t, f.cfg.RegistryPath(), &records)
	assert.Len(t, records, 1)
	assert.Zero(t, res.Assets.Copied, "assets are fresh on the second run")
}

func TestRun_MissingDescriptorIsFatal(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, os.Remove(f.cfg.DescriptorPath()))

	_, err := f.sync.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, project.ErrDescriptorMissing))
	assert.Zero(t, f.pub.calls)
}

func TestRun_DegradesGracefully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	f := newFixture(t, srv.URL)
	require.NoError(t, os.Remove(f.cfg.DocumentPath()))
	require.NoError(t, os.RemoveAll(filepath.Join(f.cfg.ProjectRoot, "screenshots")))
	f.pub.ok = false

	res, err := f.sync.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, remote.SourceFallback, res.PricingSource)
	assert.Contains(t, res.Remote.Pricing, "DZD")
	assert.Empty(t, res.Content.Chapters)
	assert.False(t, res.Published)
	assert.NotEmpty(t, res.Warnings)

	var records []registry.Record
	readJSON(t, f.cfg.RegistryPath(), &records)
	assert.Equal(t, NoDescription, records[0]["description"])
	assert.Equal(t, "", records[0]["image"])
}

func TestRun_PublishDisabled(t *testing.T) {
	f := newFixture(t, "")
	f.sync.Config.Publish.Enabled = false

	res, err := f.sync.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Published)
	assert.Zero(t, f.pub.calls)
}

func TestInspect_WritesNothing(t *testing.T) {
	f := newFixture(t, "")

	res, err := f.sync.Inspect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Written)
	assert.NotEmpty(t, res.Pages)
	assert.Equal(t, "/assets/projects/acme-app/card.png", res.Entry.Image)
	assert.NoFileExists(t, f.cfg.RegistryPath())
	assert.NoDirExists(t, f.cfg.PagesDir("acme-app"))
	assert.NoDirExists(t, f.cfg.AssetsDir("acme-app"))
	assert.Zero(t, f.pub.calls)
}

func TestScreenshotsDir(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, filepath.Join(f.cfg.ProjectRoot, "screenshots"), f.sync.ScreenshotsDir())

	writeFile(t, f.cfg.ControlRoot, "3_DESIGN_STUDIO/SCREENSHOTS_PATH.txt", "media/shots\n")
	assert.Equal(t, filepath.Join(f.cfg.ProjectRoot, "media", "shots"), f.sync.ScreenshotsDir())
}

func TestScreenshotsDir_DocumentOverride(t *testing.T) {
	f := newFixture(t, "")
	writeFile(t, f.cfg.ControlRoot, "WEBSITE.md", website+"\n## UI & Styling\n**Screenshots Path:** captures\n")
	assert.Equal(t, filepath.Join(f.cfg.ProjectRoot, "captures"), f.sync.ScreenshotsDir())
}
