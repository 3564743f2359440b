package builder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sitesync/internal/compose"
	"sitesync/internal/config"
	"sitesync/internal/content"
	"sitesync/internal/project"
	"sitesync/internal/remote"
)

func sampleInput() Input {
	return Input{
		Project: project.Descriptor{Name: "Acme", Slug: "acme-app", Category: "tool", Brand: "Acme Inc", Status: "beta"},
		Content: content.Content{
			Hero: content.Hero{
				Title:        "Hello World",
				Subtitle:     "Don't wait",
				PrimaryLabel: "Download Now",
				PrimaryLink:  "#",
			},
			Chapters: []content.Chapter{
				{Title: "Onboarding", Description: "Start fast", Image: "one.png", Styles: content.ChapterStyle{ImgWidth: 80, ImgOffsetY: -10, ImgScale: 105}},
				{Title: "Sync", Description: "Stay {current}", Styles: content.DefaultChapterStyle},
			},
			Plans:  []content.Plan{{Name: "Pro", Features: []string{"All"}}},
			Styles: content.Styles{SectionSpacing: 160, BorderRadius: 32, HeroImgWidth: 100, HeroImgScale: 100},
			Final:  content.FinalCTA{ButtonLabel: "Get Started", ButtonLink: "#"},
		},
		Remote:    remote.Fallback(),
		Support:   config.SupportConfig{Email: "help@example.com", Phone: "+100"},
		AssetBase: "/assets/projects/acme-app",
		HeroImage: "/assets/projects/acme-app/hero.png",
		Now:       time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestHeroTitleHTML(t *testing.T) {
	span := `<span className="bg-gradient-to-r from-emerald-400 to-cyan-400 bg-clip-text text-transparent">`
	assert.Equal(t, "Hello "+span+"World</span>", HeroTitleHTML("Hello World"))
	assert.Equal(t, "Sync all "+span+"things</span>", HeroTitleHTML("  Sync all   things "))
	assert.Equal(t, span+"Solo</span>", HeroTitleHTML("Solo"))
	assert.Equal(t, "", HeroTitleHTML(""))
	assert.Equal(t, "a &lt;b&gt; "+span+"&#123;c&#125;</span>", HeroTitleHTML("a <b> {c}"))
}

func TestIsVideo(t *testing.T) {
	assert.True(t, IsVideo("/x/demo.MP4"))
	assert.True(t, IsVideo("clip.webm"))
	assert.False(t, IsVideo("hero.png"))
	assert.False(t, IsVideo(""))
}

func TestDerive_HeroElement(t *testing.T) {
	in := sampleInput()

	d, err := Derive(in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.HeroImage, `<img src="/assets/projects/acme-app/hero.png" alt="acme-app Hero"`))

	in.HeroImage = "/assets/projects/acme-app/demo.mp4"
	in.Content.Styles.HeroVideoWidth = 640
	d, err = Derive(in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.HeroImage, `<video src="/assets/projects/acme-app/demo.mp4"`))
	assert.Contains(t, d.HeroImage, "width: '640px', height: 'auto'")

	in.HeroImage = ""
	d, err = Derive(in)
	require.NoError(t, err)
	assert.Contains(t, d.HeroImage, "Hero Visual Coming Soon")
}

func TestDerive_Chapters(t *testing.T) {
	d, err := Derive(sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(d.Chapters, "<section key={"))
	assert.Contains(t, d.Chapters, "<section key={0} style={{ paddingTop: '160px', paddingBottom: '160px' }}")
	assert.Contains(t, d.Chapters, `src="/assets/projects/acme-app/one.png"`)
	assert.Contains(t, d.Chapters, "transform: 'translateY(-10px) scale(1.05)'")
	assert.Contains(t, d.Chapters, "maxWidth: '80%'")
	assert.Contains(t, d.Chapters, "Stay &#123;current&#125;")
	assert.Contains(t, d.Chapters, "Visual Coming Soon", "chapter without image gets a placeholder")
	assert.Contains(t, d.Chapters, "borderRadius: '32px'")
}

func TestDerive_EmptyInputsOmitSections(t *testing.T) {
	in := sampleInput()
	in.Content.Chapters = []content.Chapter{}
	d, err := Derive(in)
	require.NoError(t, err)

	assert.Empty(t, d.Chapters)
	assert.Empty(t, d.Vision)
	assert.Empty(t, d.HeroBackground)
	assert.Empty(t, d.TechStack)
	assert.Contains(t, d.Brand, ">Acme Inc</div>", "brand text without a logo")
}

func TestDerive_OptionalSections(t *testing.T) {
	in := sampleInput()
	in.Content.VisionCaption = "Ship it"
	in.Content.Styles.BrandLogo = "logo.svg"
	in.Content.Styles.HeroBackground = "bg.jpg"
	in.Content.TechStack = []string{"Go", "SQLite"}

	d, err := Derive(in)
	require.NoError(t, err)
	assert.Contains(t, d.Vision, `"Ship it"</blockquote>`)
	assert.Equal(t, `<img src="/assets/projects/acme-app/logo.svg" className="h-12 w-auto object-contain" />`, d.Brand)
	assert.Contains(t, d.HeroBackground, `src="/assets/projects/acme-app/bg.jpg"`)
	assert.Equal(t, 2, strings.Count(d.TechStack, "<li "))
	assert.Contains(t, d.TechStack, ">SQLite</li>")
}

func TestBag(t *testing.T) {
	bag, err := Bag(sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "Acme | Acme Inc", bag[compose.MetaTitle])
	assert.Equal(t, `Don\'t wait`, bag[compose.MetaDescription])
	assert.Equal(t, "Don't wait", bag[compose.HeroSubtitle])
	assert.Equal(t, 2026, bag[compose.Year])
	assert.Equal(t, "help@example.com", bag[compose.SupportEmail], "configured contact when the feed has none")
	assert.Equal(t, "acme-app", bag[compose.Slug])

	for name := range compose.Vocabulary {
		assert.Contains(t, bag, name)
	}

	out := compose.Compose("{{ PLAN_STRUCTURE_JSON }}|{{ STYLES_JSON }}", bag)
	assert.True(t, strings.HasPrefix(out, `[{"name":"Pro","features":["All"]}]|{"heroTitleSize":0,`))
}

func TestBag_RemoteSupportWins(t *testing.T) {
	in := sampleInput()
	in.Remote.SupportEmail = "remote@example.com"
	bag, err := Bag(in)
	require.NoError(t, err)
	assert.Equal(t, "remote@example.com", bag[compose.SupportEmail])
	assert.Equal(t, "+100", bag[compose.SupportPhone])
}

func TestBag_ComposeIsIdempotent(t *testing.T) {
	bag, err := Bag(sampleInput())
	require.NoError(t, err)
	tmpl := "{{ HERO_TITLE_HTML }} {{ CHAPTERS_HTML }} {{ HERO_IMAGE_ELEMENT }} {{ UNKNOWN }}"
	once := compose.Compose(tmpl, bag)
	assert.Equal(t, once, compose.Compose(once, bag))
}

func TestBag_EscapesPlainValuesForTheirContext(t *testing.T) {
	in := sampleInput()
	in.Project.Name = "Taedj's Sync"
	in.Content.Hero.Subtitle = "Sync {{ SLUG }} <fast>"
	in.Content.Hero.PrimaryLink = `/go?a="1"&b={x}`
	bag, err := Bag(in)
	require.NoError(t, err)

	assert.Equal(t, `Taedj\'s Sync | Acme Inc`, bag[compose.MetaTitle])
	assert.Equal(t, `Taedj\'s Sync`, bag[compose.ProjectName])
	assert.Equal(t, `Sync \x7B\x7B SLUG \x7D\x7D <fast>`, bag[compose.MetaDescription])
	assert.Equal(t, "Sync &#123;&#123; SLUG &#125;&#125; &lt;fast&gt;", bag[compose.HeroSubtitle])
	assert.Equal(t, "/go?a=&quot;1&quot;&amp;b=&#123;x&#125;", bag[compose.CTAPrimaryLink])

	for name, value := range bag {
		assert.Empty(t, compose.Tokens(compose.Stringify(value)), "%s carries a placeholder", name)
	}

	pages, _, err := NewWriter(t.TempDir(), zaptest.NewLogger(t)).RenderPages(bag)
	require.NoError(t, err)
	texts := map[string]string{}
	for _, p := range pages {
		texts[p.Output] = p.Text
	}
	assert.Contains(t, texts["page.tsx"], `title: 'Taedj\'s Sync | Acme Inc',`)
	assert.Contains(t, texts["register/page.tsx"], `title: 'Register - Taedj\'s Sync',`)
	assert.Contains(t, texts["dashboard/page.tsx"], `description: 'Manage your Taedj\'s Sync account',`)

	tmpl := "<p>{{ HERO_SUBTITLE }}</p><a href=\"{{ CTA_PRIMARY_LINK }}\">{{ CTA_PRIMARY_LABEL }}</a>{{ META_DESCRIPTION }}"
	once := compose.Compose(tmpl, bag)
	assert.Equal(t, "<p>Sync &#123;&#123; SLUG &#125;&#125; &lt;fast&gt;</p>", once[:strings.Index(once, "<a")])
	assert.Equal(t, once, compose.Compose(once, bag))
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
}

func TestWritePages(t *testing.T) {
	control := t.TempDir()
	out := filepath.Join(t.TempDir(), "acme-app")
	writeFile(t, control, "template.tsx", "title: {{META_TITLE}}")
	writeFile(t, control, "ProjectUI.tsx", "<h1>{{ HERO_TITLE_HTML }}</h1>{{ KEEP_ME }}")
	writeFile(t, control, "RegistrationUI.tsx", "register {{ SLUG }}")

	bag, err := Bag(sampleInput())
	require.NoError(t, err)
	w := NewWriter(control, zaptest.NewLogger(t))
	report, err := w.WritePages(out, bag)
	require.NoError(t, err)

	assert.Len(t, report.Written, 5)
	assert.Equal(t, []string{"dashboard/DashboardUI.tsx"}, report.Skipped)

	read := func(rel string) string {
		data, err := os.ReadFile(filepath.Join(out, rel))
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "title: Acme | Acme Inc", read("page.tsx"))
	assert.Contains(t, read("ProjectUI.tsx"), "{{ KEEP_ME }}")
	assert.Equal(t, "register acme-app", read("register/RegistrationUI.tsx"))
	assert.Contains(t, read("register/page.tsx"), "title: 'Register - Acme',")
	assert.Contains(t, read("dashboard/page.tsx"), "description: 'Manage your Acme account',")
	assert.NoFileExists(t, filepath.Join(out, "dashboard", "DashboardUI.tsx"))
}

func TestRenderPages_BuiltinProjectShell(t *testing.T) {
	bag, err := Bag(sampleInput())
	require.NoError(t, err)
	pages, skipped, err := NewWriter(t.TempDir(), zaptest.NewLogger(t)).RenderPages(bag)
	require.NoError(t, err)

	require.NotEmpty(t, pages)
	assert.Equal(t, "page.tsx", pages[0].Output)
	assert.Equal(t, BuiltinSource, pages[0].Source)
	assert.Contains(t, pages[0].Text, `description: 'Don\'t wait'`)
	assert.Len(t, skipped, 3)
}

func TestWriteSiteConfig(t *testing.T) {
	in := sampleInput()
	in.Firebase = config.FirebaseConfig{APIKey: "key-123", ProjectID: "acme"}
	bag, err := Bag(in)
	require.NoError(t, err)

	control := t.TempDir()
	path := filepath.Join(t.TempDir(), "lib", "firebase.ts")
	w := NewWriter(control, zaptest.NewLogger(t))

	require.NoError(t, w.WriteSiteConfig(path, bag))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `apiKey: "key-123",`)
	assert.Contains(t, string(data), `projectId: "acme",`)
	assert.Contains(t, string(data), `appId: ""`)

	writeFile(t, control, SiteConfigTemplate, "export const project = '{{ FIREBASE_PROJECT_ID }}';\n")
	require.NoError(t, w.WriteSiteConfig(path, bag))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export const project = 'acme';\n", string(data))
}

func newAssets(t *testing.T) (*Assets, string) {
	t.Helper()
	src := t.TempDir()
	return &Assets{
		Src:       src,
		Dst:       filepath.Join(t.TempDir(), "acme-app"),
		URLBase:   "/assets/projects/acme-app",
		Lowercase: true,
		Log:       zaptest.NewLogger(t),
	}, src
}

func TestAssets_SyncCopiesAllowedAndLowercases(t *testing.T) {
	a, src := newAssets(t)
	writeFile(t, src, "Shot-1.PNG", "a")
	writeFile(t, src, "notes.txt", "skip")
	writeFile(t, src, "Demo.mp4", "v")
	require.NoError(t, os.Mkdir(filepath.Join(src, "nested"), 0755))

	res, err := a.Sync(content.AssetOverrides{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Copied)
	assert.FileExists(t, filepath.Join(a.Dst, "shot-1.png"))
	assert.FileExists(t, filepath.Join(a.Dst, "demo.mp4"))
	assert.NoFileExists(t, filepath.Join(a.Dst, "notes.txt"))

	res, err = a.Sync(content.AssetOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Copied)
	assert.Equal(t, 2, res.Skipped, "fresh destinations are not copied again")
}

func TestAssets_RecopiesWhenSourceIsNewer(t *testing.T) {
	a, src := newAssets(t)
	writeFile(t, src, "shot.png", "old")
	_, err := a.Sync(content.AssetOverrides{})
	require.NoError(t, err)

	writeFile(t, src, "shot.png", "new")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(src, "shot.png"), later, later))

	res, err := a.Sync(content.AssetOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Copied)
	data, err := os.ReadFile(filepath.Join(a.Dst, "shot.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestAssets_Selection(t *testing.T) {
	a, src := newAssets(t)
	writeFile(t, src, "a-first.webp", "x")
	writeFile(t, src, "Cover.jpg", "x")
	writeFile(t, src, "hero.gif", "x")

	res, err := a.Scan(content.AssetOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "/assets/projects/acme-app/cover.jpg", res.Card, "cover when no card file")
	assert.Equal(t, "/assets/projects/acme-app/hero.gif", res.Hero)

	writeFile(t, src, "card.png", "x")
	res, err = a.Scan(content.AssetOverrides{HeroImage: "shots/Custom.PNG"})
	require.NoError(t, err)
	assert.Equal(t, "/assets/projects/acme-app/card.png", res.Card)
	assert.Equal(t, "/assets/projects/acme-app/custom.png", res.Hero, "override wins")
	assert.NoDirExists(t, a.Dst, "scan never copies")
}

func TestAssets_FirstMediaFallback(t *testing.T) {
	a, src := newAssets(t)
	writeFile(t, src, "a.svg", "x")
	writeFile(t, src, "b.png", "x")

	res, err := a.Scan(content.AssetOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "/assets/projects/acme-app/b.png", res.Card)
	assert.Equal(t, res.Card, res.Hero)
}

func TestAssets_MissingDirectory(t *testing.T) {
	a, _ := newAssets(t)
	a.Src = filepath.Join(a.Src, "nope")

	res, err := a.Sync(content.AssetOverrides{})
	require.NoError(t, err)
	assert.True(t, res.Missing)
	assert.Empty(t, res.Card)
}
