// internal/builder/fragments.go
package builder

import (
	"path"
	"strconv"
	"strings"
	"text/template"

	"sitesync/internal/content"
)

// Derived holds the markup fragments computed before substitution. Each is
// passed to the compositor as an ordinary string.
type Derived struct {
	HeroTitle      string
	Chapters       string
	Vision         string
	Brand          string
	HeroImage      string
	HeroBackground string
	TechStack      string
}

// jsxText escapes s for use as JSX text content. Braces are encoded so that
// control values can never open an expression or a placeholder.
var jsxText = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"{", "&#123;",
	"}", "&#125;",
).Replace

// jsxAttr escapes s for use inside a double-quoted JSX attribute.
var jsxAttr = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
	"{", "&#123;",
	"}", "&#125;",
).Replace

// jsString escapes s for use inside a quoted JavaScript string literal of
// either quote style. Braces become hex escapes so no placeholder survives.
var jsString = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"{", `\x7B`,
	"}", `\x7D`,
).Replace

// ratio renders a percentage as a CSS scale factor: 105 -> "1.05".
func ratio(percent int) string {
	return strconv.FormatFloat(float64(percent)/100, 'f', -1, 64)
}

// pxOr renders n as a pixel length, or fallback when n is zero.
func pxOr(n int, fallback string) string {
	if n == 0 {
		return fallback
	}
	return strconv.Itoa(n) + "px"
}

// Fragments use [[ ]] delimiters because JSX style objects are full of {{.
var fragments = template.Must(template.New("fragments").
	Delims("[[", "]]").
	Funcs(template.FuncMap{
		"text":  jsxText,
		"attr":  jsxAttr,
		"ratio": ratio,
		"pxOr":  pxOr,
		"asset": func(base, name string) string { return path.Join(base, name) },
	}).Parse(fragmentSource))

const fragmentSource = `
[[- define "chapters" -]]
[[- range $i, $c := .Chapters ]]
    <section key={[[ $i ]]} style={{ paddingTop: '[[ $.Spacing ]]px', paddingBottom: '[[ $.Spacing ]]px' }} className="space-y-20">
      <div className="max-w-6xl mx-auto text-center space-y-10">
        <h2 className="text-6xl md:text-8xl font-black text-white tracking-tighter leading-tight">[[ text $c.Title ]]</h2>
        <p className="text-2xl md:text-3xl text-neutral-400 leading-relaxed max-w-4xl mx-auto">[[ text $c.Description ]]</p>
      </div>
      <div className="relative group/chapter w-full px-4 md:px-0">
        <div style={{ borderRadius: '[[ $.Radius ]]px' }} className="aspect-video bg-[#0A0C10] border border-white/5 overflow-hidden shadow-[0_0_150px_rgba(0,0,0,0.8)] relative w-full">
           <div className="w-full h-full flex items-center justify-center overflow-hidden">
             [[ if $c.Image -]]
             <img
                 src="[[ attr (asset $.AssetBase $c.Image) ]]"
                 alt="[[ attr $c.Title ]]"
                 style={{
                   maxWidth: '[[ $c.Styles.ImgWidth ]]%',
                   transform: 'translateY([[ $c.Styles.ImgOffsetY ]]px) scale([[ ratio $c.Styles.ImgScale ]])',
                   transition: 'all 1s cubic-bezier(0.4, 0, 0.2, 1)'
                 }}
                 className="object-contain h-full transition-all duration-1000 group-hover/chapter:scale-[1.05]"
               />
             [[- else -]]
             <div className="w-full h-full flex items-center justify-center text-neutral-800 italic text-3xl font-light">Visual Coming Soon</div>
             [[- end ]]
           </div>
        </div>
      </div>
    </section>
[[- end ]]
[[- end ]]

[[- define "vision" -]]
<section className="py-60 text-center w-full px-6 bg-gradient-to-b from-transparent via-emerald-500/5 to-transparent"><div className="max-w-6xl mx-auto"><div className="w-24 h-1.5 bg-emerald-500 mx-auto mb-16 rounded-full shadow-[0_0_20px_rgba(16,185,129,0.5)]" /><blockquote className="text-5xl md:text-7xl font-bold text-white italic leading-[1.1] tracking-tight">"[[ text .Caption ]]"</blockquote></div></section>
[[- end ]]

[[- define "brand-logo" -]]
<img src="[[ attr (asset .AssetBase .Logo) ]]" className="h-12 w-auto object-contain" />
[[- end ]]

[[- define "brand-text" -]]
<div className="text-4xl font-black tracking-tighter text-white/90 underline decoration-emerald-500 decoration-4 underline-offset-8">[[ text .Brand ]]</div>
[[- end ]]

[[- define "hero-video" -]]
<video src="[[ attr .Src ]]" autoPlay muted loop playsInline controls onClick={(e) => e.currentTarget.muted = !e.currentTarget.muted} style={{ width: '[[ pxOr .Styles.HeroVideoWidth "100%" ]]', height: '[[ pxOr .Styles.HeroVideoHeight "auto" ]]', maxWidth: '[[ .Styles.HeroImgWidth ]]%', transform: 'translateY([[ .Styles.HeroImgOffsetY ]]px) scale([[ ratio .Styles.HeroImgScale ]])', transition: 'all 1s cubic-bezier(0.4, 0, 0.2, 1)' }} className="object-cover transition-all duration-1000 group-hover/hero:scale-[1.01] cursor-pointer" />
[[- end ]]

[[- define "hero-image" -]]
<img src="[[ attr .Src ]]" alt="[[ attr .Slug ]] Hero" style={{ maxWidth: '[[ .Styles.HeroImgWidth ]]%', transform: 'translateY([[ .Styles.HeroImgOffsetY ]]px) scale([[ ratio .Styles.HeroImgScale ]])', transition: 'all 1s cubic-bezier(0.4, 0, 0.2, 1)' }} className="w-full h-full object-contain transition-all duration-1000 group-hover/hero:scale-[1.01]" />
[[- end ]]

[[- define "hero-placeholder" -]]
<div className="w-full h-full flex items-center justify-center text-neutral-800 italic text-4xl font-light">Hero Visual Coming Soon</div>
[[- end ]]

[[- define "hero-background" -]]
<div className="fixed inset-0 z-0 opacity-20"><img src="[[ attr (asset .AssetBase .Background) ]]" className="w-full h-full object-cover" alt="" /></div>
[[- end ]]

[[- define "tech-stack" -]]
<ul className="flex flex-wrap justify-center gap-4">
[[- range . ]]
  <li className="px-6 py-3 rounded-full border border-white/10 bg-white/5 text-neutral-300 text-lg">[[ text . ]]</li>
[[- end ]]
</ul>
[[- end ]]
`

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// HeroTitleHTML highlights the last word of title with a gradient span.
// A one-word title is the span alone; an empty title stays empty.
func HeroTitleHTML(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	span := `<span className="bg-gradient-to-r from-emerald-400 to-cyan-400 bg-clip-text text-transparent">` + jsxText(last) + `</span>`
	if len(words) == 1 {
		return span
	}
	return jsxText(strings.Join(words[:len(words)-1], " ")) + " " + span
}

// IsVideo reports whether a media reference names a video by extension.
func IsVideo(ref string) bool {
	switch strings.ToLower(path.Ext(ref)) {
	case ".mp4", ".webm":
		return true
	}
	return false
}

// Derive computes every fragment of in. Empty inputs yield empty fragments
// (no chapters, no vision caption, no background) or a placeholder (hero).
func Derive(in Input) (Derived, error) {
	c := in.Content
	d := Derived{HeroTitle: HeroTitleHTML(c.Hero.Title)}

	steps := []struct {
		dst  *string
		name string
		data any
		skip bool
	}{
		{&d.Chapters, "chapters", struct {
			Chapters        []content.Chapter
			Spacing, Radius int
			AssetBase       string
		}{c.Chapters, c.Styles.SectionSpacing, c.Styles.BorderRadius, in.AssetBase}, len(c.Chapters) == 0},
		{&d.Vision, "vision", struct{ Caption string }{c.VisionCaption}, c.VisionCaption == ""},
		{&d.Brand, brandTemplate(c.Styles), struct{ AssetBase, Logo, Brand string }{in.AssetBase, c.Styles.BrandLogo, in.Project.Brand}, false},
		{&d.HeroImage, heroTemplate(in.HeroImage), struct {
			Src, Slug string
			Styles    content.Styles
		}{in.HeroImage, in.Project.Slug, c.Styles}, false},
		{&d.HeroBackground, "hero-background", struct{ AssetBase, Background string }{in.AssetBase, c.Styles.HeroBackground}, c.Styles.HeroBackground == ""},
		{&d.TechStack, "tech-stack", c.TechStack, len(c.TechStack) == 0},
	}
	for _, s := range steps {
		if s.skip {
			continue
		}
		out, err := render(s.name, s.data)
		if err != nil {
			return Derived{}, err
		}
		*s.dst = out
	}
	return d, nil
}

func brandTemplate(s content.Styles) string {
	if s.BrandLogo != "" {
		return "brand-logo"
	}
	return "brand-text"
}

func heroTemplate(src string) string {
	switch {
	case src == "":
		return "hero-placeholder"
	case IsVideo(src):
		return "hero-video"
	default:
		return "hero-image"
	}
}
