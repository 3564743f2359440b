package content

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"sitesync/internal/control"
)

// Chapter is one narrative block of the page.
type Chapter struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Styles      ChapterStyle `json:"styles"`
}

// ChapterStyle places the chapter image: width in percent, vertical offset
// in pixels and scale in percent.
type ChapterStyle struct {
	ImgWidth   int `json:"imgWidth"`
	ImgOffsetY int `json:"imgOffsetY"`
	ImgScale   int `json:"imgScale"`
}

// DefaultChapterStyle is applied to chapters with no style values.
var DefaultChapterStyle = ChapterStyle{ImgWidth: 100, ImgOffsetY: 0, ImgScale: 100}

// DirLister lists the immediate subdirectories of a directory in the order
// the listing yields them. A missing directory lists as empty.
type DirLister interface {
	ListDirs(dir string) ([]string, error)
}

// OSLister lists directories through os.ReadDir (lexicographic order).
type OSLister struct{}

func (OSLister) ListDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs, nil
}

// ParseChapters returns the chapters of a control tree. One subdirectory of
// ChaptersDir per chapter wins when any exist; otherwise chapters are read
// from the control document. No chapters is an empty list.
func ParseChapters(r *control.Resolver, lister DirLister) []Chapter {
	if lister == nil {
		lister = OSLister{}
	}
	dirs, err := lister.ListDirs(filepath.Join(r.Root, ChaptersDir))
	if err != nil {
		r.Log.Sugar().Warnf("could not list %s, falling back to the control document: %v", ChaptersDir, err)
	}
	if len(dirs) > 0 {
		return chaptersFromDirs(r, dirs)
	}
	return ParseChapterDocument(r.Document)
}

func chaptersFromDirs(r *control.Resolver, dirs []string) []Chapter {
	chapters := make([]Chapter, 0, len(dirs))
	for i, dir := range dirs {
		file := func(name string) string { return path.Join(ChaptersDir, dir, name) }
		label := func(name string) string { return fmt.Sprintf("chapter %s %s", dir, name) }

		chapters = append(chapters, Chapter{
			Title:       r.Resolve(control.Field{Name: label("title"), File: file("TITLE.txt"), Default: fmt.Sprintf("Feature %d", i+1)}),
			Description: r.Resolve(control.Field{Name: label("description"), File: file("DESCRIPTION.txt")}),
			Image:       r.Resolve(control.Field{Name: label("image"), File: file("IMAGE_NAME.txt")}),
			Styles: ChapterStyle{
				ImgWidth:   r.ResolveInt(control.Field{Name: label("width"), File: file("IMG_WIDTH.txt")}, DefaultChapterStyle.ImgWidth),
				ImgOffsetY: r.ResolveInt(control.Field{Name: label("offset"), File: file("IMG_OFFSET.txt")}, DefaultChapterStyle.ImgOffsetY),
				ImgScale:   r.ResolveInt(control.Field{Name: label("zoom"), File: file("IMG_ZOOM.txt")}, DefaultChapterStyle.ImgScale),
			},
		})
	}
	return chapters
}

func setInt(dst *int, def int) func(string) {
	return func(v string) {
		if n, ok := control.LeadingInt(v); ok {
			*dst = n
		} else {
			*dst = def
		}
	}
}

var chapterSpec = control.ItemSpec[Chapter]{
	Marker: "### Chapter",
	New: func(heading string, _ int) Chapter {
		title := heading
		if _, after, found := strings.Cut(heading, ": "); found {
			title = after
		}
		return Chapter{Title: strings.TrimSpace(title), Styles: DefaultChapterStyle}
	},
	Rules: []control.Rule[Chapter]{
		{Label: "**Description:**", Set: func(c *Chapter, v string) { c.Description = v }},
		{Label: "**Visual Hint:**", Set: func(c *Chapter, v string) { c.Image = v }},
		{Label: "**Img Width:**", Set: func(c *Chapter, v string) { setInt(&c.Styles.ImgWidth, DefaultChapterStyle.ImgWidth)(v) }},
		{Label: "**Img Offset Y:**", Set: func(c *Chapter, v string) { setInt(&c.Styles.ImgOffsetY, DefaultChapterStyle.ImgOffsetY)(v) }},
		{Label: "**Img Scale:**", Set: func(c *Chapter, v string) { setInt(&c.Styles.ImgScale, DefaultChapterStyle.ImgScale)(v) }},
	},
}

// ParseChapterDocument reads "### Chapter" blocks from a control document.
func ParseChapterDocument(document string) []Chapter {
	chapters := control.ScanItems(document, chapterSpec)
	if chapters == nil {
		return []Chapter{}
	}
	return chapters
}
