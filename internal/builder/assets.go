// internal/builder/assets.go
package builder

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"sitesync/internal/content"
	"sitesync/internal/util"
)

// allowedExts are the screenshot extensions copied to the site.
var allowedExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".gif": true, ".svg": true, ".mp4": true, ".webm": true,
}

// mediaExts are the extensions eligible as a last-resort card or hero pick.
var mediaExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".gif": true, ".mp4": true, ".webm": true,
}

// Assets copies a project's screenshots into the site and picks the
// designated card and hero media.
type Assets struct {
	// Src is the screenshots directory, Dst the project's public asset folder.
	Src, Dst string
	// URLBase is the public URL of Dst.
	URLBase   string
	Lowercase bool
	Log       *zap.Logger
}

// AssetResult describes one asset pass. Card and Hero are public URLs, ""
// when nothing could be selected.
type AssetResult struct {
	Files   []string
	Copied  int
	Skipped int
	Card    string
	Hero    string
	// Missing is set when the screenshots directory does not exist.
	Missing bool
}

// Scan lists the screenshots and selects card and hero media without
// copying anything.
func (a *Assets) Scan(overrides content.AssetOverrides) (AssetResult, error) {
	var res AssetResult
	names, err := a.list()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("list screenshots %s: %w", a.Src, err)
		}
		res.Missing = true
	}
	res.Files = names
	if card := pick(overrides.CardImage, names, "card"); card != "" {
		res.Card = a.URL(card)
	}
	if hero := pick(overrides.HeroImage, names, "hero"); hero != "" {
		res.Hero = a.URL(hero)
	}
	return res, nil
}

// Sync selects card and hero media like Scan, then copies every allowed
// screenshot whose destination is missing or older than the source. A
// missing screenshots directory is reported through Missing, not an error.
func (a *Assets) Sync(overrides content.AssetOverrides) (AssetResult, error) {
	res, err := a.Scan(overrides)
	if err != nil || res.Missing {
		return res, err
	}
	for _, name := range res.Files {
		src := filepath.Join(a.Src, name)
		dst := filepath.Join(a.Dst, a.destName(name))
		if util.IsFresh(src, dst) {
			res.Skipped++
			continue
		}
		if err := util.CopyFile(src, dst); err != nil {
			return res, fmt.Errorf("copy asset %s: %w", name, err)
		}
		a.log().Info("asset copied", zap.String("from", name), zap.String("to", dst))
		res.Copied++
	}
	return res, nil
}

// URL is the public URL of a screenshot or override reference.
func (a *Assets) URL(ref string) string {
	return path.Join(a.URLBase, a.destName(path.Base(filepath.ToSlash(ref))))
}

func (a *Assets) destName(name string) string {
	if a.Lowercase {
		return strings.ToLower(name)
	}
	return name
}

func (a *Assets) log() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// list returns the allowed regular files of Src in directory order.
func (a *Assets) list() ([]string, error) {
	entries, err := os.ReadDir(a.Src)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if allowedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// pick returns the override when set, else the first file named like
// prefix, else the first "cover" file, else the first media file.
func pick(override string, names []string, prefix string) string {
	if override != "" {
		return override
	}
	for _, p := range []string{prefix, "cover"} {
		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), p) {
				return n
			}
		}
	}
	for _, n := range names {
		if mediaExts[strings.ToLower(filepath.Ext(n))] {
			return n
		}
	}
	return ""
}
