// cmd/sitesync/report.go
package main

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"sitesync/internal/content"
	"sitesync/internal/syncer"
)

// report is the yaml shape of an inspect run.
type report struct {
	RunID    string              `yaml:"run_id"`
	Project  reportProject       `yaml:"project"`
	Pricing  string              `yaml:"pricing_source"`
	Hero     content.Hero        `yaml:"hero"`
	Chapters []reportChapter     `yaml:"chapters"`
	Plans    []content.Plan      `yaml:"plans"`
	Styles   content.Styles      `yaml:"styles"`
	Tech     []string            `yaml:"tech_stack,omitempty"`
	Assets   reportAssets        `yaml:"assets"`
	Pages    map[string]string   `yaml:"pages"`
	Registry map[string]any      `yaml:"registry"`
	Unknown  map[string][]string `yaml:"unknown_placeholders,omitempty"`
	Warnings []string            `yaml:"warnings,omitempty"`
}

type reportProject struct {
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug"`
	Category string `yaml:"category,omitempty"`
	Brand    string `yaml:"brand,omitempty"`
	Status   string `yaml:"status,omitempty"`
}

type reportChapter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Image       string `yaml:"image,omitempty"`
}

type reportAssets struct {
	Files []string `yaml:"files"`
	Card  string   `yaml:"card,omitempty"`
	Hero  string   `yaml:"hero,omitempty"`
}

func newReport(res *syncer.Result) report {
	rep := report{
		RunID: res.RunID,
		Project: reportProject{
			Name:     res.Project.Name,
			Slug:     res.Project.Slug,
			Category: res.Project.Category,
			Brand:    res.Project.Brand,
			Status:   res.Project.Status,
		},
		Pricing:  string(res.PricingSource),
		Hero:     res.Content.Hero,
		Plans:    res.Content.Plans,
		Styles:   res.Content.Styles,
		Tech:     res.Content.TechStack,
		Assets:   reportAssets{Files: res.Assets.Files, Card: res.Assets.Card, Hero: res.Assets.Hero},
		Pages:    map[string]string{},
		Registry: res.Entry.Record(res.StartedAt),
		Unknown:  res.UnknownPlaceholders(),
		Warnings: res.Warnings,
	}
	if len(rep.Unknown) == 0 {
		rep.Unknown = nil
	}
	for _, c := range res.Content.Chapters {
		rep.Chapters = append(rep.Chapters, reportChapter{Title: c.Title, Description: c.Description, Image: c.Image})
	}
	for _, p := range res.Pages {
		rep.Pages[p.Output] = p.Source
	}
	if res.SiteConfig.Output != "" {
		rep.Pages[res.SiteConfig.Output] = res.SiteConfig.Source
	}
	return rep
}

func inspectYAML(res *syncer.Result) ([]byte, error) {
	data, err := yaml.Marshal(newReport(res))
	if err != nil {
		return nil, fmt.Errorf("could not encode report: %w", err)
	}
	return data, nil
}

// inspectMarkdown renders an inspect run as a markdown report.
func inspectMarkdown(res *syncer.Result) string {
	rep := newReport(res)
	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	line("# %s", rep.Project.Name)
	line("")
	line("| | |")
	line("|---|---|")
	line("| Slug | `%s` |", rep.Project.Slug)
	line("| Category | %s |", dash(rep.Project.Category))
	line("| Brand | %s |", dash(rep.Project.Brand))
	line("| Status | %s |", dash(rep.Project.Status))
	line("| Pricing | %s |", rep.Pricing)
	line("| Run | `%s` |", rep.RunID)
	line("")

	line("## Hero")
	line("")
	line("**%s**", dash(rep.Hero.Title))
	line("")
	line("%s", dash(rep.Hero.Subtitle))
	line("")
	line("- Primary: %s → `%s`", rep.Hero.PrimaryLabel, rep.Hero.PrimaryLink)
	line("- Secondary: %s → `%s`", rep.Hero.SecondaryLabel, rep.Hero.SecondaryLink)
	line("")

	line("## Chapters (%d)", len(rep.Chapters))
	line("")
	for i, c := range rep.Chapters {
		line("%d. **%s** %s", i+1, c.Title, c.Description)
	}
	line("")

	line("## Plans (%d)", len(rep.Plans))
	line("")
	for _, p := range rep.Plans {
		line("- **%s** %s (%d features)", p.Name, p.Subtitle, len(p.Features))
	}
	line("")

	line("## Assets")
	line("")
	line("- Files: %d", len(rep.Assets.Files))
	line("- Card: %s", dash(rep.Assets.Card))
	line("- Hero: %s", dash(rep.Assets.Hero))
	line("")

	line("## Outputs")
	line("")
	outputs := make([]string, 0, len(rep.Pages))
	for o := range rep.Pages {
		outputs = append(outputs, o)
	}
	sort.Strings(outputs)
	for _, o := range outputs {
		line("- `%s` from %s", o, rep.Pages[o])
	}
	line("")

	if len(rep.Unknown) > 0 {
		line("## Unknown placeholders")
		line("")
		for _, o := range outputs {
			for _, name := range rep.Unknown[o] {
				line("- `%s`: `%s`", o, name)
			}
		}
		line("")
	}
	if len(rep.Warnings) > 0 {
		line("## Warnings")
		line("")
		for _, w := range rep.Warnings {
			line("- %s", w)
		}
	}
	return b.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
