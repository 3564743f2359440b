// cmd/sitesync/ui.go
package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"sitesync/internal/syncer"
)

var (
	okColor    = lipgloss.Color("#10B981")
	warnColor  = lipgloss.Color("#F59E0B")
	errorColor = lipgloss.Color("#EF4444")
	mutedColor = lipgloss.Color("#6B7280")
	brandColor = lipgloss.Color("#7C3AED")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brandColor)

	okStyle    = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// printSummary writes the end-of-run status lines.
func printSummary(out io.Writer, res *syncer.Result) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", res.Project.Name, res.Project.Slug)))
	for _, path := range res.Written {
		fmt.Fprintln(out, okStyle.Render("  ✓ ")+path)
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  assets: %d copied, %d up to date", res.Assets.Copied, res.Assets.Skipped)))
	for _, w := range res.Warnings {
		fmt.Fprintln(out, warnStyle.Render("  ! "+w))
	}

	status := "not published"
	if res.Published {
		status = "published"
	}
	fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✓ synced in %s, %s", res.Duration.Round(time.Millisecond), status)))
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("could not create markdown renderer: %w", err)
	}
	return r.Render(md)
}
