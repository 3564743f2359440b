// cmd/sitesync/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitesync/internal/config"
	"sitesync/internal/preview"
	"sitesync/internal/project"
	"sitesync/internal/registry"
	"sitesync/internal/scaffold"
	"sitesync/internal/server"
	"sitesync/internal/syncer"
)

func newSyncCmd(app *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Generate pages, copy screenshots, update the registry and publish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), app, cmd.OutOrStdout())
		},
	}
}

// runSync fails only when the project descriptor cannot be loaded. Every
// other problem is reported as a warning.
func runSync(ctx context.Context, app *appConfig, out io.Writer) error {
	res, err := syncer.New(app.cfg, app.log).Run(ctx)
	if err != nil {
		if errors.Is(err, project.ErrDescriptorMissing) {
			return &exitError{code: 1, err: fmt.Errorf("cannot sync without a project: %w", err)}
		}
		return err
	}
	printSummary(out, res)
	return nil
}

func newInspectCmd(app *appConfig) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show everything a sync would produce without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := syncer.New(app.cfg, app.log).Inspect(cmd.Context())
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				data, err := inspectYAML(res)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case "markdown", "":
				text, err := renderMarkdown(inspectMarkdown(res))
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), text)
				return err
			default:
				return fmt.Errorf("unknown format %q (want markdown or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or yaml")
	return cmd
}

func newCheckCmd(app *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report template placeholders that are not part of the vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := syncer.New(app.cfg, app.log).Inspect(cmd.Context())
			if err != nil {
				return err
			}
			unknown := res.UnknownPlaceholders()
			out := cmd.OutOrStdout()
			if len(unknown) == 0 {
				fmt.Fprintln(out, okStyle.Render("✓ all placeholders are known"))
				return nil
			}
			outputs := make([]string, 0, len(unknown))
			for name := range unknown {
				outputs = append(outputs, name)
			}
			sort.Strings(outputs)
			for _, name := range outputs {
				fmt.Fprintln(out, warnStyle.Render("! "+name))
				for _, token := range unknown[name] {
					fmt.Fprintln(out, mutedStyle.Render("    {{ "+token+" }}"))
				}
			}
			return &exitError{code: 2, err: fmt.Errorf("%d template(s) use unknown placeholders", len(unknown))}
		},
	}
}

func newServeCmd(app *appConfig) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the control document with live reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := syncer.New(app.cfg, app.log)
			build := func() error { return buildPreview(ctx, s, app.cfg) }
			return server.Run(ctx, server.Options{
				Addr:       addr,
				Watch:      watchList(app, s.ScreenshotsDir()),
				PreviewDir: app.cfg.PreviewDir,
				AssetsRoot: app.cfg.AssetsRoot(),
				Log:        app.log,
			}, build)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:1313", "address to listen on")
	return cmd
}

// buildPreview resolves the project without writing site outputs and
// renders the preview page.
func buildPreview(ctx context.Context, s *syncer.Syncer, cfg config.Config) error {
	res, err := s.Inspect(ctx)
	if err != nil {
		return err
	}
	_, err = preview.Build(cfg.PreviewDir, res.Document, preview.Data{
		Project:     res.Project,
		Content:     res.Content,
		AssetBase:   cfg.AssetURLBase(res.Project.Slug),
		Files:       res.Assets.Files,
		Lowercase:   cfg.LowercaseAssets,
		Card:        res.Assets.Card,
		Hero:        res.Assets.Hero,
		Pricing:     string(res.PricingSource),
		Warnings:    res.Warnings,
		RunID:       res.RunID,
		GeneratedAt: s.Now(),
	})
	return err
}

// watchList names what serve watches: the control tree, the screenshots
// directory in effect and the config file.
func watchList(app *appConfig, screenshots string) []string {
	paths := []string{app.cfg.ControlRoot, screenshots}
	if app.configPath != "" {
		paths = append(paths, app.configPath)
	} else {
		paths = append(paths, config.DefaultFile)
	}
	return paths
}

func newNewCmd(app *appConfig) *cobra.Command {
	var p scaffold.Project
	cmd := &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a control tree for a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := scaffold.CreateControlTree(args[0], p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range created {
				fmt.Fprintln(out, okStyle.Render("+ ")+path)
			}
			app.log.Debug("control tree created", zap.String("dir", args[0]), zap.Int("files", len(created)))
			fmt.Fprintln(out)
			fmt.Fprintln(out, titleStyle.Render("Next steps"))
			fmt.Fprintf(out, "  cd %s\n", args[0])
			fmt.Fprintln(out, "  edit CONTROL_WEBSITE/WEBSITE.md and drop screenshots into screenshots/")
			fmt.Fprintln(out, "  sitesync serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&p.Name, "name", "", "project name (default: directory name)")
	cmd.Flags().StringVar(&p.Slug, "slug", "", "project slug (default: derived from name)")
	cmd.Flags().StringVar(&p.Brand, "brand", "", "brand name (default: project name)")

	cmd.AddCommand(&cobra.Command{
		Use:   "chapter <title>",
		Short: "Add the next numbered chapter folder to the control tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scaffold.CreateChapter(app.cfg.ControlRoot, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("+ ")+path)
			return nil
		},
	})
	return cmd
}

func newRegistryCmd(app *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Maintain the site's project registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean [field...]",
		Short: "Remove legacy fields from every registry record",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(app.cfg.RegistryPath())
			n, err := reg.Clean(args...)
			if err != nil {
				return err
			}
			app.log.Info("registry cleaned", zap.String("path", reg.Path), zap.Int("records", n))
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("✓ %d record(s) cleaned", n)))
			return nil
		},
	})
	return cmd
}
