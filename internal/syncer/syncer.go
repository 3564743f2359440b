// Package syncer runs the content synchronization pipeline for one project:
// descriptor, control document, pricing, assets, content, pages, site
// configuration, registry and publishing, in that order.
//
// Only a missing or unreadable descriptor stops a run. Every other failure
// is logged, recorded as a warning on the Result and replaced by a default.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitesync/internal/builder"
	"sitesync/internal/compose"
	"sitesync/internal/config"
	"sitesync/internal/content"
	"sitesync/internal/control"
	"sitesync/internal/project"
	"sitesync/internal/publish"
	"sitesync/internal/registry"
	"sitesync/internal/remote"
)

// NoDescription is the registry description of a project without subtitle.
const NoDescription = "No description"

// PricingSource fetches the remote pricing document.
type PricingSource interface {
	Fetch(ctx context.Context) (remote.Config, remote.Source)
}

// Syncer holds the collaborators of a run. All fields are set by New and
// may be replaced in tests.
type Syncer struct {
	Config    config.Config
	Log       *zap.Logger
	Pricing   PricingSource
	Publisher publish.Publisher
	Lister    content.DirLister
	Now       func() time.Time
	NewID     func() string
}

// New wires a Syncer from configuration.
func New(cfg config.Config, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	var pub publish.Publisher = publish.Nop{}
	if cfg.Publish.Enabled {
		pub = publish.NewGit(cfg.Publish.Push, log)
	}
	return &Syncer{
		Config:    cfg,
		Log:       log,
		Pricing:   remote.NewFetcher(cfg.Pricing.URL, cfg.Pricing.Timeout, log),
		Publisher: pub,
		Lister:    content.OSLister{},
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Result describes one run.
type Result struct {
	RunID         string
	StartedAt     time.Time
	Project       project.Descriptor
	Document      string
	Content       content.Content
	Remote        remote.Config
	PricingSource remote.Source
	Assets        builder.AssetResult
	Bag           compose.Bag
	Pages         []builder.Page
	SiteConfig    builder.Page
	Written       []string
	Skipped       []string
	Entry         registry.Entry
	Published     bool
	Warnings      []string
	Duration      time.Duration
}

type run struct {
	*Syncer
	log   *zap.Logger
	res   *Result
	write bool
}

func (r *run) warn(msg string, err error) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	r.log.Warn(msg)
	r.res.Warnings = append(r.res.Warnings, msg)
}

// Run performs a full synchronization and writes every output.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	return s.execute(ctx, true)
}

// Inspect resolves everything a run would produce without writing, copying
// or publishing anything.
func (s *Syncer) Inspect(ctx context.Context) (*Result, error) {
	return s.execute(ctx, false)
}

func (s *Syncer) execute(ctx context.Context, write bool) (*Result, error) {
	start := s.Now()
	res := &Result{RunID: s.NewID(), StartedAt: start}
	r := &run{
		Syncer: s,
		log:    s.Log.With(zap.String("run_id", res.RunID)),
		res:    res,
		write:  write,
	}
	cfg := s.Config

	desc, err := project.LoadDescriptor(cfg.DescriptorPath())
	if err != nil {
		r.log.Error("cannot load project descriptor", zap.Error(err))
		return res, err
	}
	res.Project = desc
	r.log.Info("syncing project", zap.String("name", desc.Name), zap.String("slug", desc.Slug), zap.Bool("write", write))

	doc, err := control.LoadDocument(cfg.DocumentPath(), r.log)
	if err != nil {
		r.warn("control document unreadable, continuing without it", err)
	}
	res.Document = doc
	resolver := control.NewResolver(cfg.ControlRoot, doc, control.ParseMode(cfg.ExtractMode), r.log)

	res.Remote, res.PricingSource = s.Pricing.Fetch(ctx)
	if res.PricingSource == remote.SourceFallback {
		r.warn("using built-in pricing", nil)
	}

	r.assets(resolver)
	res.Content = content.Load(resolver, s.Lister)

	bag, err := builder.Bag(builder.Input{
		Project:   desc,
		Content:   res.Content,
		Remote:    res.Remote,
		Support:   cfg.Support,
		Firebase:  cfg.Firebase,
		AssetBase: cfg.AssetURLBase(desc.Slug),
		HeroImage: res.Assets.Hero,
		Now:       start,
	})
	if err != nil {
		return res, fmt.Errorf("build data bag: %w", err)
	}
	res.Bag = bag

	r.pages()
	r.registry()
	r.publish(ctx)

	res.Duration = s.Now().Sub(start)
	r.log.Info("sync finished",
		zap.Int("written", len(res.Written)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Bool("published", res.Published),
		zap.Duration("took", res.Duration))
	return res, nil
}

// ScreenshotsDir is the directory a run copies assets from: the project's
// screenshots folder unless the control tree names another one.
func (s *Syncer) ScreenshotsDir() string {
	cfg := s.Config
	doc, err := control.LoadDocument(cfg.DocumentPath(), s.Log)
	if err != nil {
		s.Log.Warn("control document unreadable, using default screenshots path", zap.Error(err))
	}
	resolver := control.NewResolver(cfg.ControlRoot, doc, control.ParseMode(cfg.ExtractMode), s.Log)
	return cfg.ResolveProjectPath(content.ResolveAssetOverrides(resolver).ScreenshotsPath)
}

func (r *run) assets(resolver *control.Resolver) {
	cfg := r.Config
	slug := r.res.Project.Slug
	overrides := content.ResolveAssetOverrides(resolver)
	a := &builder.Assets{
		Src:       cfg.ResolveProjectPath(overrides.ScreenshotsPath),
		Dst:       cfg.AssetsDir(slug),
		URLBase:   cfg.AssetURLBase(slug),
		Lowercase: cfg.LowercaseAssets,
		Log:       r.log,
	}
	var (
		res builder.AssetResult
		err error
	)
	if r.write {
		res, err = a.Sync(overrides)
	} else {
		res, err = a.Scan(overrides)
	}
	if err != nil {
		r.warn("asset sync incomplete", err)
	}
	if res.Missing {
		r.warn(fmt.Sprintf("screenshots directory not found at %s", a.Src), nil)
	}
	r.res.Assets = res
}

func (r *run) pages() {
	cfg := r.Config
	slug := r.res.Project.Slug
	w := builder.NewWriter(cfg.ControlRoot, r.log)

	pages, skipped, err := w.RenderPages(r.res.Bag)
	if err != nil {
		r.warn("page templates unreadable", err)
	}
	r.res.Pages = pages
	r.res.Skipped = skipped
	for _, s := range skipped {
		// Already logged by the writer.
		r.res.Warnings = append(r.res.Warnings, fmt.Sprintf("optional template for %s not found, page skipped", s))
	}

	site, err := w.RenderSiteConfig(r.res.Bag)
	if err != nil {
		r.warn("site config template unreadable", err)
	}
	r.res.SiteConfig = site

	if !r.write {
		return
	}
	if err == nil {
		path := cfg.SiteConfigPath()
		if err := w.WritePage(path, site); err != nil {
			r.warn("site config not written", err)
		} else {
			r.res.Written = append(r.res.Written, path)
		}
	}
	written, err := w.WriteAll(cfg.PagesDir(slug), pages)
	if err != nil {
		r.warn("pages not fully written", err)
	}
	r.res.Written = append(r.res.Written, written...)
}

func (r *run) registry() {
	p := r.res.Project
	description := r.res.Content.Hero.Subtitle
	if description == "" {
		description = NoDescription
	}
	image := r.res.Assets.Card
	if image == "" {
		image = r.res.Assets.Hero
	}
	r.res.Entry = registry.Entry{
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    p.Category,
		Brand:       p.Brand,
		Status:      p.Status,
		Description: description,
		Image:       image,
	}
	if !r.write {
		return
	}
	reg := registry.New(r.Config.RegistryPath())
	reg.Now = r.Now
	if err := reg.Upsert(r.res.Entry); err != nil {
		r.warn("registry not updated", err)
		return
	}
	r.res.Written = append(r.res.Written, reg.Path)
	r.log.Info("registry updated", zap.String("path", reg.Path), zap.String("image", image))
}

func (r *run) publish(ctx context.Context) {
	if !r.write || !r.Config.Publish.Enabled {
		return
	}
	msg := compose.Compose(r.Config.Publish.Message, r.res.Bag)
	r.res.Published = r.Publisher.Publish(ctx, r.Config.SiteRoot, msg)
	if !r.res.Published {
		r.log.Debug("publish skipped or failed", zap.String("dir", r.Config.SiteRoot))
	}
}

// UnknownPlaceholders lists, per output, the placeholders of its template
// that are not part of the vocabulary. They are left untouched in output.
func (res *Result) UnknownPlaceholders() map[string][]string {
	unknown := map[string][]string{}
	pages := append([]builder.Page{}, res.Pages...)
	if res.SiteConfig.Template != "" {
		pages = append(pages, res.SiteConfig)
	}
	for _, p := range pages {
		if names := compose.Unknown(p.Template, compose.Vocabulary); len(names) > 0 {
			unknown[p.Output] = names
		}
	}
	return unknown
}
