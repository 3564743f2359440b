// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "sitesync.yaml"

// Config is the explicit run configuration. It is built once per run and
// passed into every component; nothing below cmd/ reads globals.
type Config struct {
	ControlRoot     string         `mapstructure:"control_root" yaml:"control_root"`
	ProjectRoot     string         `mapstructure:"project_root" yaml:"project_root"`
	SiteRoot        string         `mapstructure:"site_root" yaml:"site_root"`
	Descriptor      string         `mapstructure:"descriptor" yaml:"descriptor"`
	Document        string         `mapstructure:"document" yaml:"document"`
	ExtractMode     string         `mapstructure:"extract_mode" yaml:"extract_mode"`
	LowercaseAssets bool           `mapstructure:"lowercase_assets" yaml:"lowercase_assets"`
	PreviewDir      string         `mapstructure:"preview_dir" yaml:"preview_dir"`
	Outputs         OutputsConfig  `mapstructure:"outputs" yaml:"outputs"`
	Pricing         PricingConfig  `mapstructure:"pricing" yaml:"pricing"`
	Support         SupportConfig  `mapstructure:"support" yaml:"support"`
	Publish         PublishConfig  `mapstructure:"publish" yaml:"publish"`
	Firebase        FirebaseConfig `mapstructure:"firebase" yaml:"firebase"`
	Log             LogConfig      `mapstructure:"log" yaml:"log"`
}

// OutputsConfig holds output locations relative to SiteRoot.
type OutputsConfig struct {
	Pages      string `mapstructure:"pages" yaml:"pages"`
	Assets     string `mapstructure:"assets" yaml:"assets"`
	Registry   string `mapstructure:"registry" yaml:"registry"`
	SiteConfig string `mapstructure:"site_config" yaml:"site_config"`
}

type PricingConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type SupportConfig struct {
	Email string `mapstructure:"email" yaml:"email"`
	Phone string `mapstructure:"phone" yaml:"phone"`
}

type PublishConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Push    bool   `mapstructure:"push" yaml:"push"`
	Message string `mapstructure:"message" yaml:"message"`
}

// FirebaseConfig feeds the site-wide configuration file. Values usually come
// from SITESYNC_FIREBASE_* environment variables rather than the YAML file.
type FirebaseConfig struct {
	APIKey            string `mapstructure:"api_key" yaml:"api_key"`
	AuthDomain        string `mapstructure:"auth_domain" yaml:"auth_domain"`
	ProjectID         string `mapstructure:"project_id" yaml:"project_id"`
	StorageBucket     string `mapstructure:"storage_bucket" yaml:"storage_bucket"`
	MessagingSenderID string `mapstructure:"messaging_sender_id" yaml:"messaging_sender_id"`
	AppID             string `mapstructure:"app_id" yaml:"app_id"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration in layers: defaults, then the YAML file at
// path (optional), then SITESYNC_* environment variables. A file that exists
// but cannot be parsed is reported through the returned warning while the
// remaining layers still apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("SITESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var warn error
	if path == "" {
		path = DefaultFile
	}
	if err := loadFile(v, path); err != nil {
		warn = err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("could not decode configuration: %w", err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, warn
}

// Default returns the configuration with every default applied and no file
// or environment layer.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.resolvePaths(".")
	return cfg
}

func loadFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	defer f.Close()
	if err := v.ReadConfig(f); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("control_root", "CONTROL_WEBSITE")
	v.SetDefault("project_root", ".")
	v.SetDefault("site_root", "../website")
	v.SetDefault("descriptor", "product.config.json")
	v.SetDefault("document", "WEBSITE.md")
	v.SetDefault("extract_mode", "single")
	v.SetDefault("lowercase_assets", true)
	v.SetDefault("preview_dir", ".sitesync/preview")

	v.SetDefault("outputs.pages", "app/projects")
	v.SetDefault("outputs.assets", "public/assets/projects")
	v.SetDefault("outputs.registry", "data/projects.json")
	v.SetDefault("outputs.site_config", "lib/firebase.ts")

	v.SetDefault("pricing.url", "")
	v.SetDefault("pricing.timeout", "10s")

	v.SetDefault("support.email", "")
	v.SetDefault("support.phone", "")

	v.SetDefault("publish.enabled", true)
	v.SetDefault("publish.push", true)
	v.SetDefault("publish.message", "feat: sync project {{ SLUG }}")

	// Registered so AutomaticEnv can see SITESYNC_FIREBASE_* on Unmarshal.
	for _, key := range []string{"api_key", "auth_domain", "project_id", "storage_bucket", "messaging_sender_id", "app_id"} {
		v.SetDefault("firebase."+key, "")
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// resolvePaths anchors relative roots at the directory holding the config
// file, so a run behaves the same from any working directory.
func (c *Config) resolvePaths(base string) {
	anchor := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.ProjectRoot = anchor(c.ProjectRoot)
	c.SiteRoot = anchor(c.SiteRoot)
	c.PreviewDir = anchor(c.PreviewDir)
	if !filepath.IsAbs(c.ControlRoot) {
		c.ControlRoot = filepath.Join(c.ProjectRoot, c.ControlRoot)
	}
}

// DescriptorPath is the project descriptor inside the control root.
func (c Config) DescriptorPath() string { return filepath.Join(c.ControlRoot, c.Descriptor) }

// DocumentPath is the free-form control document inside the control root.
func (c Config) DocumentPath() string { return filepath.Join(c.ControlRoot, c.Document) }

func (c Config) RegistryPath() string { return filepath.Join(c.SiteRoot, c.Outputs.Registry) }

func (c Config) SiteConfigPath() string { return filepath.Join(c.SiteRoot, c.Outputs.SiteConfig) }

// PagesDir is the directory receiving one project's generated pages.
func (c Config) PagesDir(slug string) string { return filepath.Join(c.SiteRoot, c.Outputs.Pages, slug) }

// AssetsDir is the directory receiving one project's copied screenshots.
func (c Config) AssetsDir(slug string) string { return filepath.Join(c.SiteRoot, c.Outputs.Assets, slug) }

// AssetsRoot is the public root of all copied assets, served by the preview server.
func (c Config) AssetsRoot() string {
	return filepath.Dir(filepath.Join(c.SiteRoot, c.Outputs.Assets))
}

// AssetURLBase is the public URL under which one project's assets are
// served: the assets output path with its leading "public" segment removed.
func (c Config) AssetURLBase(slug string) string {
	rel := filepath.ToSlash(c.Outputs.Assets)
	rel = strings.TrimPrefix(strings.TrimPrefix(rel, "./"), "public/")
	return path.Join("/", rel, slug)
}

// ResolveProjectPath anchors a path taken from control values (the
// screenshots directory) at the project root unless it is absolute.
func (c Config) ResolveProjectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}
