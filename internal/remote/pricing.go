// Package remote fetches the shared pricing document. The fetch is
// best-effort: any failure yields the built-in fallback.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Currency describes how one currency is displayed and what each plan costs
// per billing period: plans[tier][period] = price string.
type Currency struct {
	Symbol   string                       `json:"symbol"`
	Position string                       `json:"position"`
	Plans    map[string]map[string]string `json:"plans"`
}

// Config is the remote pricing document.
type Config struct {
	Pricing      map[string]Currency `json:"pricing"`
	SupportEmail string              `json:"support_email,omitempty"`
	SupportPhone string              `json:"support_phone,omitempty"`
}

// Source says where a Config came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// maxBody bounds how much of the response is read.
const maxBody = 1 << 20

// Fetcher retrieves the pricing document over HTTP.
type Fetcher struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	Log     *zap.Logger
}

// NewFetcher returns a Fetcher with its own bounded-time client.
func NewFetcher(url string, timeout time.Duration, log *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		URL:     url,
		Timeout: timeout,
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

// Fetch returns the remote pricing document, or Fallback() on any failure:
// no URL configured, transport error, timeout, non-2xx status, a body that
// is not JSON, or a document without pricing.
func (f *Fetcher) Fetch(ctx context.Context) (Config, Source) {
	if f.URL == "" {
		f.Log.Warn("no pricing URL configured, using built-in pricing")
		return Fallback(), SourceFallback
	}
	cfg, err := f.fetch(ctx)
	if err != nil {
		f.Log.Warn("failed to fetch pricing, using built-in pricing", zap.String("url", f.URL), zap.Error(err))
		return Fallback(), SourceFallback
	}
	f.Log.Info("pricing fetched", zap.String("url", f.URL), zap.Int("currencies", len(cfg.Pricing)))
	return cfg, SourceRemote
}

func (f *Fetcher) fetch(ctx context.Context) (Config, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return Config{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Config{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Config{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Config{}, fmt.Errorf("read body: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(body, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode pricing document: %w", err)
	}
	if len(cfg.Pricing) == 0 {
		return Config{}, fmt.Errorf("pricing document has no currencies")
	}
	return cfg, nil
}

// Fallback is the built-in pricing used whenever the remote document is
// unavailable. Each call returns a fresh copy.
func Fallback() Config {
	plans := func(premium, crown [3]string) map[string]map[string]string {
		return map[string]map[string]string{
			"premium": {"monthly": premium[0], "yearly": premium[1], "lifetime": premium[2]},
			"crown":   {"monthly": crown[0], "yearly": crown[1], "lifetime": crown[2]},
		}
	}
	return Config{
		Pricing: map[string]Currency{
			"DZD": {Symbol: "DZD", Position: "suffix", Plans: plans([3]string{"2,000", "20,000", "60,000"}, [3]string{"4,000", "40,000", "100,000"})},
			"USD": {Symbol: "$", Position: "prefix", Plans: plans([3]string{"15", "150", "450"}, [3]string{"30", "300", "900"})},
			"EUR": {Symbol: "€", Position: "suffix", Plans: plans([3]string{"14", "140", "420"}, [3]string{"28", "280", "840"})},
		},
	}
}
