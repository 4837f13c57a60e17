package sigsite

import (
	"time"

	"github.com/sigmetrics/sigsite/content"
)

// SiteConfig holds all configuration for a sigsite deployment.
type SiteConfig struct {
	Edition        content.Edition // Content edition (default "website")
	URL            string          // Canonical URL (default "http://localhost:3000")
	Addr           string          // Listen address (default ":3000")
	DatabasePath   string          // SQLite path (default "data/sigsite.db")
	ContentOverlay string          // Optional YAML file replacing content sections

	AdminPassword string // Enables /admin/ when set
	SessionSecret string // Required when AdminPassword is set
	CookieSecure  bool   // Set true for HTTPS

	AuthorCacheTTL time.Duration // Author ranking cache TTL (default 5min)
	MinAuthorPubs  int           // Default ?min on /frequent-authors/ (default 3)
	LogLevel       string        // zerolog level name (default "info")
}

func (c *SiteConfig) setDefaults() {
	if c.Edition == "" {
		c.Edition = content.EditionWebsite
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/sigsite.db"
	}
	if c.AuthorCacheTTL == 0 {
		c.AuthorCacheTTL = 5 * time.Minute
	}
	if c.MinAuthorPubs == 0 {
		c.MinAuthorPubs = 3
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// AdminEnabled reports whether the admin area is served.
func (c SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != ""
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for deployment-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContent serves b instead of loading the configured edition. The
// bundle is still validated at startup.
func WithContent(b content.Bundle) Option {
	return func(a *App) {
		c := b.Clone()
		a.preset = &c
	}
}

// WithFetcher sets the source used by the admin refresh.
func WithFetcher(f DatasetFetcher) Option {
	return func(a *App) {
		a.fetcher = f
	}
}

// WithLinkSource sets the CSRankings source used after a refresh to rebuild
// author links. Without one, links are left as they are.
func WithLinkSource(s LinkSource) Option {
	return func(a *App) {
		a.links = s
	}
}
