// Package sigsite serves the ACM SIGMETRICS website: the static content
// records (site metadata, navigation, officers, committees, external links)
// and the frequent-authors ranking built from dblp.
//
// Deployments may replace any template via the ViewFuncs struct; sigsite
// owns the handlers, middleware and the SQLite dataset store.
package sigsite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sigmetrics/sigsite/content"
	"github.com/sigmetrics/sigsite/csrankings"
	"github.com/sigmetrics/sigsite/dblp"
	"github.com/sigmetrics/sigsite/internal/log"
	"github.com/sigmetrics/sigsite/metrics"
	"github.com/sigmetrics/sigsite/views"
)

// ViewFuncs holds the templ components the handlers render. DefaultViews
// returns the built-in set.
type ViewFuncs struct {
	Home            func(p views.Page) templ.Component
	NavPage         func(p views.Page, item content.NavItem, body, original string) templ.Component
	Officers        func(p views.Page) templ.Component
	Committees      func(p views.Page) templ.Component
	FrequentAuthors func(p views.Page, rows []views.AuthorRow, f views.AuthorFilter, d views.Dataset) templ.Component
	AdminLogin      func(p views.Page, showError bool) templ.Component
	AdminDashboard  func(p views.Page, d views.Dataset, status views.RefreshStatus, message string) templ.Component
	NotFound        func(p views.Page) templ.Component
	ServerError     func(p views.Page) templ.Component
}

// DefaultViews returns the templates shipped in package views.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:            views.Home,
		NavPage:         views.NavPage,
		Officers:        views.Officers,
		Committees:      views.Committees,
		FrequentAuthors: views.FrequentAuthors,
		AdminLogin:      views.AdminLogin,
		AdminDashboard:  views.AdminDashboard,
		NotFound:        views.NotFound,
		ServerError:     views.ServerError,
	}
}

// DatasetFetcher downloads a fresh dblp dataset. *dblp.Fetcher implements it.
type DatasetFetcher interface {
	Fetch(ctx context.Context, opts dblp.Options) (dblp.Dataset, error)
}

// LinkSource loads the CSRankings index. *csrankings.Loader implements it.
type LinkSource interface {
	Load(ctx context.Context) (csrankings.Index, error)
}

// App is the central sigsite application. It wires together the content
// bundle, store, cache, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content content.Bundle
	Store   *Store
	Cache   *AuthorCache
	Views   ViewFuncs

	logger       zerolog.Logger
	httpMetrics  *prometheus.Registry
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	preset       *content.Bundle
	fetcher      DatasetFetcher
	links        LinkSource
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	refreshMu sync.Mutex
	refresh   views.RefreshStatus
	refreshWG sync.WaitGroup
}

// New creates a sigsite App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:      cfg,
		Echo:        echo.New(),
		Views:       v,
		staticDir:   "public",
		now:         time.Now,
		httpMetrics: prometheus.NewRegistry(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init loads and validates the content, opens the store and registers the
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.AdminEnabled() && a.Config.SessionSecret == "" {
		return errors.New("sigsite: SessionSecret is required when AdminPassword is set")
	}
	a.logger = log.WithComponent("site")

	bundle, err := a.loadContent()
	if err != nil {
		return err
	}
	a.Content = bundle

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("sigsite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewAuthorCache(a.Store, a.Config.AuthorCacheTTL)
	if info, err := a.Store.DatasetInfo(); err == nil {
		metrics.SetDatasetAuthors(info.Authors)
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.loginLimiter = NewLoginLimiter(a.ctx, 5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.logger.Info().
		Str("edition", string(a.Content.Edition)).
		Int("nav", len(a.Content.Nav)).
		Bool("admin", a.Config.AdminEnabled()).
		Msg("site initialized")
	return nil
}

// loadContent resolves the bundle: a preset from WithContent or the
// configured edition, then the overlay file, then validation.
func (a *App) loadContent() (content.Bundle, error) {
	var b content.Bundle
	if a.preset != nil {
		b = a.preset.Clone()
	} else {
		loaded, err := content.Load(a.Config.Edition)
		if err != nil {
			return content.Bundle{}, fmt.Errorf("sigsite: %w", err)
		}
		b = loaded
	}

	if a.Config.ContentOverlay != "" {
		o, err := content.ReadOverlay(a.Config.ContentOverlay)
		if err != nil {
			return content.Bundle{}, fmt.Errorf("sigsite: %w", err)
		}
		b = b.Apply(o)
	}

	if err := content.Validate(b); err != nil {
		var n int
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			n = len(joined.Unwrap())
		}
		metrics.SetContentViolations(string(b.Edition), n)
		return content.Bundle{}, fmt.Errorf("sigsite: invalid content: %w", err)
	}
	metrics.SetContentViolations(string(b.Edition), 0)
	return b, nil
}

// dedicatedPages are served by their own handlers even when they also
// appear in the navigation.
var dedicatedPages = map[string]bool{
	"/":                 true,
	"/officers":         true,
	"/committees":       true,
	"/frequent-authors": true,
	"/admin":            true,
	"/api":              true,
	"/public":           true,
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Built-in stylesheet, then the deployment's own static assets.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", a.metricsHandler())

	e.GET("/", a.handleHome)
	e.GET("/officers/", a.handleOfficers)
	e.GET("/committees/", a.handleCommittees)
	e.GET("/frequent-authors/", a.handleFrequentAuthors)
	for _, item := range a.Content.Nav {
		href := strings.TrimSuffix(item.Href, "/")
		if !strings.HasPrefix(href, "/") || dedicatedPages[href] {
			continue
		}
		e.GET(href+"/", a.handleNavPage)
	}

	a.setupAPI(e.Group("/api"))

	if a.Config.AdminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/refresh/", a.handleAdminRefresh)
	}
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.logger.Info().Str("addr", a.Config.Addr).Str("url", a.Config.URL).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	return errors.Join(err, a.Close())
}

// Close cancels background work, waits for a running refresh and closes
// the store. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.refreshWG.Wait()
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		l := log.Base()
		l.Fatal().Str("key", key).Msg("sigsite: required environment variable is not set")
	}
	return v
}
