package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigmetrics/sigsite"
	"github.com/sigmetrics/sigsite/content"
	"github.com/sigmetrics/sigsite/csrankings"
	"github.com/sigmetrics/sigsite/dblp"
	"github.com/sigmetrics/sigsite/internal/log"
)

type serveFlags struct {
	cfg          sigsite.SiteConfig
	edition      string
	staticDir    string
	fetchTimeout time.Duration
}

// envDuration and envInt ignore malformed values; the flag default applies.
func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func newServeCommand() *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the website",
		Long: `Serve the website until interrupted.

ADMIN_PASSWORD and SESSION_SECRET are read from the environment only. When
ADMIN_PASSWORD is set, /admin/ can refresh the dataset from dblp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.edition, "edition", sigsite.EnvOr("SITE_EDITION", string(content.EditionWebsite)), "Content edition (website, solar-full)")
	fl.StringVar(&f.cfg.URL, "url", sigsite.EnvOr("SITE_URL", "http://localhost:3000"), "Canonical site URL")
	fl.StringVar(&f.cfg.Addr, "addr", sigsite.EnvOr("SITE_ADDR", ":3000"), "Listen address")
	fl.StringVar(&f.cfg.DatabasePath, "db", sigsite.EnvOr("DATABASE_PATH", "data/sigsite.db"), "SQLite database path")
	fl.StringVar(&f.cfg.ContentOverlay, "overlay", os.Getenv("CONTENT_OVERLAY"), "YAML content overlay file")
	fl.StringVar(&f.staticDir, "static", sigsite.EnvOr("STATIC_DIR", "public"), "Directory served under /public/")
	fl.BoolVar(&f.cfg.CookieSecure, "cookie-secure", envBool("COOKIE_SECURE"), "Mark cookies Secure (HTTPS deployments)")
	fl.DurationVar(&f.cfg.AuthorCacheTTL, "author-cache-ttl", envDuration("AUTHOR_CACHE_TTL", 5*time.Minute), "Frequent-authors cache TTL")
	fl.IntVar(&f.cfg.MinAuthorPubs, "min-pubs", envInt("MIN_AUTHOR_PUBS", 3), "Default minimum publications on /frequent-authors/")
	fl.DurationVar(&f.fetchTimeout, "fetch-timeout", 30*time.Second, "HTTP timeout for dblp and CSRankings requests")
	return cmd
}

func runServe(ctx context.Context, f *serveFlags) error {
	cfg := f.cfg
	cfg.Edition = content.Edition(f.edition)
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.AdminPassword != "" && cfg.SessionSecret == "" {
		cfg.SessionSecret = sigsite.MustEnv("SESSION_SECRET")
	}

	app := sigsite.New(cfg, sigsite.DefaultViews(),
		sigsite.WithStaticDir(f.staticDir),
		sigsite.WithFetcher(dblp.NewFetcher(dblp.NewClient(f.fetchTimeout))),
		sigsite.WithLinkSource(csrankings.NewLoader(f.fetchTimeout)),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		return errors.Join(err, app.Close())
	case <-ctx.Done():
	}

	logger := log.WithComponent("cli")
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
