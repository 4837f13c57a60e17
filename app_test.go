package sigsite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sigmetrics/sigsite/content"
	"github.com/sigmetrics/sigsite/csrankings"
	"github.com/sigmetrics/sigsite/dblp"
)

type fakeFetcher struct {
	ds    dblp.Dataset
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, opts dblp.Options) (dblp.Dataset, error) {
	f.calls.Add(1)
	return f.ds, f.err
}

// blockingFetcher holds a refresh open until its context is cancelled.
type blockingFetcher struct{ started chan struct{} }

func (f *blockingFetcher) Fetch(ctx context.Context, opts dblp.Options) (dblp.Dataset, error) {
	close(f.started)
	<-ctx.Done()
	return dblp.Dataset{}, ctx.Err()
}

type fakeLinks struct {
	idx csrankings.Index
	err error
}

func (f fakeLinks) Load(ctx context.Context) (csrankings.Index, error) {
	return f.idx, f.err
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(t.TempDir(), "sigsite.db")
	}
	a := New(cfg, DefaultViews(), opts...)
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })
	return a
}

func adminConfig() SiteConfig {
	return SiteConfig{AdminPassword: "secret", SessionSecret: "session-secret-for-tests"}
}

// client carries cookies between requests against the Echo instance.
type client struct {
	t       *testing.T
	a       *App
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, a *App) *client {
	return &client{t: t, a: a, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.a.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c.do(req)
}

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func (c *client) csrf() string {
	c.t.Helper()
	rec := c.get("/admin/")
	require.Equal(c.t, http.StatusOK, rec.Code)
	m := csrfInput.FindStringSubmatch(rec.Body.String())
	require.Len(c.t, m, 2, "no csrf token in admin page")
	return m[1]
}

func (c *client) login(password string) *httptest.ResponseRecorder {
	return c.post("/admin/login/", url.Values{"_csrf": {c.csrf()}, "password": {password}})
}

func waitRefresh(t *testing.T, a *App) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !a.RefreshStatus().Running
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPages(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	c := newClient(t, a)

	tests := []struct {
		path     string
		code     int
		contains string
	}{
		{"/", http.StatusOK, "ACM SIGMETRICS"},
		{"/officers/", http.StatusOK, "Mor Harchol-Balter"},
		{"/committees/", http.StatusOK, "Board of Directors"},
		{"/awards/", http.StatusOK, "Awards"},
		{"/frequent-authors/", http.StatusOK, "Frequent Authors"},
		{"/nope/", http.StatusNotFound, "Page not found"},
		{"/public/site.css", http.StatusOK, "--accent"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := c.get(tt.path)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := newClient(t, a).get("/awards")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/awards/", rec.Header().Get("Location"))
}

func TestHomeJSONLD(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	body := newClient(t, a).get("/").Body.String()
	assert.Contains(t, body, `application/ld+json`)
	assert.Contains(t, body, `"@type":"Organization"`)
}

func TestSolarEditionLinksOriginals(t *testing.T) {
	a := newTestApp(t, SiteConfig{Edition: content.EditionSolarFull})
	rec := newClient(t, a).get("/awards/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://www.sigmetrics.org/awards.shtml")
}

func TestUnknownEdition(t *testing.T) {
	a := New(SiteConfig{Edition: "gopher", DatabasePath: filepath.Join(t.TempDir(), "x.db")}, DefaultViews())
	err := a.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrUnknownEdition)
}

func TestInvalidContentRejected(t *testing.T) {
	b := content.MustLoad(content.EditionWebsite)
	b.Site.Title = ""
	b.Links["broken"] = "not a url"
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "x.db")}, DefaultViews(), WithContent(b))
	err := a.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid content")
	assert.Contains(t, err.Error(), "site.title")
	assert.Contains(t, err.Error(), "links.broken")
}

func TestAdminRequiresSessionSecret(t *testing.T) {
	a := New(SiteConfig{AdminPassword: "x", DatabasePath: filepath.Join(t.TempDir(), "x.db")}, DefaultViews())
	assert.Error(t, a.Init())
}

func TestContentOverlay(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(`
links:
  pomacs: https://dl.acm.org/journal/pomacs
pages:
  /awards: |
    The **Kleinrock** award.
`), 0o644))

	a := newTestApp(t, SiteConfig{ContentOverlay: overlay})
	c := newClient(t, a)

	rec := c.get("/awards/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>Kleinrock</strong>")

	var links map[string]string
	require.NoError(t, json.Unmarshal(c.get("/api/links").Body.Bytes(), &links))
	assert.Equal(t, map[string]string{"pomacs": "https://dl.acm.org/journal/pomacs"}, links)
}

func TestContentOverlayUnknownSection(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("linkz:\n  a: https://example.org\n"), 0o644))
	a := New(SiteConfig{ContentOverlay: overlay, DatabasePath: filepath.Join(t.TempDir(), "x.db")}, DefaultViews())
	assert.Error(t, a.Init())
}

func TestAPIContent(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	c := newClient(t, a)

	var site content.Site
	rec := c.get("/api/site")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))
	assert.Equal(t, "ACM SIGMETRICS", site.Title)
	assert.Equal(t, "webmaster@sigmetrics.org", site.Contact.Email)

	var officers []content.Officer
	require.NoError(t, json.Unmarshal(c.get("/api/officers?role=SIG+Chair").Body.Bytes(), &officers))
	require.Len(t, officers, 1)
	assert.Equal(t, "Mor Harchol-Balter", officers[0].Name)

	rec = c.get("/api/officers?role=Mascot")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = c.get("/api/links/pomacs")
	assert.JSONEq(t, `{"name":"pomacs","url":"https://dl.acm.org/journal/pomacs"}`, rec.Body.String())

	rec = c.get("/api/links/acm")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"unknown link acm"}`, rec.Body.String())

	rec = c.get("/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	var nav []content.NavItem
	require.NoError(t, json.Unmarshal(c.get("/api/nav").Body.Bytes(), &nav))
	assert.Equal(t, a.Content.Nav, nav)

	var b content.Bundle
	require.NoError(t, json.Unmarshal(c.get("/api/content").Body.Bytes(), &b))
	assert.Equal(t, content.EditionWebsite, b.Edition)
}

func TestAPIAuthors(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	require.NoError(t, a.Store.ReplaceDataset(sampleDataset()))
	a.Cache.Invalidate()
	c := newClient(t, a)

	var authors []Author
	rec := c.get("/api/authors")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authors))
	assert.Equal(t, []string{"Mor Harchol-Balter"}, names(authors))

	require.NoError(t, json.Unmarshal(c.get("/api/authors?min=1&sort=name&limit=2").Body.Bytes(), &authors))
	assert.Equal(t, []string{"Anshul Gandhi", "Mor Harchol-Balter"}, names(authors))

	var one Author
	rec = c.get("/api/authors/pid:h/M")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, 3, one.Pubs)
	assert.Equal(t, 2020, one.FirstYear)

	rec = c.get("/api/authors/name:Ziv%20Scully")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.get("/api/authors/pid:0/0")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var info DatasetInfo
	require.NoError(t, json.Unmarshal(c.get("/api/dataset").Body.Bytes(), &info))
	assert.Equal(t, 3, info.Papers)
	assert.Equal(t, 2024, info.EndYear)
}

func TestFrequentAuthorsPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{MinAuthorPubs: 1})
	c := newClient(t, a)

	body := c.get("/frequent-authors/").Body.String()
	assert.Contains(t, body, "has not been fetched yet")

	require.NoError(t, a.Store.ReplaceDataset(sampleDataset()))
	a.Cache.Invalidate()
	body = c.get("/frequent-authors/?sort=last").Body.String()
	assert.Contains(t, body, "Ziv Scully")
	assert.Less(t, strings.Index(body, "Ziv Scully"), strings.Index(body, "Anshul Gandhi"))
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t, SiteConfig{URL: "https://www.sigmetrics.org"})
	require.NoError(t, a.Store.ReplaceDataset(sampleDataset()))
	a.Cache.Invalidate()
	c := newClient(t, a)

	rec := c.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	body := rec.Body.String()
	assert.Contains(t, body, "SRPT for multiserver systems")
	assert.Contains(t, body, "https://doi.org/10.1145/conf/sigmetrics/HS24")
	assert.Less(t, strings.Index(body, "SRPT"), strings.Index(body, "Autoscaling"))

	rec = c.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "<loc>https://www.sigmetrics.org/officers/</loc>")
	assert.Contains(t, body, "<loc>https://www.sigmetrics.org/awards/</loc>")
	assert.Contains(t, body, "<lastmod>2025-03-01</lastmod>")
	assert.Equal(t, 1, strings.Count(body, "<loc>https://www.sigmetrics.org/frequent-authors/</loc>"))

	rec = c.get("/robots.txt")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://www.sigmetrics.org/sitemap.xml")
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	c := newClient(t, a)
	c.get("/")
	rec := c.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests_total")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestAdminDisabled(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := newClient(t, a).get("/admin/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminLogin(t *testing.T) {
	a := newTestApp(t, adminConfig())
	c := newClient(t, a)

	rec := c.post("/admin/login/", url.Values{"password": {"secret"}})
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing csrf token")

	rec = c.login("wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password.")

	rec = c.login("secret")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))

	rec = c.get("/admin/")
	assert.Contains(t, rec.Body.String(), "No dataset stored.")
	assert.Contains(t, rec.Body.String(), `action="/admin/logout/"`)

	rec = c.post("/admin/logout/", url.Values{"_csrf": {c.csrfFromCookie()}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = c.get("/admin/")
	assert.Contains(t, rec.Body.String(), `action="/admin/login/"`)
}

func (c *client) csrfFromCookie() string {
	c.t.Helper()
	ck, ok := c.cookies["_csrf"]
	require.True(c.t, ok, "no csrf cookie")
	return ck.Value
}

func TestAdminLoginRateLimited(t *testing.T) {
	a := newTestApp(t, adminConfig())
	c := newClient(t, a)
	for range 5 {
		assert.Equal(t, http.StatusUnauthorized, c.login("wrong").Code)
	}
	rec := c.login("secret")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdminRefresh(t *testing.T) {
	f := &fakeFetcher{ds: sampleDataset()}
	links := fakeLinks{idx: csrankings.Index{
		csrankings.NormName("Ziv Scully"): {Name: "Ziv Scully", Homepage: "https://ziv.codes/"},
	}}
	a := newTestApp(t, adminConfig(), WithFetcher(f), WithLinkSource(links))
	c := newClient(t, a)

	rec := c.post("/admin/refresh/", url.Values{"_csrf": {c.csrf()}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, f.calls.Load(), "refresh needs a session")

	require.Equal(t, http.StatusSeeOther, c.login("secret").Code)
	rec = c.post("/admin/refresh/", url.Values{"_csrf": {c.csrfFromCookie()}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/?msg=Refresh+started.", rec.Header().Get("Location"))
	waitRefresh(t, a)

	assert.EqualValues(t, 1, f.calls.Load())
	status := a.RefreshStatus()
	assert.Empty(t, status.Err)
	assert.False(t, status.FinishedAt.IsZero())

	var ziv Author
	require.NoError(t, json.Unmarshal(c.get("/api/authors/name:Ziv%20Scully").Body.Bytes(), &ziv))
	assert.Equal(t, "https://ziv.codes/", ziv.Links.Homepage)
	var mor Author
	require.NoError(t, json.Unmarshal(c.get("/api/authors/pid:h/M").Body.Bytes(), &mor))
	assert.Equal(t, "https://dblp.org/pid/h/M.html", mor.Links.DBLP)

	body := c.get("/admin/?msg=Refresh+started.").Body.String()
	assert.Contains(t, body, "Refresh started.")
	assert.Contains(t, body, "Last refresh finished")
}

func TestAdminRefreshFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("dblp unavailable")}
	a := newTestApp(t, adminConfig(), WithFetcher(f))
	require.NoError(t, a.Store.ReplaceDataset(sampleDataset()))

	require.True(t, a.StartRefresh())
	waitRefresh(t, a)
	assert.Contains(t, a.RefreshStatus().Err, "dblp unavailable")

	// The previous dataset stays in place.
	info, err := a.Store.DatasetInfo()
	require.NoError(t, err)
	assert.Equal(t, 3, info.Papers)
}

func TestAdminRefreshWithoutFetcher(t *testing.T) {
	a := newTestApp(t, adminConfig())
	c := newClient(t, a)
	require.Equal(t, http.StatusSeeOther, c.login("secret").Code)
	rec := c.post("/admin/refresh/", url.Values{"_csrf": {c.csrfFromCookie()}})
	assert.Equal(t, "/admin/?msg=No+dataset+source+configured.", rec.Header().Get("Location"))
	assert.Error(t, a.Refresh(context.Background()))
}

func TestLinkSourceFailureKeepsDataset(t *testing.T) {
	f := &fakeFetcher{ds: sampleDataset()}
	a := newTestApp(t, SiteConfig{}, WithFetcher(f), WithLinkSource(fakeLinks{err: errors.New("github down")}))
	require.NoError(t, a.Refresh(context.Background()))
	info, err := a.Cache.Info()
	require.NoError(t, err)
	assert.Equal(t, 3, info.Authors)
}

func TestSecurityHeaders(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := newClient(t, a).get("/")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestCloseStopsBackgroundWork(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := &blockingFetcher{started: make(chan struct{})}
	cfg := adminConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "sigsite.db")
	a := New(cfg, DefaultViews(), WithFetcher(f))
	require.NoError(t, a.Init())

	require.True(t, a.StartRefresh())
	<-f.started
	assert.False(t, a.StartRefresh(), "one refresh at a time")

	require.NoError(t, a.Close())
	status := a.RefreshStatus()
	assert.False(t, status.Running)
	assert.Contains(t, status.Err, context.Canceled.Error())
}
