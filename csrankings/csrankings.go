// Package csrankings enriches dblp authors with homepage and Google Scholar
// links taken from the CSRankings faculty CSV files.
package csrankings

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sigmetrics/sigsite/internal/log"
	"github.com/sigmetrics/sigsite/metrics"
)

// DefaultBaseURL serves csrankings-a.csv through csrankings-z.csv.
const DefaultBaseURL = "https://raw.githubusercontent.com/emeryberger/CSRankings/gh-pages"

const noScholarPage = "NOSCHOLARPAGE"

var (
	reDBLPSuffix = regexp.MustCompile(`\s+\d{4}$`)
	rePunct      = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	reSpace      = regexp.MustCompile(`\s+`)
	folder       = cases.Fold()
)

// NormName folds a person name for matching: accents stripped, case folded,
// a trailing dblp disambiguation number removed, punctuation collapsed.
func NormName(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	s = strings.TrimSpace(folder.String(stripped))
	s = reDBLPSuffix.ReplaceAllString(s, "")
	s = rePunct.ReplaceAllString(s, " ")
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

// Entry is one merged CSRankings person.
type Entry struct {
	Name      string
	Homepage  string
	ScholarID string
}

// Index maps normalized names to entries.
type Index map[string]Entry

// Lookup returns the first name that matches an entry.
func (idx Index) Lookup(names ...string) (Entry, bool) {
	for _, n := range names {
		if key := NormName(n); key != "" {
			if e, ok := idx[key]; ok {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// Merge adds rows to the index. The first homepage seen wins; a scholar id
// replaces an empty or NOSCHOLARPAGE one.
func (idx Index) Merge(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name := field(row, "name")
		key := NormName(name)
		if key == "" {
			continue
		}
		homepage, scholar := field(row, "homepage"), field(row, "scholarid")
		cur, ok := idx[key]
		if !ok {
			idx[key] = Entry{Name: name, Homepage: homepage, ScholarID: scholar}
			continue
		}
		if cur.Homepage == "" && homepage != "" {
			cur.Homepage = homepage
		}
		if (cur.ScholarID == "" || cur.ScholarID == noScholarPage) && scholar != "" {
			cur.ScholarID = scholar
		}
		idx[key] = cur
	}
}

// Loader downloads the per-letter CSV files.
type Loader struct {
	BaseURL     string
	HTTP        *http.Client
	Concurrency int

	logger zerolog.Logger
}

// NewLoader returns a Loader for the public CSRankings repository.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		BaseURL:     DefaultBaseURL,
		HTTP:        &http.Client{Timeout: timeout},
		Concurrency: 4,
		logger:      log.WithComponent("csrankings"),
	}
}

// Files lists the CSV file names in merge order.
func Files() []string {
	files := make([]string, 0, 26)
	for c := 'a'; c <= 'z'; c++ {
		files = append(files, fmt.Sprintf("csrankings-%c.csv", c))
	}
	return files
}

// Load fetches every file and merges them in alphabetical order. Files that
// fail to download are skipped.
func (l *Loader) Load(ctx context.Context) (Index, error) {
	files := Files()
	bodies := make([][]byte, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.Concurrency, 1))
	for i, fn := range files {
		g.Go(func() error {
			body, err := l.fetch(gctx, l.BaseURL+"/"+fn)
			if err != nil {
				metrics.RecordFetch("csrankings", false)
				l.logger.Warn().Err(err).Str("file", fn).Msg("skipping file")
				return nil
			}
			metrics.RecordFetch("csrankings", true)
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := make(Index)
	for i, body := range bodies {
		if body == nil {
			continue
		}
		if err := idx.Merge(bytes.NewReader(body)); err != nil {
			l.logger.Warn().Err(err).Str("file", files[i]).Msg("malformed csv")
		}
	}
	l.logger.Info().Int("entries", len(idx)).Msg("CSRankings index loaded")
	return idx, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "sigsite/author-links (offline builder)")
	client := l.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("csrankings: GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
