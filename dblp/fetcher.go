package dblp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sigmetrics/sigsite/internal/log"
	"github.com/sigmetrics/sigsite/metrics"
)

// Options control which years are fetched and which records are kept.
type Options struct {
	Start             int
	End               int
	Delay             time.Duration // pause between years
	MinPagesPre       int           // minimum length up to PageFilterEndYear
	PageFilterEndYear int           // last year the page rule applies to
	KeepNonConf       bool          // keep non-conference types (editorship is still dropped)
}

// DefaultOptions covers 1974 through the current year.
func DefaultOptions(now time.Time) Options {
	return Options{
		Start:             DefaultStartYear,
		End:               now.Year(),
		Delay:             600 * time.Millisecond,
		MinPagesPre:       5,
		PageFilterEndYear: 2016,
	}
}

// Fetcher builds a Dataset year by year.
type Fetcher struct {
	Client *Client
	Now    func() time.Time

	logger zerolog.Logger
}

// NewFetcher wraps a client.
func NewFetcher(c *Client) *Fetcher {
	return &Fetcher{Client: c, Now: time.Now, logger: log.WithComponent("dblp")}
}

// Fetch downloads every year in [opts.Start, opts.End]. Years whose TOC keys
// all fail or come back empty are counted in Notes.YearsWithNoHits; only
// context cancellation aborts the run.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) (Dataset, error) {
	if opts.End < opts.Start {
		return Dataset{}, fmt.Errorf("dblp: end year %d before start year %d", opts.End, opts.Start)
	}
	var limiter *rate.Limiter
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	notes := Notes{
		MaxHitsPerTOC:     MaxHitsPerTOC,
		PageFilterEndYear: opts.PageFilterEndYear,
		MinPagesPre:       opts.MinPagesPre,
	}
	var records []Record

	f.logger.Info().
		Int("start", opts.Start).
		Int("end", opts.End).
		Dur("delay", opts.Delay).
		Msg("downloading SIGMETRICS TOC records")

	for year := opts.Start; year <= opts.End; year++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return Dataset{}, err
			}
		}
		hits, key, err := f.yearHits(ctx, year)
		if err != nil {
			return Dataset{}, err
		}
		if len(hits) == 0 {
			notes.YearsWithNoHits++
			f.logger.Info().Int("year", year).Msg("no TOC key matched")
			continue
		}

		kept, skippedType, skippedPages := 0, 0, 0
		for _, h := range hits {
			rec, decision := filterHit(h, year, opts)
			metrics.RecordDecision(decision)
			switch decision {
			case "skipped_type":
				skippedType++
			case "skipped_pages":
				skippedPages++
			case "kept":
				records = append(records, rec)
				kept++
			}
		}
		notes.SkippedNonConfOrEditorship += skippedType
		notes.SkippedByPageLength += skippedPages
		f.logger.Info().
			Int("year", year).
			Str("bht", key).
			Int("hits", len(hits)).
			Int("kept", kept).
			Int("skipped_type", skippedType).
			Int("skipped_pages", skippedPages).
			Msg("year fetched")
	}

	meta, authors := Aggregate(records)
	metrics.SetDatasetAuthors(len(authors))
	return Dataset{
		FetchedAt:  f.now().UnixMilli(),
		StartYear:  opts.Start,
		EndYear:    opts.End,
		Records:    records,
		AuthorMeta: meta,
		Authors:    authors,
		Notes:      notes,
	}, nil
}

func (f *Fetcher) yearHits(ctx context.Context, year int) ([]hit, string, error) {
	for _, key := range CandidateKeys(year) {
		hits, err := f.Client.toc(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			f.logger.Debug().Err(err).Str("bht", key).Msg("TOC key failed")
			continue
		}
		if len(hits) > 0 {
			return hits, key, nil
		}
	}
	return nil, "", nil
}

// filterHit converts a hit and reports "kept", "skipped_type",
// "skipped_pages" or "skipped_untitled".
func filterHit(h hit, year int, opts Options) (Record, string) {
	info := h.Info
	title := strings.TrimSpace(string(info.Title))
	if title == "" {
		return Record{}, "skipped_untitled"
	}
	infoType := strings.TrimSpace(string(info.Type))
	if strings.Contains(strings.ToLower(infoType), "editorship") {
		return Record{}, "skipped_type"
	}
	if !opts.KeepNonConf && !IsConferenceLike(infoType) {
		return Record{}, "skipped_type"
	}

	y := year
	if v, err := strconv.Atoi(strings.TrimSpace(string(info.Year))); err == nil && v > 0 {
		y = v
	}
	pages := strings.TrimSpace(string(info.Pages))
	if !KeepByPageRule(y, pages, opts.PageFilterEndYear, opts.MinPagesPre) {
		return Record{}, "skipped_pages"
	}

	authors := []Author(info.Authors)
	ids := make([]string, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	return Record{
		Year:      y,
		Title:     title,
		Authors:   authors,
		AuthorIDs: ids,
		Venue:     string(info.Venue),
		Pages:     pages,
		DOI:       string(info.DOI),
		URL:       string(info.URL),
		Key:       string(info.Key),
		Type:      infoType,
	}, "kept"
}

func (f *Fetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
