package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigmetrics/sigsite"
	"github.com/sigmetrics/sigsite/csrankings"
)

type linksFlags struct {
	dataset string
	out     string
	db      string
	baseURL string
	timeout time.Duration
}

func newLinksCommand() *cobra.Command {
	f := &linksFlags{}
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Match dataset authors against CSRankings for homepage and Scholar links",
		Long: `Load the CSRankings author CSVs and match every author of a fetched
dataset by normalized name. dblp person pages come from the author's pid.

The links document is written as JSON to --out. With --db the links are
also stored for the site.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinks(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.dataset, "dataset", "data/sigmetrics_authors.json", "Dataset written by fetch")
	fl.StringVar(&f.out, "out", "data/author_links.json", "Output JSON file")
	fl.StringVar(&f.db, "db", "", "Also store the links in this SQLite database")
	fl.StringVar(&f.baseURL, "csrankings-url", csrankings.DefaultBaseURL, "Base URL serving csrankings-*.csv")
	fl.DurationVar(&f.timeout, "timeout", 30*time.Second, "HTTP request timeout")
	return cmd
}

func runLinks(ctx context.Context, w io.Writer, f *linksFlags) error {
	ds, err := readDataset(f.dataset)
	if err != nil {
		return err
	}
	loader := csrankings.NewLoader(f.timeout)
	loader.BaseURL = f.baseURL
	idx, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	links := csrankings.BuildLinks(ds.AuthorMeta, idx, time.Now())
	if err := writeJSON(f.out, links); err != nil {
		return err
	}
	if f.db != "" {
		store, err := sigsite.NewStore(f.db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveAuthorLinks(links); err != nil {
			return fmt.Errorf("store links: %w", err)
		}
	}
	s := links.Stats
	fmt.Fprintf(w, "Wrote %s (%d authors, %d with pid, %d matched in CSRankings)\n", f.out, s.SigmetricsAuthors, s.AuthorsWithPID, s.AuthorsMatched)
	return nil
}
