package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/sigmetrics/sigsite"
	"github.com/sigmetrics/sigsite/dblp"
)

type fetchFlags struct {
	opts     dblp.Options
	out      string
	db       string
	baseURL  string
	timeout  time.Duration
	retries  int
	reqDelay time.Duration
}

func newFetchCommand() *cobra.Command {
	f := &fetchFlags{opts: dblp.DefaultOptions(time.Now())}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download SIGMETRICS papers from dblp and compute author statistics",
		Long: `Download every SIGMETRICS proceedings TOC from dblp, filter the papers
and aggregate per-author statistics.

The dataset is written as JSON to --out. With --db it also replaces the
dataset served by the site.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.opts.Start, "start", f.opts.Start, "First year")
	fl.IntVar(&f.opts.End, "end", f.opts.End, "Last year")
	fl.DurationVar(&f.opts.Delay, "delay", f.opts.Delay, "Pause between years")
	fl.IntVar(&f.opts.MinPagesPre, "min-pages", f.opts.MinPagesPre, "Minimum paper length up to --page-filter-end")
	fl.IntVar(&f.opts.PageFilterEndYear, "page-filter-end", f.opts.PageFilterEndYear, "Last year the page-length rule applies to")
	fl.BoolVar(&f.opts.KeepNonConf, "keep-nonconf", false, "Keep non-conference entry types (editorships are always dropped)")
	fl.StringVar(&f.out, "out", "data/sigmetrics_authors.json", "Output JSON file")
	fl.StringVar(&f.db, "db", "", "Also store the dataset in this SQLite database")
	fl.StringVar(&f.baseURL, "dblp-url", "", "dblp publication search endpoint (default: dblp.org)")
	fl.DurationVar(&f.timeout, "timeout", 30*time.Second, "HTTP request timeout")
	fl.IntVar(&f.retries, "retries", 6, "Retries per request on 429 and network errors")
	fl.DurationVar(&f.reqDelay, "base-delay", time.Second, "Base backoff delay")
	return cmd
}

func runFetch(ctx context.Context, w io.Writer, f *fetchFlags) error {
	client := dblp.NewClient(f.timeout)
	if f.baseURL != "" {
		client.BaseURL = f.baseURL
	}
	client.Retries = f.retries
	client.BaseDelay = f.reqDelay

	ds, err := dblp.NewFetcher(client).Fetch(ctx, f.opts)
	if err != nil {
		return err
	}
	if err := writeJSON(f.out, ds); err != nil {
		return err
	}
	if f.db != "" {
		store, err := sigsite.NewStore(f.db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.ReplaceDataset(ds); err != nil {
			return fmt.Errorf("store dataset: %w", err)
		}
	}
	fmt.Fprintf(w, "Wrote %s (%d papers, %d authors, %d–%d)\n", f.out, len(ds.Records), len(ds.Authors), ds.StartYear, ds.EndYear)
	return nil
}

// writeJSON replaces path atomically so a reader never sees a partial file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(path, append(data, '\n'), 0o644)
}

func readDataset(path string) (dblp.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dblp.Dataset{}, err
	}
	var ds dblp.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return dblp.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return ds, nil
}
