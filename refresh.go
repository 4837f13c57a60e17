package sigsite

import (
	"context"
	"fmt"

	"github.com/sigmetrics/sigsite/csrankings"
	"github.com/sigmetrics/sigsite/dblp"
	"github.com/sigmetrics/sigsite/metrics"
	"github.com/sigmetrics/sigsite/views"
)

// Refresh downloads a new dataset, stores it, rebuilds author links when a
// link source is configured, and drops the cached ranking.
func (a *App) Refresh(ctx context.Context) error {
	if a.fetcher == nil {
		return fmt.Errorf("sigsite: no dataset fetcher configured")
	}
	ds, err := a.fetcher.Fetch(ctx, dblp.DefaultOptions(a.now()))
	if err != nil {
		return fmt.Errorf("sigsite: fetch dataset: %w", err)
	}
	if err := a.Store.ReplaceDataset(ds); err != nil {
		return fmt.Errorf("sigsite: store dataset: %w", err)
	}
	metrics.SetDatasetAuthors(len(ds.Authors))

	if a.links != nil {
		idx, err := a.links.Load(ctx)
		if err != nil {
			// The dataset is already stored; stale links are better than none.
			a.logger.Warn().Err(err).Msg("author links not rebuilt")
		} else if err := a.Store.SaveAuthorLinks(csrankings.BuildLinks(ds.AuthorMeta, idx, a.now())); err != nil {
			return fmt.Errorf("sigsite: store author links: %w", err)
		}
	}
	a.Cache.Invalidate()
	a.logger.Info().
		Int("papers", len(ds.Records)).
		Int("authors", len(ds.Authors)).
		Msg("dataset refreshed")
	return nil
}

// StartRefresh runs Refresh in the background. It returns false when a
// refresh is already running. Close cancels and waits for it.
func (a *App) StartRefresh() bool {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()
	if a.refresh.Running {
		return false
	}
	a.refresh = views.RefreshStatus{Running: true, StartedAt: a.now()}
	a.refreshWG.Add(1)
	go func() {
		defer a.refreshWG.Done()
		err := a.Refresh(a.ctx)

		a.refreshMu.Lock()
		defer a.refreshMu.Unlock()
		a.refresh.Running = false
		a.refresh.FinishedAt = a.now()
		if err != nil {
			a.refresh.Err = err.Error()
			a.logger.Error().Err(err).Msg("refresh failed")
		}
	}()
	return true
}

// RefreshStatus reports the state of the last background refresh.
func (a *App) RefreshStatus() views.RefreshStatus {
	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()
	return a.refresh
}
