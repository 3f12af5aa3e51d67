// Package aggregate computes playlist playtime summaries.
package aggregate

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/osa030/playtime/internal/app/filter"
	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/domain/item"
	"github.com/osa030/playtime/internal/domain/playlist"
	"github.com/osa030/playtime/internal/infra/config"
)

// Resolver picks the catalog serving a playlist URL.
type Resolver interface {
	Resolve(rawURL string) (catalog.Catalog, string, bool)
}

// Options tunes the aggregation.
type Options struct {
	PageSize             int
	MaxConcurrentBatches int
	Speeds               []float64
	BingeHoursPerDay     []float64
}

// OptionsFromConfig builds Options from the aggregate and presentation sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PageSize:             cfg.Aggregate.PageSize,
		MaxConcurrentBatches: cfg.Aggregate.MaxConcurrentBatches,
		Speeds:               cfg.Presentation.Speeds,
		BingeHoursPerDay:     cfg.Presentation.BingeHoursPerDay,
	}
}

// Aggregator turns a playlist URL into a Summary.
// It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	resolver Resolver
	filters  *filter.Chain
	opts     Options
}

// New creates a new aggregator. filters may be nil.
func New(resolver Resolver, filters *filter.Chain, opts Options) *Aggregator {
	if opts.PageSize <= 0 || opts.PageSize > catalog.MaxPageSize {
		opts.PageSize = catalog.MaxPageSize
	}
	if opts.MaxConcurrentBatches <= 0 {
		opts.MaxConcurrentBatches = 1
	}
	return &Aggregator{
		resolver: resolver,
		filters:  filters,
		opts:     opts,
	}
}

// Summarize fetches every item of the playlist behind rawURL with its
// duration and reduces them to a Summary.
//
// A metadata lookup failure is logged and ignored unless the playlist does
// not exist. Failures while listing items or fetching durations abort the
// whole request.
func (a *Aggregator) Summarize(ctx context.Context, rawURL string) (*Summary, error) {
	start := time.Now()

	c, id, ok := a.resolver.Resolve(rawURL)
	if !ok {
		return nil, catalog.Mark(errors.Newf("unrecognised playlist URL: %q", rawURL), catalog.KindInvalidInput)
	}

	meta, err := c.GetPlaylist(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, errors.Wrapf(err, "playlist %s", id)
		}
		zlog.Warn().Msgf("failed to get playlist metadata, continuing without it: provider=%s id=%s error=%v", c.Name(), id, err)
		meta = nil
	}

	ids, err := a.listItems(ctx, c, id)
	if err != nil {
		return nil, err
	}

	items, err := a.lookupDurations(ctx, c, ids)
	if err != nil {
		return nil, err
	}

	kept, excluded := a.filters.Apply(ctx, items)

	p := &playlist.Playlist{
		ID:       id,
		Provider: c.Name(),
		Metadata: meta,
		Items:    kept,
	}
	summary := newSummary(p, excluded, a.opts)

	zlog.Info().Msgf("summarized playlist: provider=%s id=%s items=%d excluded=%d total=%s elapsed=%s",
		summary.Provider, summary.PlaylistID, summary.ItemCount, summary.ExcludedCount, summary.FormattedTotal, time.Since(start))
	return summary, nil
}

// listItems follows continuation tokens until the catalog returns none.
func (a *Aggregator) listItems(ctx context.Context, c catalog.Catalog, playlistID string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	token := ""
	for page := 1; ; page++ {
		result, err := c.ListItems(ctx, playlistID, token, a.opts.PageSize)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list items (page %d)", page)
		}
		ids = append(ids, result.ItemIDs...)
		zlog.Debug().Msgf("listed items: id=%s page=%d count=%d", playlistID, page, len(result.ItemIDs))

		if result.NextPageToken == "" {
			return ids, nil
		}
		if seen[result.NextPageToken] {
			return nil, errors.Newf("catalog repeated page token %q (page %d)", result.NextPageToken, page)
		}
		seen[result.NextPageToken] = true
		token = result.NextPageToken
	}
}

// lookupDurations fetches durations in batches of PageSize.
// Batches run concurrently; the first failure cancels the rest.
// IDs missing from a response count as zero seconds.
func (a *Aggregator) lookupDurations(ctx context.Context, c catalog.Catalog, ids []string) ([]item.Item, error) {
	batches := partition(ids, a.opts.PageSize)
	results := make([]map[string]int64, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxConcurrentBatches)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			durations, err := c.GetDurations(gctx, batch)
			if err != nil {
				return errors.Wrapf(err, "failed to get durations (batch %d of %d)", i+1, len(batches))
			}
			results[i] = durations
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]item.Item, 0, len(ids))
	for i, batch := range batches {
		for _, id := range batch {
			seconds, ok := results[i][id]
			if !ok {
				zlog.Debug().Msgf("no duration returned, counting as zero: id=%s", id)
			}
			items = append(items, item.Item{ID: id, Seconds: seconds})
		}
	}
	return items, nil
}

// partition splits ids into consecutive slices of at most size elements.
func partition(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
