package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playtime/internal/domain/item"
	"github.com/osa030/playtime/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// NewChainFromConfig creates a chain holding every enabled filter, in name
// order. Unknown filter names and invalid settings are errors.
func NewChainFromConfig(cfg *config.Config) (*Chain, error) {
	names := make([]string, 0, len(cfg.Filters))
	for name := range cfg.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	chain := NewChain()
	for _, name := range names {
		if !cfg.IsFilterEnabled(name) {
			continue
		}

		factory, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}

		f := factory()
		if err := f.ValidateConfig(cfg.Filters[name].Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("enabled filter: %s", name)
	}
	return chain, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the item.
func (c *Chain) Execute(ctx context.Context, it item.Item) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, it)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply splits items into those every filter accepts and the count of
// rejected ones. Order is preserved. A nil chain accepts everything.
func (c *Chain) Apply(ctx context.Context, items []item.Item) ([]item.Item, int) {
	if c == nil || len(c.filters) == 0 {
		return items, 0
	}

	kept := make([]item.Item, 0, len(items))
	excluded := 0
	for _, it := range items {
		result := c.Execute(ctx, it)
		if !result.Accepted {
			zlog.Debug().Msgf("item excluded: id=%s code=%s", it.ID, result.Code)
			excluded++
			continue
		}
		kept = append(kept, it)
	}
	return kept, excluded
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
