package filter

import (
	"context"

	"github.com/osa030/playtime/internal/domain/item"
)

// ZeroDurationFilter excludes items the catalog returned no duration for
// (deleted or private videos, upcoming premieres, live streams).
// Without it such items count toward the average as zero seconds.
type ZeroDurationFilter struct{}

func (f *ZeroDurationFilter) Name() string {
	return "zero_duration_filter"
}

func (f *ZeroDurationFilter) Description() string {
	return "Excludes items without a known duration from count and average"
}

func (f *ZeroDurationFilter) ReturnCodes() []string {
	return []string{"zero_duration"}
}

func (f *ZeroDurationFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

func (f *ZeroDurationFilter) Check(ctx context.Context, it item.Item) Result {
	if !it.HasDuration() {
		return Reject("zero_duration")
	}
	return Accept()
}

func init() {
	Register("zero_duration_filter", func() Filter {
		return &ZeroDurationFilter{}
	})
}
