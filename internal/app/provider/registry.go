// Package provider resolves which media catalog serves a playlist URL.
package provider

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/infra/config"
	"github.com/osa030/playtime/internal/infra/spotify"
	"github.com/osa030/playtime/internal/infra/youtube"
)

// Registry tries catalogs in order until one recognises the URL.
type Registry struct {
	catalogs []catalog.Catalog
}

// NewRegistry creates a registry over the given catalogs.
func NewRegistry(catalogs ...catalog.Catalog) *Registry {
	return &Registry{
		catalogs: catalogs,
	}
}

// NewRegistryFromConfig creates the catalogs listed in cfg.Providers, in order.
func NewRegistryFromConfig(ctx context.Context, cfg *config.Config) (*Registry, error) {
	if len(cfg.Providers) == 0 {
		return nil, errors.New("no providers configured")
	}

	catalogs := make([]catalog.Catalog, 0, len(cfg.Providers))
	for i, name := range cfg.Providers {
		var c catalog.Catalog
		var err error
		switch name {
		case youtube.Name:
			c, err = youtube.New(ctx, youtube.Config{APIKey: cfg.YouTube.APIKey})

		case spotify.Name:
			c, err = spotify.New(ctx, spotify.Config{
				ClientID:     cfg.Spotify.ClientID,
				ClientSecret: cfg.Spotify.ClientSecret,
				Market:       cfg.Spotify.Market,
			})

		default:
			return nil, errors.Newf("unsupported provider: %s (provider index %d)", name, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, name %s)", i, name)
		}

		catalogs = append(catalogs, c)
		zlog.Info().Msgf("registered provider: index=%d name=%s", i+1, name)
	}

	return NewRegistry(catalogs...), nil
}

// Resolve returns the first catalog that extracts an identifier from rawURL.
func (r *Registry) Resolve(rawURL string) (catalog.Catalog, string, bool) {
	for _, c := range r.catalogs {
		if id, ok := c.ExtractID(rawURL); ok {
			zlog.Debug().Msgf("resolved provider: name=%s id=%s", c.Name(), id)
			return c, id, true
		}
	}
	return nil, "", false
}

// Names returns the registered catalog names in resolution order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		names = append(names, c.Name())
	}
	return names
}
