package aggregate

import (
	"time"

	"github.com/osa030/playtime/internal/domain/playlist"
	"github.com/osa030/playtime/internal/domain/timefmt"
)

// Summary is the aggregate result returned to clients.
type Summary struct {
	Provider         string  `json:"provider"`
	PlaylistID       string  `json:"playlistId"`
	ItemCount        int     `json:"itemCount"`
	TotalSeconds     int64   `json:"totalSeconds"`
	AverageSeconds   float64 `json:"averageSeconds"`
	FormattedTotal   string  `json:"formattedTotal"`
	FormattedAverage string  `json:"formattedAverage"`
	ExcludedCount    int     `json:"excludedCount"`

	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	ChannelTitle string     `json:"channelTitle,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`

	Phrase    string        `json:"phrase"`
	Speeds    []SpeedFigure `json:"speeds"`
	BingeDays []BingeFigure `json:"bingeDays"`
}

// SpeedFigure is the playtime at an increased playback speed.
type SpeedFigure struct {
	Speed     float64 `json:"speed"`
	Label     string  `json:"label"`
	Seconds   int64   `json:"seconds"`
	Formatted string  `json:"formatted"`
}

// BingeFigure is the number of days needed at a daily viewing budget.
type BingeFigure struct {
	HoursPerDay float64 `json:"hoursPerDay"`
	Days        int64   `json:"days"`
}

func newSummary(p *playlist.Playlist, excluded int, opts Options) *Summary {
	stats := p.Stats()
	s := &Summary{
		Provider:         p.Provider,
		PlaylistID:       p.ID,
		ItemCount:        stats.Count,
		TotalSeconds:     stats.TotalSeconds,
		AverageSeconds:   stats.AverageSeconds,
		FormattedTotal:   timefmt.Clock(stats.TotalSeconds),
		FormattedAverage: timefmt.ClockFloat(stats.AverageSeconds),
		ExcludedCount:    excluded,
		Phrase:           timefmt.Phrase(stats.TotalSeconds),
		Speeds:           make([]SpeedFigure, 0, len(opts.Speeds)),
		BingeDays:        make([]BingeFigure, 0, len(opts.BingeHoursPerDay)),
	}

	if m := p.Metadata; m != nil {
		s.Title = m.Title
		s.Description = m.Description
		s.ChannelTitle = m.ChannelTitle
		s.PublishedAt = m.PublishedAt
	}

	for _, speed := range opts.Speeds {
		seconds := timefmt.AtSpeed(stats.TotalSeconds, speed)
		s.Speeds = append(s.Speeds, SpeedFigure{
			Speed:     speed,
			Label:     timefmt.SpeedLabel(speed),
			Seconds:   seconds,
			Formatted: timefmt.Clock(seconds),
		})
	}
	for _, hours := range opts.BingeHoursPerDay {
		s.BingeDays = append(s.BingeDays, BingeFigure{
			HoursPerDay: hours,
			Days:        timefmt.BingeDays(stats.TotalSeconds, hours),
		})
	}
	return s
}
