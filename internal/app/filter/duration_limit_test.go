package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/playtime/internal/domain/item"
)

func TestDurationLimitFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		minMinutes   float64
		maxMinutes   float64
		seconds      int64
		shouldReject bool
		description  string
	}{
		{
			name:         "Within limits",
			minMinutes:   2.0,
			maxMinutes:   5.0,
			seconds:      180,
			shouldReject: false,
			description:  "Should accept item within min/max limits",
		},
		{
			name:         "Too short",
			minMinutes:   3.0,
			maxMinutes:   0,
			seconds:      120,
			shouldReject: true,
			description:  "Should reject item shorter than min",
		},
		{
			name:         "Too long",
			minMinutes:   1.0,
			maxMinutes:   5.0,
			seconds:      360,
			shouldReject: true,
			description:  "Should reject item longer than max",
		},
		{
			name:         "Exact min",
			minMinutes:   3.0,
			maxMinutes:   0,
			seconds:      180,
			shouldReject: false,
			description:  "Should accept item exactly at min",
		},
		{
			name:         "Exact max",
			minMinutes:   1.0,
			maxMinutes:   5.0,
			seconds:      300,
			shouldReject: false,
			description:  "Should accept item exactly at max",
		},
		{
			name:         "Shorts excluded",
			minMinutes:   1.0,
			maxMinutes:   0,
			seconds:      45,
			shouldReject: true,
			description:  "Should reject sub-minute item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			f.config = &DurationLimitConfig{
				MinMinutes: tt.minMinutes,
				MaxMinutes: tt.maxMinutes,
			}

			result := f.Check(context.Background(), item.Item{ID: "v", Seconds: tt.seconds})

			if tt.shouldReject {
				assert.False(t, result.Accepted, tt.description)
				assert.Equal(t, "duration_limit_exceeded", result.Code)
			} else {
				assert.True(t, result.Accepted, tt.description)
			}
		})
	}
}

func TestDurationLimitFilter_UnconfiguredAcceptsAll(t *testing.T) {
	f := NewDurationLimitFilter()
	assert.True(t, f.Check(context.Background(), item.Item{ID: "v"}).Accepted)
}

func TestDurationLimitFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{
			name: "Valid config",
			settings: map[string]any{
				"min_minutes": 2.5,
				"max_minutes": 5.0,
			},
		},
		{
			name: "Valid integers",
			settings: map[string]any{
				"min_minutes": 2,
				"max_minutes": 5,
			},
		},
		{
			name: "Valid strings",
			settings: map[string]any{
				"min_minutes": "1",
			},
		},
		{
			name:     "Empty settings",
			settings: map[string]any{},
		},
		{
			name: "Invalid min > max",
			settings: map[string]any{
				"min_minutes": 10.0,
				"max_minutes": 5.0,
			},
			wantErr: true,
		},
		{
			name: "Invalid negative min",
			settings: map[string]any{
				"min_minutes": -1.0,
			},
			wantErr: true,
		},
		{
			name: "Invalid negative max",
			settings: map[string]any{
				"max_minutes": -3,
			},
			wantErr: true,
		},
		{
			name: "Invalid type",
			settings: map[string]any{
				"min_minutes": "abc",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			err := f.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, f.config)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, f.config)
			}
		})
	}
}
