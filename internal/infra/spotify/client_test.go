package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"

	"github.com/osa030/playtime/internal/domain/catalog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newClient(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")), "JP")
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{
			name:   "Spotify URI format",
			input:  "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			wantID: "37i9dQZF1DXcBWIGoYBM5M",
			wantOK: true,
		},
		{
			name:   "Spotify URL format",
			input:  "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			wantID: "37i9dQZF1DXcBWIGoYBM5M",
			wantOK: true,
		},
		{
			name:   "Spotify URL with query params",
			input:  "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123",
			wantID: "37i9dQZF1DXcBWIGoYBM5M",
			wantOK: true,
		},
		{
			name:   "localized URL",
			input:  "https://open.spotify.com/intl-ja/playlist/abc123/",
			wantID: "abc123",
			wantOK: true,
		},
		{
			name:   "plain ID is not claimed",
			input:  "37i9dQZF1DXcBWIGoYBM5M",
			wantOK: false,
		},
		{
			name:   "YouTube URL is not claimed",
			input:  "https://www.youtube.com/playlist?list=PL123",
			wantOK: false,
		},
		{
			name:   "invalid characters",
			input:  "spotify:playlist:abc!def",
			wantOK: false,
		},
		{
			name:   "Empty string",
			input:  "",
			wantOK: false,
		},
	}

	c := &Client{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := c.ExtractID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestGetPlaylist(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/playlists/p1"), r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"p1","name":"Road Trip","description":"Long drive","owner":{"id":"u1","display_name":"Someone"}}`)
	})

	meta, err := client.GetPlaylist(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", meta.Title)
	assert.Equal(t, "Long drive", meta.Description)
	assert.Equal(t, "Someone", meta.ChannelTitle)
	assert.Nil(t, meta.PublishedAt)
}

func TestListItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/playlists/p1/tracks"), r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("offset"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"limit": 50,
			"offset": 50,
			"total": 103,
			"next": "https://api.spotify.com/v1/playlists/p1/tracks?offset=100&limit=50",
			"items": [
				{"track": {"type": "track", "id": "t1", "duration_ms": 180000}},
				{"track": {"type": "track", "id": "", "duration_ms": 1000}},
				{"track": {"type": "track", "id": "t2", "duration_ms": 240000}}
			]
		}`)
	})

	page, err := client.ListItems(context.Background(), "p1", "50", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, page.ItemIDs)
	assert.Equal(t, "53", page.NextPageToken)
}

func TestListItems_LastPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"limit": 50, "offset": 0, "total": 1, "next": "", "items": [
			{"track": {"type": "track", "id": "t1", "duration_ms": 1000}}
		]}`)
	})

	page, err := client.ListItems(context.Background(), "p1", "", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, page.ItemIDs)
	assert.Empty(t, page.NextPageToken)
}

func TestListItems_InvalidToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.ListItems(context.Background(), "p1", "not-a-number", 50)
	assert.Error(t, err)
}

func TestGetDurations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/tracks"), r.URL.Path)
		assert.Equal(t, "t1,t2,missing", r.URL.Query().Get("ids"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tracks": [
			{"id": "t1", "duration_ms": 180500},
			{"id": "t2", "duration_ms": 240000},
			null
		]}`)
	})

	durations, err := client.GetDurations(context.Background(), []string{"t1", "t2", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"t1": 180, "t2": 240}, durations)
}

func TestGetPlaylist_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected catalog.Kind
	}{
		{name: "not found", status: 404, expected: catalog.KindNotFound},
		{name: "forbidden", status: 403, expected: catalog.KindForbidden},
		{name: "bad token", status: 401, expected: catalog.KindInvalidCredential},
		{name: "rate limited", status: 429, expected: catalog.KindRateLimited},
		{name: "server error", status: 502, expected: catalog.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, `{"error": {"status": %d, "message": "upstream failure"}}`, tt.status)
			})

			_, err := client.GetPlaylist(context.Background(), "p1")
			require.Error(t, err)
			assert.Equal(t, tt.expected, catalog.KindOf(err))
		})
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{ClientID: "id"})
	assert.Error(t, err)

	c, err := New(context.Background(), Config{ClientID: "id", ClientSecret: "secret", Market: "US"})
	require.NoError(t, err)
	assert.Equal(t, "US", c.market)
	assert.Equal(t, Name, c.Name())
}
