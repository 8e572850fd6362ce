package duck_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	duck "github.com/iTrooz/duckduck"
	"github.com/iTrooz/duckduck/api"
	"github.com/iTrooz/duckduck/cache"
	"github.com/iTrooz/duckduck/config"
	"github.com/iTrooz/duckduck/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture_config creates a config pointing at the fake upstream
func fixture_config(upstream *testutil.Upstream) *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = upstream.BaseURL()
	cfg.API.UploadURL = upstream.UploadURL()
	cfg.Logging.Level = "debug"
	return cfg
}

func fixture_client(t *testing.T, upstream *testutil.Upstream) *duck.Client {
	t.Helper()

	client, err := duck.New(fixture_config(upstream))
	require.NoError(t, err)
	return client
}

func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

func TestNew(t *testing.T) {
	client, err := duck.New(nil)
	require.NoError(t, err)
	assert.Equal(t, "Quack", client.String())
	assert.Empty(t, client.Cache())
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Timeout = "soon"

	_, err := duck.New(cfg)
	require.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	configFile := filepath.Join(t.TempDir(), "duck.yaml")
	content := "api:\n  base_url: \"" + upstream.BaseURL() + "\"\nhttp:\n  timeout: \"5s\"\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	client, err := duck.NewFromFile(configFile)
	require.NoError(t, err)

	_, err = client.FetchJpg(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/v2/3.jpg"}, upstream.Requests())
}

func TestWithOptions(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	store := cache.NewMemory()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := duck.New(fixture_config(upstream),
		duck.WithStore(store),
		duck.WithLogger(logger),
		duck.WithHTTPClient(&http.Client{}),
	)
	require.NoError(t, err)

	_, err = client.FetchGif(context.Background(), 1)
	require.NoError(t, err)

	entries, ok := store.Get(cache.Gifs)
	require.True(t, ok)
	assert.Len(t, entries, 1)
}

func TestFetchRandomLink(t *testing.T) {
	tests := []struct {
		name         string
		opts         duck.RandomOptions
		link         string
		wantRequest  string
		wantCategory cache.Category
	}{
		{
			name:         "gif",
			opts:         duck.RandomOptions{Gif: true},
			link:         "https://random-d.uk/api/v2/3.gif",
			wantRequest:  "/api/v2/random?type=gif",
			wantCategory: cache.Gifs,
		},
		{
			name:         "jpg",
			opts:         duck.RandomOptions{Jpg: true},
			link:         "https://random-d.uk/api/v2/3.jpg",
			wantRequest:  "/api/v2/random?type=jpg",
			wantCategory: cache.Jpgs,
		},
		{
			name:         "gif wins over jpg",
			opts:         duck.RandomOptions{Gif: true, Jpg: true},
			link:         "https://random-d.uk/api/v2/3.gif",
			wantRequest:  "/api/v2/random?type=gif",
			wantCategory: cache.Gifs,
		},
		{
			name:         "unqualified gif link",
			link:         "https://random-d.uk/api/v2/12.gif",
			wantRequest:  "/api/v2/random",
			wantCategory: cache.Gifs,
		},
		{
			name:         "unqualified jpg link",
			link:         "https://random-d.uk/api/v2/12.jpg",
			wantRequest:  "/api/v2/random",
			wantCategory: cache.Jpgs,
		},
		{
			name:         "forced type is not reclassified",
			opts:         duck.RandomOptions{Jpg: true},
			link:         "https://random-d.uk/api/v2/gifs-archive/1.jpg",
			wantRequest:  "/api/v2/random?type=jpg",
			wantCategory: cache.Jpgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := testutil.NewUpstream(t)
			upstream.SetRandomURL(tt.link)
			client := fixture_client(t, upstream)

			link, err := client.FetchRandomLink(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.link, link)
			assert.Equal(t, []string{tt.wantRequest}, upstream.Requests())

			all := client.Cache()
			require.Len(t, all, 1)
			assert.Equal(t, []cache.Entry{cache.URLEntry(tt.link)}, all[tt.wantCategory])
		})
	}
}

func TestFetchRandomLinkClassificationCounts(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	client := fixture_client(t, upstream)
	ctx := context.Background()

	upstream.SetRandomURL("https://random-d.uk/api/v2/1.jpg")
	_, err := client.FetchRandomLink(ctx, duck.RandomOptions{})
	require.NoError(t, err)

	upstream.SetRandomURL("https://random-d.uk/api/v2/2.gif")
	_, err = client.FetchRandomLink(ctx, duck.RandomOptions{})
	require.NoError(t, err)

	gifs, ok := client.GifCache()
	require.True(t, ok)
	jpgs, ok := client.JpgCache()
	require.True(t, ok)
	assert.Len(t, gifs, 1)
	assert.Len(t, jpgs, 1)
}

func TestFetchRandomFile(t *testing.T) {
	tests := []struct {
		name         string
		opts         duck.RandomOptions
		wantEndpoint string
		wantCategory cache.Category
	}{
		{name: "gif", opts: duck.RandomOptions{Gif: true}, wantEndpoint: "randomimg?type=gif", wantCategory: cache.Gifs},
		{name: "jpg", opts: duck.RandomOptions{Jpg: true}, wantEndpoint: "randomimg?type=jpg", wantCategory: cache.Jpgs},
		{name: "both", opts: duck.RandomOptions{Gif: true, Jpg: true}, wantEndpoint: "randomimg?type=gif", wantCategory: cache.Gifs},
		{name: "unqualified", wantEndpoint: "randomimg", wantCategory: cache.RandomImages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := testutil.NewUpstream(t)
			client := fixture_client(t, upstream)

			img, err := client.FetchRandomFile(context.Background(), tt.opts)
			require.NoError(t, err)
			want := testutil.ImageBody(tt.wantEndpoint)
			assert.Equal(t, want, readAll(t, img))

			all := client.Cache()
			require.Len(t, all, 1)
			assert.Equal(t, []cache.Entry{cache.BytesEntry(want)}, all[tt.wantCategory])
		})
	}
}

func TestFetchRandomFileIsSeekable(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	client := fixture_client(t, upstream)

	img, err := client.FetchRandomFile(context.Background(), duck.RandomOptions{Gif: true})
	require.NoError(t, err)

	first := readAll(t, img)
	_, err = img.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, first, readAll(t, img))
}

func TestFetchByID(t *testing.T) {
	tests := []struct {
		name         string
		fetch        func(c *duck.Client, ctx context.Context, id int) (*bytes.Reader, error)
		id           int
		wantEndpoint string
		wantCategory cache.Category
	}{
		{name: "jpg", fetch: (*duck.Client).FetchJpg, id: 42, wantEndpoint: "42.jpg", wantCategory: cache.Jpgs},
		{name: "gif", fetch: (*duck.Client).FetchGif, id: 7, wantEndpoint: "7.gif", wantCategory: cache.Gifs},
		{name: "http", fetch: (*duck.Client).FetchHTTP, id: 404, wantEndpoint: "http/404", wantCategory: cache.HTTPs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := testutil.NewUpstream(t)
			client := fixture_client(t, upstream)

			img, err := tt.fetch(client, context.Background(), tt.id)
			require.NoError(t, err)
			assert.Equal(t, testutil.ImageBody(tt.wantEndpoint), readAll(t, img))
			assert.Equal(t, []string{"/api/v2/" + tt.wantEndpoint}, upstream.Requests())

			all := client.Cache()
			require.Len(t, all, 1)
			require.Len(t, all[tt.wantCategory], 1)
			entry, ok := all[tt.wantCategory][0].(cache.BufferEntry)
			require.True(t, ok, "expected a buffer entry, got %T", all[tt.wantCategory][0])
			assert.Same(t, img, entry.Reader, "the cache holds the handle given to the caller")
		})
	}
}

func TestFetchByIDKeepsCallOrder(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	client := fixture_client(t, upstream)
	ctx := context.Background()

	ids := []int{5, 1, 3, 1}
	for _, id := range ids {
		_, err := client.FetchJpg(ctx, id)
		require.NoError(t, err)
	}

	jpgs, ok := client.JpgCache()
	require.True(t, ok)
	require.Len(t, jpgs, len(ids))
	for i, id := range ids {
		endpoint := fmt.Sprintf("%d.jpg", id)
		assert.Equal(t, "/api/v2/"+endpoint, upstream.Requests()[i])

		entry, ok := jpgs[i].(cache.BufferEntry)
		require.True(t, ok)
		_, err := entry.Reader.Seek(0, io.SeekStart)
		require.NoError(t, err)
		assert.Equal(t, testutil.ImageBody(endpoint), readAll(t, entry.Reader))
	}
}

func TestFetchHTTPCache(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	client := fixture_client(t, upstream)

	_, ok := client.HTTPCache()
	assert.False(t, ok)

	_, err := client.FetchHTTP(context.Background(), 418)
	require.NoError(t, err)

	entries, ok := client.HTTPCache()
	require.True(t, ok)
	assert.Len(t, entries, 1)
}

func TestFetchErrorsPropagate(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	upstream.SetStatus("/api/v2/99999.jpg", http.StatusNotFound)
	upstream.SetStatus("/api/v2/random", http.StatusInternalServerError)
	upstream.SetStatus("/api/v2/randomimg", http.StatusServiceUnavailable)
	upstream.SetStatus("/api/v2/http/999", http.StatusNotFound)
	client := fixture_client(t, upstream)
	ctx := context.Background()

	_, err := client.FetchJpg(ctx, 99999)
	assert.ErrorIs(t, err, api.ErrNotFound)

	_, err = client.FetchHTTP(ctx, 999)
	assert.ErrorIs(t, err, api.ErrNotFound)

	_, err = client.FetchRandomLink(ctx, duck.RandomOptions{})
	assert.ErrorIs(t, err, api.ErrConnection)
	assert.Equal(t, http.StatusInternalServerError, api.StatusOf(err))

	_, err = client.FetchRandomFile(ctx, duck.RandomOptions{Gif: true})
	assert.ErrorIs(t, err, api.ErrConnection)
	assert.Equal(t, http.StatusServiceUnavailable, api.StatusOf(err))

	assert.Empty(t, client.Cache(), "failed fetches record nothing")
}

func TestRandomImageCache(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	client := fixture_client(t, upstream)

	_, err := client.FetchRandomFile(context.Background(), duck.RandomOptions{})
	require.NoError(t, err)

	entries, ok := client.RandomImageCache()
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, cache.KindBytes, entries[0].Kind())

	_, ok = client.GifCache()
	assert.False(t, ok)
	_, ok = client.JpgCache()
	assert.False(t, ok)
}
