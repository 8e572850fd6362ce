package duck

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/iTrooz/duckduck/api"
	"github.com/iTrooz/duckduck/cache"
)

// RandomOptions restricts a random fetch to one media type.
// Gif wins over Jpg when both are set.
type RandomOptions struct {
	Gif bool
	Jpg bool
}

type mediaType int

const (
	mediaAny mediaType = iota
	mediaGif
	mediaJpg
)

func (o RandomOptions) mediaType() mediaType {
	switch {
	case o.Gif:
		return mediaGif
	case o.Jpg:
		return mediaJpg
	default:
		return mediaAny
	}
}

func typeQuery(t string) url.Values {
	return url.Values{"type": []string{t}}
}

// FetchRandomLink returns the URL of a random duck image.
// Without a type restriction the API picks one, and the URL is recorded as a
// gif if it mentions "gif" and as a jpg otherwise.
func (c *Client) FetchRandomLink(ctx context.Context, opts RandomOptions) (string, error) {
	var (
		query    url.Values
		category cache.Category
	)
	switch opts.mediaType() {
	case mediaGif:
		query, category = typeQuery("gif"), cache.Gifs
	case mediaJpg:
		query, category = typeQuery("jpg"), cache.Jpgs
	}

	var link api.RandomLink
	if err := c.requester.GetJSON(ctx, "random", query, &link); err != nil {
		return "", err
	}

	if category == "" {
		category = classifyLink(link.URL)
	}
	c.cache.Record(category, cache.URLEntry(link.URL))

	return link.URL, nil
}

func classifyLink(link string) cache.Category {
	if strings.Contains(link, "gif") {
		return cache.Gifs
	}
	return cache.Jpgs
}

// FetchRandomFile downloads a random duck image.
// Without a type restriction the payload goes to the random_images category
// as is; it is not classified the way FetchRandomLink classifies URLs.
func (c *Client) FetchRandomFile(ctx context.Context, opts RandomOptions) (*bytes.Reader, error) {
	var (
		query    url.Values
		category = cache.RandomImages
	)
	switch opts.mediaType() {
	case mediaGif:
		query, category = typeQuery("gif"), cache.Gifs
	case mediaJpg:
		query, category = typeQuery("jpg"), cache.Jpgs
	}

	data, err := c.requester.GetBytes(ctx, "randomimg", query)
	if err != nil {
		return nil, err
	}

	c.cache.Record(category, cache.BytesEntry(data))
	return bytes.NewReader(data), nil
}

// FetchJpg downloads the jpg with the given number
func (c *Client) FetchJpg(ctx context.Context, id int) (*bytes.Reader, error) {
	return c.fetchImage(ctx, fmt.Sprintf("%d.jpg", id), cache.Jpgs)
}

// FetchGif downloads the gif with the given number
func (c *Client) FetchGif(ctx context.Context, id int) (*bytes.Reader, error) {
	return c.fetchImage(ctx, fmt.Sprintf("%d.gif", id), cache.Gifs)
}

// FetchHTTP downloads the duck illustrating the given HTTP status code
func (c *Client) FetchHTTP(ctx context.Context, code int) (*bytes.Reader, error) {
	return c.fetchImage(ctx, fmt.Sprintf("http/%d", code), cache.HTTPs)
}

func (c *Client) fetchImage(ctx context.Context, endpoint string, category cache.Category) (*bytes.Reader, error) {
	data, err := c.requester.GetBytes(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	img := bytes.NewReader(data)
	c.cache.Record(category, cache.BufferEntry{Reader: img})
	return img, nil
}

// GifCache returns what was recorded under gifs, or nil, false if nothing was
func (c *Client) GifCache() ([]cache.Entry, bool) {
	return c.cache.Get(cache.Gifs)
}

func (c *Client) JpgCache() ([]cache.Entry, bool) {
	return c.cache.Get(cache.Jpgs)
}

func (c *Client) HTTPCache() ([]cache.Entry, bool) {
	return c.cache.Get(cache.HTTPs)
}

func (c *Client) RandomImageCache() ([]cache.Entry, bool) {
	return c.cache.Get(cache.RandomImages)
}

// Cache returns every recorded category
func (c *Client) Cache() map[cache.Category][]cache.Entry {
	return c.cache.All()
}
