package duck

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/iTrooz/duckduck/api"
)

// ListKind says which part of the listing a ListResult holds
type ListKind int

const (
	ListAll ListKind = iota
	ListGifs
	ListImages
	ListHTTP
)

func (k ListKind) String() string {
	switch k {
	case ListGifs:
		return "gifs"
	case ListImages:
		return "images"
	case ListHTTP:
		return "http"
	default:
		return "all"
	}
}

// ListOptions selects a single list from the listing.
// When several are set, Gif wins over Jpg, which wins over HTTP.
type ListOptions struct {
	Gif  bool
	Jpg  bool
	HTTP bool
}

func (o ListOptions) kind() ListKind {
	switch {
	case o.Gif:
		return ListGifs
	case o.Jpg:
		return ListImages
	case o.HTTP:
		return ListHTTP
	default:
		return ListAll
	}
}

// ListResult holds either the full listing (Kind == ListAll) or one sorted
// list of filenames.
type ListResult struct {
	Kind    ListKind
	Listing *api.Listing
	Files   []string
}

// FetchListing returns everything the API has to offer
func (c *Client) FetchListing(ctx context.Context) (*api.Listing, error) {
	var listing api.Listing
	if err := c.requester.GetJSON(ctx, "list", nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// FetchList returns the list picked by opts, sorted by the number each
// filename starts with, or the full listing when opts is empty.
// Listings are not cached.
func (c *Client) FetchList(ctx context.Context, opts ListOptions) (*ListResult, error) {
	listing, err := c.FetchListing(ctx)
	if err != nil {
		return nil, err
	}

	kind := opts.kind()
	var files []string
	switch kind {
	case ListAll:
		return &ListResult{Kind: ListAll, Listing: listing}, nil
	case ListGifs:
		files = listing.Gifs
	case ListImages:
		files = listing.Images
	case ListHTTP:
		files = listing.HTTP
	}

	sorted, err := sortByNumber(files)
	if err != nil {
		return nil, fmt.Errorf("sorting %s list: %w", kind, err)
	}
	return &ListResult{Kind: kind, Files: sorted}, nil
}

type numberedFile struct {
	number int
	name   string
}

// sortByNumber orders filenames by the integer before their first dot
func sortByNumber(files []string) ([]string, error) {
	numbered := make([]numberedFile, 0, len(files))
	for _, name := range files {
		prefix, _, _ := strings.Cut(name, ".")
		n, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("filename %q has no numeric prefix: %w", name, err)
		}
		numbered = append(numbered, numberedFile{number: n, name: name})
	}

	slices.SortStableFunc(numbered, func(a, b numberedFile) int {
		return cmp.Compare(a.number, b.number)
	})

	sorted := make([]string, len(numbered))
	for i, f := range numbered {
		sorted[i] = f.name
	}
	return sorted, nil
}
