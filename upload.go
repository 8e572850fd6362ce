package duck

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iTrooz/duckduck/api"
)

// defaultUploadName is sent when the source has no name of its own
const defaultUploadName = "duck"

// Upload sends a duck image to the API. The image must be a jpg, gif, png
// or bmp.
//
// source is either a path (string), which is opened and closed here, or an
// already open io.Reader such as an *os.File, which the caller keeps
// ownership of. Any other type fails with api.ErrInvalidArgument before
// anything is sent.
func (c *Client) Upload(ctx context.Context, source any) (string, error) {
	switch src := source.(type) {
	case string:
		return c.UploadFile(ctx, src)
	case *os.File:
		if src == nil {
			return "", api.InvalidArgument("upload source is a nil file")
		}
		return c.UploadReader(ctx, readerName(src), src)
	case io.Reader:
		return c.UploadReader(ctx, readerName(src), src)
	default:
		return "", api.InvalidArgument("expected a path or a reader, not %T", source)
	}
}

// UploadFile uploads the file at path
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening upload file: %w", err)
	}
	defer f.Close()

	return c.UploadReader(ctx, filepath.Base(path), f)
}

// UploadReader uploads the content of r under the given filename
func (c *Client) UploadReader(ctx context.Context, name string, r io.Reader) (string, error) {
	if r == nil {
		return "", api.InvalidArgument("upload source is nil")
	}
	if name == "" {
		name = defaultUploadName
	}
	return c.requester.PostUpload(ctx, name, r)
}

func readerName(r io.Reader) string {
	if named, ok := r.(interface{ Name() string }); ok && named.Name() != "" {
		return filepath.Base(named.Name())
	}
	return defaultUploadName
}
