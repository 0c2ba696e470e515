package dropbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/go-units"
)

// MaxSimpleUpload is the largest payload the single-request upload endpoint
// accepts. Larger files must go through the chunked protocol.
const MaxSimpleUpload int64 = 150 * 1024 * 1024

// DownloadOptions refine a Download call. The zero value downloads the
// newest revision in full.
type DownloadOptions struct {
	// Rev, when set, downloads that particular revision.
	Rev string
	// RangeFirst and RangeLast select a byte range (both inclusive). The
	// range is active when RangeLast is greater than zero and requires
	// 0 <= RangeFirst < RangeLast.
	RangeFirst int64
	RangeLast  int64
}

func (o DownloadOptions) rangeActive() bool {
	return o.RangeLast > 0
}

// Download fetches the content of the file at path into w and returns the
// number of bytes written.
func (c *Client) Download(ctx context.Context, path string, opts DownloadOptions, w io.Writer) (int64, error) {
	b := c.contentEndpoint("GET", "/files/"+c.root+ensureAbs(path))
	if opts.Rev != "" {
		b = b.WithParam("rev", opts.Rev)
	}
	if opts.rangeActive() {
		if opts.RangeFirst < 0 || opts.RangeFirst >= opts.RangeLast {
			return 0, fmt.Errorf("dropbox: invalid byte range %d-%d", opts.RangeFirst, opts.RangeLast)
		}
		b = b.WithHeader("Range", fmt.Sprintf("bytes=%d-%d", opts.RangeFirst, opts.RangeLast))
	}
	n, err := b.ToWriter(ctx, c.restClient, w)
	if err != nil {
		return n, fmt.Errorf("dropbox: download %q: %w", path, err)
	}
	return n, nil
}

// DownloadFile downloads the file at path into the local file at localPath,
// creating or truncating it.
func (c *Client) DownloadFile(ctx context.Context, path, localPath string, opts DownloadOptions) (n int64, err error) {
	f, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("dropbox: create %s: %w", localPath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("dropbox: close %s: %w", localPath, closeErr)
		}
	}()
	return c.Download(ctx, path, opts, f)
}

// UploadStrategy selects how Upload moves the bytes to the service.
type UploadStrategy int

const (
	// UploadAuto picks simple upload for payloads of known size up to
	// MaxSimpleUpload and the chunked protocol otherwise.
	UploadAuto UploadStrategy = iota
	// UploadSimple forces the single-request upload.
	UploadSimple
	// UploadChunked forces the chunked protocol.
	UploadChunked
)

// UploadOptions refine an Upload call. The zero value uploads without
// conflict detection and lets the service rename on conflict.
type UploadOptions struct {
	// ParentRev is the revision the caller last saw. When the file changed
	// in the meantime the service stores the upload under a conflict name
	// instead of overwriting.
	ParentRev string
	// Overwrite makes the upload replace the existing file instead of
	// being stored under a conflict name.
	Overwrite bool
	// Strategy selects simple versus chunked upload.
	Strategy UploadStrategy
	// ChunkSize overrides the client's chunk size for chunked uploads.
	ChunkSize int64
}

// Upload stores size bytes from content as the file at path and returns the
// metadata of the new revision. Pass a negative size when it is unknown;
// that forces the chunked protocol.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader, size int64, opts UploadOptions) (Entry, error) {
	strategy := opts.Strategy
	if strategy == UploadAuto {
		if size >= 0 && size <= MaxSimpleUpload {
			strategy = UploadSimple
		} else {
			strategy = UploadChunked
		}
	}
	switch strategy {
	case UploadSimple:
		if size < 0 {
			return Entry{}, fmt.Errorf("dropbox: simple upload needs a known size")
		}
		return c.uploadSimple(ctx, path, content, size, opts)
	case UploadChunked:
		return c.uploadChunked(ctx, path, content, opts)
	default:
		return Entry{}, fmt.Errorf("dropbox: unknown upload strategy %d", strategy)
	}
}

// UploadFile uploads the local file at localPath as the file at path.
func (c *Client) UploadFile(ctx context.Context, path, localPath string, opts UploadOptions) (Entry, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Entry{}, fmt.Errorf("dropbox: open %s: %w", localPath, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warnf("close %s: %s", localPath, err)
		}
	}()
	info, err := f.Stat()
	if err != nil {
		return Entry{}, fmt.Errorf("dropbox: stat %s: %w", localPath, err)
	}
	return c.Upload(ctx, path, f, info.Size(), opts)
}

func (c *Client) uploadSimple(ctx context.Context, path string, content io.Reader, size int64, opts UploadOptions) (Entry, error) {
	c.logger.Debugf("Uploading %s to %q in one request", units.BytesSize(float64(size)), path)
	b := c.contentEndpoint("PUT", "/files_put/"+c.root+ensureAbs(path)).
		WithParam("overwrite", opts.Overwrite).
		WithPayload(content).
		WithHeader("Content-Length", fmt.Sprint(size))
	if opts.ParentRev != "" {
		b = b.WithParam("parent_rev", opts.ParentRev)
	}
	body, err := b.AsString(ctx, c.restClient)
	if err != nil {
		return Entry{}, fmt.Errorf("dropbox: upload %q: %w", path, err)
	}
	return entryFromJSON(body)
}

// Link is a URL with an expiry, as returned by Media and Shares.
type Link struct {
	URL     string    `mapstructure:"url"`
	Expires time.Time `mapstructure:"expires"`
}

// Media returns a direct, time-limited streaming link to the file at path.
func (c *Client) Media(ctx context.Context, path string) (Link, error) {
	return c.link(ctx, "/media/"+c.root+ensureAbs(path))
}

// Shares returns a time-limited preview-page link to the file or folder at
// path.
func (c *Client) Shares(ctx context.Context, path string) (Link, error) {
	return c.link(ctx, "/shares/"+c.root+ensureAbs(path))
}

func (c *Client) link(ctx context.Context, endpointPath string) (Link, error) {
	body, err := c.apiEndpoint("POST", endpointPath).AsString(ctx, c.restClient)
	if err != nil {
		return Link{}, fmt.Errorf("dropbox: link for %q: %w", endpointPath, err)
	}
	m, err := decodeJSONMap(body)
	if err != nil {
		return Link{}, err
	}
	var l Link
	if err := decodeEntity(m, &l); err != nil {
		return Link{}, err
	}
	return l, nil
}

// Thumbnail sizes accepted by the service.
const (
	ThumbSizeXS = "xs" // 32x32
	ThumbSizeS  = "s"  // 64x64
	ThumbSizeM  = "m"  // 128x128
	ThumbSizeL  = "l"  // 640x480
	ThumbSizeXL = "xl" // 1024x768
)

// Thumbnail formats accepted by the service.
const (
	ThumbFormatJPEG = "jpeg"
	ThumbFormatPNG  = "png"
)

// Thumbnail fetches a thumbnail of the image at path into w. size and format
// default to ThumbSizeS and ThumbFormatJPEG when empty.
func (c *Client) Thumbnail(ctx context.Context, path, size, format string, w io.Writer) (int64, error) {
	if size == "" {
		size = ThumbSizeS
	}
	if format == "" {
		format = ThumbFormatJPEG
	}
	n, err := c.contentEndpoint("GET", "/thumbnails/"+c.root+ensureAbs(path)).
		WithParam("size", size).
		WithParam("format", format).
		ToWriter(ctx, c.restClient, w)
	if err != nil {
		return n, fmt.Errorf("dropbox: thumbnail of %q: %w", path, err)
	}
	return n, nil
}
