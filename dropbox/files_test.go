package dropbox

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte("file content"))
	}))

	var buf bytes.Buffer
	n, err := c.Download(ctx(), "/docs/report.pdf", DownloadOptions{}, &buf)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/1/files/sandbox/docs/report.pdf", got.URL.Path)
	assert.Empty(t, got.Header.Get("Range"))
	assert.False(t, got.URL.Query().Has("rev"))
	assert.Equal(t, int64(12), n)
	assert.Equal(t, "file content", buf.String())
}

func TestDownload_RevAndRange(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("le con"))
	}))

	var buf bytes.Buffer
	_, err := c.Download(ctx(), "/docs/report.pdf", DownloadOptions{
		Rev:        "35e97029684fe",
		RangeFirst: 2,
		RangeLast:  7,
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, "35e97029684fe", got.URL.Query().Get("rev"))
	assert.Equal(t, "bytes=2-7", got.Header.Get("Range"))
	assert.Equal(t, "le con", buf.String())
}

func TestDownload_InvalidRange(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	var buf bytes.Buffer
	_, err := c.Download(ctx(), "/f", DownloadOptions{RangeFirst: 7, RangeLast: 2}, &buf)
	assert.Error(t, err)

	_, err = c.Download(ctx(), "/f", DownloadOptions{RangeFirst: -1, RangeLast: 2}, &buf)
	assert.Error(t, err)

	_, err = c.Download(ctx(), "/f", DownloadOptions{RangeFirst: 5, RangeLast: 5}, &buf)
	assert.Error(t, err)
}

func TestDownloadFile(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("saved bytes"))
	}))

	path := filepath.Join(t.TempDir(), "report.pdf")
	n, err := c.DownloadFile(ctx(), "/docs/report.pdf", path, DownloadOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved bytes", string(content))
}

func TestUpload_Simple(t *testing.T) {
	var got *http.Request
	var body []byte
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		var err error
		body, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		_, _ = w.Write([]byte(fileEntryJSON))
	}))

	content := "hello dropbox"
	entry, err := c.Upload(ctx(), "docs/hello.txt", strings.NewReader(content), int64(len(content)), UploadOptions{
		Overwrite: true,
		ParentRev: "35e97029684fe",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/1/files_put/sandbox/docs/hello.txt", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "true", q.Get("overwrite"))
	assert.Equal(t, "35e97029684fe", q.Get("parent_rev"))
	assert.Equal(t, int64(len(content)), got.ContentLength)
	assert.Equal(t, content, string(body))
	assert.Equal(t, "/Getting_Started.pdf", entry.Path)
}

func TestUpload_AutoPicksChunkedForUnknownSize(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch {
		case r.URL.Path == "/1/chunked_upload":
			_, _ = w.Write([]byte(`{"upload_id": "sess", "offset": 5}`))
		default:
			_, _ = w.Write([]byte(fileEntryJSON))
		}
	}))

	_, err := c.Upload(ctx(), "/f", strings.NewReader("hello"), -1, UploadOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, paths)
	assert.Equal(t, "/1/chunked_upload", paths[0])
}

func TestUpload_SimpleRejectsUnknownSize(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := c.Upload(ctx(), "/f", strings.NewReader("x"), -1, UploadOptions{Strategy: UploadSimple})
	assert.Error(t, err)
}

func TestUploadFile(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(fileEntryJSON))
	}))

	local := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(local, []byte("local file"), 0600))

	_, err := c.UploadFile(ctx(), "/in.txt", local, UploadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/1/files_put/sandbox/in.txt", got.URL.Path)
	assert.Equal(t, int64(10), got.ContentLength)
}

func TestMedia(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`{
			"url": "https://dl.dropboxusercontent.com/1/view/abc/video.mp4",
			"expires": "Fri, 16 Sep 2011 01:01:25 +0000"
		}`))
	}))

	link, err := c.Media(ctx(), "/video.mp4")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/1/media/sandbox/video.mp4", got.URL.Path)
	assert.Equal(t, "https://dl.dropboxusercontent.com/1/view/abc/video.mp4", link.URL)
	assert.Equal(t,
		time.Date(2011, time.September, 16, 1, 1, 25, 0, time.UTC),
		link.Expires.UTC())
}

func TestShares(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`{"url": "https://db.tt/c0mFuu1Y", "expires": "Tue, 01 Jan 2030 00:00:00 +0000"}`))
	}))

	link, err := c.Shares(ctx(), "/video.mp4")
	require.NoError(t, err)

	assert.Equal(t, "/1/shares/sandbox/video.mp4", got.URL.Path)
	assert.Equal(t, "https://db.tt/c0mFuu1Y", link.URL)
}

func TestThumbnail(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte("jpeg bytes"))
	}))

	var buf bytes.Buffer
	n, err := c.Thumbnail(ctx(), "/Photos/flower.jpg", ThumbSizeL, ThumbFormatPNG, &buf)
	require.NoError(t, err)

	assert.Equal(t, "/1/thumbnails/sandbox/Photos/flower.jpg", got.URL.Path)
	assert.Equal(t, "l", got.URL.Query().Get("size"))
	assert.Equal(t, "png", got.URL.Query().Get("format"))
	assert.Equal(t, int64(10), n)
}

func TestThumbnail_Defaults(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte("x"))
	}))

	var buf bytes.Buffer
	_, err := c.Thumbnail(ctx(), "/Photos/flower.jpg", "", "", &buf)
	require.NoError(t, err)

	assert.Equal(t, "s", got.URL.Query().Get("size"))
	assert.Equal(t, "jpeg", got.URL.Query().Get("format"))
}
