package dropbox

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_Defaults(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(folderEntryJSON))
	}))

	e, err := c.Metadata(ctx(), "/Photos", MetadataOptions{})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/1/metadata/sandbox/Photos", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "25000", q.Get("file_limit"))
	assert.Equal(t, "true", q.Get("list"))
	assert.False(t, q.Has("rev"))
	assert.False(t, q.Has("hash"))
	assert.False(t, q.Has("include_deleted"))
	assert.True(t, e.IsDir)
}

func TestMetadata_Options(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(fileEntryJSON))
	}))
	c.SetRoot(RootDropbox)

	_, err := c.Metadata(ctx(), "docs/report.pdf", MetadataOptions{
		Rev:            "35e97029684fe",
		Hash:           "37eb1ba1849d4b",
		FileLimit:      100,
		OmitContents:   true,
		IncludeDeleted: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/1/metadata/dropbox/docs/report.pdf", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "100", q.Get("file_limit"))
	assert.Equal(t, "false", q.Get("list"))
	assert.Equal(t, "35e97029684fe", q.Get("rev"))
	assert.Equal(t, "37eb1ba1849d4b", q.Get("hash"))
	assert.Equal(t, "true", q.Get("include_deleted"))
}

func TestMetadata_NotModified(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))

	_, err := c.Metadata(ctx(), "/Photos", MetadataOptions{Hash: "37eb1ba1849d4b"})
	assert.Error(t, err)
}

func TestRevisions(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`[` + fileEntryJSON + `,` + fileEntryJSON + `]`))
	}))

	revs, err := c.Revisions(ctx(), "/Getting_Started.pdf", 0)
	require.NoError(t, err)

	assert.Equal(t, "/1/revisions/sandbox/Getting_Started.pdf", got.URL.Path)
	assert.Equal(t, "10", got.URL.Query().Get("rev_limit"))
	require.Len(t, revs, 2)
	assert.Equal(t, "35e97029684fe", revs[0].Rev)
}

func TestRevisions_ExplicitLimit(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`[]`))
	}))

	revs, err := c.Revisions(ctx(), "/file.txt", 3)
	require.NoError(t, err)

	assert.Equal(t, "3", got.URL.Query().Get("rev_limit"))
	assert.Empty(t, revs)
}
