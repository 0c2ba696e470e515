package dropbox

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/go-units"

	"github.com/infomas/go-dropbox/chunkio"
)

const (
	// DefaultChunkSize is the chunk size used when neither the client nor
	// the per-call options set one.
	DefaultChunkSize int64 = 4 * 1024 * 1024
	// MaxChunkSize is the largest chunk the service accepts.
	MaxChunkSize int64 = 150 * 1024 * 1024
)

// ParseChunkSize parses a human-readable chunk size such as "4MB" or "512k"
// and validates it against the service limits.
func ParseChunkSize(s string) (int64, error) {
	size, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("dropbox: parse chunk size %q: %w", s, err)
	}
	if size <= 0 || size > MaxChunkSize {
		return 0, fmt.Errorf("dropbox: chunk size %s out of range (0, %s]",
			units.BytesSize(float64(size)), units.BytesSize(float64(MaxChunkSize)))
	}
	return size, nil
}

// chunkState is the session handed back by the chunk endpoint. The server's
// word on the offset is authoritative; the client never second-guesses it.
type chunkState struct {
	uploadID string
	offset   int64
}

func (c *Client) uploadChunked(ctx context.Context, path string, content io.Reader, opts UploadOptions) (Entry, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = c.defaultChunkSize
	}
	if chunkSize > MaxChunkSize {
		return Entry{}, fmt.Errorf("dropbox: chunk size %s exceeds the %s limit",
			units.BytesSize(float64(chunkSize)), units.BytesSize(float64(MaxChunkSize)))
	}
	c.logger.Debugf("Uploading %q in chunks of %s", path, units.BytesSize(float64(chunkSize)))

	var state chunkState
	chunked := chunkio.NewReader(content, chunkSize)
	for chunked.Next() {
		next, err := c.uploadChunk(ctx, state, chunked)
		if err != nil {
			return Entry{}, fmt.Errorf("dropbox: upload chunk at offset %d of %q: %w", state.offset, path, err)
		}
		c.logger.Debugf("Chunk accepted, session %s now at offset %s",
			next.uploadID, units.BytesSize(float64(next.offset)))
		state = next
	}
	if state.uploadID == "" {
		return Entry{}, fmt.Errorf("dropbox: chunked upload of an empty source %q", path)
	}
	return c.commitChunked(ctx, path, state, opts)
}

// uploadChunk sends one chunk and returns the session state echoed by the
// server. The first chunk opens the session: it carries no upload_id and the
// server assigns one.
func (c *Client) uploadChunk(ctx context.Context, state chunkState, chunk io.Reader) (chunkState, error) {
	b := c.contentEndpoint("PUT", "/chunked_upload").
		WithParam("offset", state.offset).
		WithPayload(chunk)
	if state.uploadID != "" {
		b = b.WithParam("upload_id", state.uploadID)
	}
	body, err := b.AsString(ctx, c.restClient)
	if err != nil {
		return chunkState{}, err
	}
	m, err := decodeJSONMap(body)
	if err != nil {
		return chunkState{}, err
	}
	next := chunkState{
		uploadID: asString(m, "upload_id"),
		offset:   asInt64(m, "offset"),
	}
	if next.uploadID == "" {
		return chunkState{}, fmt.Errorf("dropbox: chunk response carries no upload_id: %q", body)
	}
	return next, nil
}

func (c *Client) commitChunked(ctx context.Context, path string, state chunkState, opts UploadOptions) (Entry, error) {
	// parent_rev is always sent, as an empty string when there is none.
	body, err := c.contentEndpoint("POST", "/commit_chunked_upload/"+c.root+ensureAbs(path)).
		WithParam("upload_id", state.uploadID).
		WithParam("overwrite", opts.Overwrite).
		WithParam("parent_rev", opts.ParentRev).
		AsString(ctx, c.restClient)
	if err != nil {
		return Entry{}, fmt.Errorf("dropbox: commit chunked upload of %q: %w", path, err)
	}
	return entryFromJSON(body)
}
