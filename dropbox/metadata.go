package dropbox

import (
	"context"
	"fmt"
)

const (
	// defaultFileLimit caps folder listings unless the caller asks for less.
	defaultFileLimit = 25000
	// defaultRevLimit caps revision listings unless the caller asks for less.
	defaultRevLimit = 10
)

// MetadataOptions refine a Metadata call. The zero value lists folder
// contents with the default file limit.
type MetadataOptions struct {
	// Rev, when set, returns the metadata of that particular revision.
	Rev string
	// Hash, when set to the Hash of a previous folder listing, makes the
	// call fail with HTTP 304 when the listing has not changed.
	Hash string
	// FileLimit caps the number of children returned for a folder. 0
	// selects the service default of 25000; the call fails with HTTP 406
	// when the folder holds more.
	FileLimit int
	// OmitContents suppresses the folder's children.
	OmitContents bool
	// IncludeDeleted includes deleted entries in folder listings.
	IncludeDeleted bool
}

// Metadata fetches the metadata of the file or folder at path. For folders
// the returned entry carries the children in Contents unless OmitContents
// is set.
func (c *Client) Metadata(ctx context.Context, path string, opts MetadataOptions) (Entry, error) {
	fileLimit := opts.FileLimit
	if fileLimit <= 0 {
		fileLimit = defaultFileLimit
	}
	b := c.apiEndpoint("GET", "/metadata/"+c.root+ensureAbs(path)).
		WithParam("file_limit", fileLimit).
		WithParam("list", !opts.OmitContents)
	if opts.Rev != "" {
		b = b.WithParam("rev", opts.Rev)
	}
	if opts.Hash != "" {
		b = b.WithParam("hash", opts.Hash)
	}
	if opts.IncludeDeleted {
		b = b.WithParam("include_deleted", true)
	}
	body, err := b.AsString(ctx, c.restClient)
	if err != nil {
		return Entry{}, fmt.Errorf("dropbox: metadata of %q: %w", path, err)
	}
	return entryFromJSON(body)
}

// Revisions lists the revisions of the file at path, newest first. limit
// caps the result; 0 selects the service default of 10, the maximum is 1000.
func (c *Client) Revisions(ctx context.Context, path string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRevLimit
	}
	body, err := c.apiEndpoint("GET", "/revisions/"+c.root+ensureAbs(path)).
		WithParam("rev_limit", limit).
		AsString(ctx, c.restClient)
	if err != nil {
		return nil, fmt.Errorf("dropbox: revisions of %q: %w", path, err)
	}
	list, err := decodeJSONList(body)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("dropbox: unexpected revision element %v", item)
		}
		e, err := entryFromMap(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
