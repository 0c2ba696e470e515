package dropbox

import (
	"context"
	"fmt"
)

// DeltaEntry is one change in a delta page. When Metadata is nil the path
// has been deleted; otherwise Metadata is the entry's current state.
type DeltaEntry struct {
	// LowerCasedPath is the affected path, lower-cased by the service for
	// case-insensitive matching against local state.
	LowerCasedPath string
	// Metadata is the new state of the entry, nil for deletions.
	Metadata *Entry
}

// DeltaPage is one page of the change feed.
type DeltaPage struct {
	// Cursor encodes the position after this page. Send it with the next
	// Delta call; persist it between runs.
	Cursor string
	// Reset instructs the consumer to discard its local state before
	// applying this page's entries.
	Reset bool
	// HasMore reports that another page is immediately available and
	// should be fetched before going idle.
	HasMore bool
	// Entries are the changes of this page.
	Entries []DeltaEntry
}

// Delta fetches a page of changes to the user's files since the state
// identified by cursor. Pass "" on the first call to receive the full state.
func (c *Client) Delta(ctx context.Context, cursor string) (DeltaPage, error) {
	b := c.apiEndpoint("POST", "/delta")
	if cursor != "" {
		b = b.WithParam("cursor", cursor)
	}
	body, err := b.AsString(ctx, c.restClient)
	if err != nil {
		return DeltaPage{}, fmt.Errorf("dropbox: delta: %w", err)
	}
	m, err := decodeJSONMap(body)
	if err != nil {
		return DeltaPage{}, err
	}
	return deltaPageFromMap(m)
}

func deltaPageFromMap(m map[string]interface{}) (DeltaPage, error) {
	page := DeltaPage{
		Cursor:  asString(m, "cursor"),
		Reset:   asBool(m, "reset"),
		HasMore: asBool(m, "has_more"),
	}
	rawEntries, _ := m["entries"].([]interface{})
	page.Entries = make([]DeltaEntry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		// Each change is a [path, metadata] pair, metadata null on delete.
		pair, ok := raw.([]interface{})
		if !ok || len(pair) != 2 {
			return DeltaPage{}, fmt.Errorf("dropbox: unexpected delta entry %v", raw)
		}
		path, ok := pair[0].(string)
		if !ok {
			return DeltaPage{}, fmt.Errorf("dropbox: unexpected delta path %v", pair[0])
		}
		entry := DeltaEntry{LowerCasedPath: path}
		if metaMap, ok := pair[1].(map[string]interface{}); ok {
			meta, err := entryFromMap(metaMap)
			if err != nil {
				return DeltaPage{}, err
			}
			entry.Metadata = &meta
		}
		page.Entries = append(page.Entries, entry)
	}
	return page, nil
}
