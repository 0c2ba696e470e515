package dropbox

import (
	"strings"
	"time"
)

// Entry is the metadata of one file or folder.
type Entry struct {
	// Path is the canonical, case-preserving path of the entry.
	Path string `mapstructure:"path"`
	// IsDir reports whether the entry is a folder.
	IsDir bool `mapstructure:"is_dir"`
	// IsDeleted reports whether the entry has been deleted. Only set on
	// listings that were asked to include deleted entries.
	IsDeleted bool `mapstructure:"is_deleted"`
	// Bytes is the file size in bytes, 0 for folders.
	Bytes int64 `mapstructure:"bytes"`
	// Size is the file size as a human-readable, localized string.
	Size string `mapstructure:"size"`
	// Rev is the current revision identifier, used for conflict detection
	// on upload and for downloading older revisions.
	Rev string `mapstructure:"rev"`
	// Hash identifies the folder listing state; send it back on the next
	// metadata call to short-circuit unchanged listings. Folders only.
	Hash string `mapstructure:"hash"`
	// ThumbExists reports whether a thumbnail can be requested.
	ThumbExists bool `mapstructure:"thumb_exists"`
	// Icon names the icon the Dropbox web UI shows for the entry.
	Icon string `mapstructure:"icon"`
	// MimeType is the file's MIME type, empty for folders.
	MimeType string `mapstructure:"mime_type"`
	// Modified is the server-side modification time.
	Modified time.Time `mapstructure:"modified"`
	// ClientMtime is the modification time reported by the uploading
	// client. Display only; it does not order revisions.
	ClientMtime time.Time `mapstructure:"client_mtime"`
	// Root is the path root the entry was addressed under.
	Root string `mapstructure:"root"`
	// Contents lists the folder's children when a folder listing was
	// requested. Children never carry Contents of their own.
	Contents []Entry `mapstructure:"contents"`
}

// FileName returns the last path segment, "" for the root folder.
func (e Entry) FileName() string {
	if i := strings.LastIndex(e.Path, "/"); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// ParentPath returns the path of the containing folder, "" for the root.
func (e Entry) ParentPath() string {
	i := strings.LastIndex(e.Path, "/")
	if i <= 0 {
		return ""
	}
	return e.Path[:i]
}

func entryFromMap(m map[string]interface{}) (Entry, error) {
	var e Entry
	if err := decodeEntity(m, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func entryFromJSON(body string) (Entry, error) {
	m, err := decodeJSONMap(body)
	if err != nil {
		return Entry{}, err
	}
	return entryFromMap(m)
}
