package dropbox

import (
	"context"
	"fmt"
)

// Copy copies the file or folder at fromPath to toPath and returns the
// metadata of the new entry.
func (c *Client) Copy(ctx context.Context, fromPath, toPath string) (Entry, error) {
	return c.fileOp(ctx, "/fileops/copy", map[string]interface{}{
		"from_path": ensureAbs(fromPath),
		"to_path":   ensureAbs(toPath),
	})
}

// Move moves the file or folder at fromPath to toPath and returns the
// metadata of the moved entry.
func (c *Client) Move(ctx context.Context, fromPath, toPath string) (Entry, error) {
	return c.fileOp(ctx, "/fileops/move", map[string]interface{}{
		"from_path": ensureAbs(fromPath),
		"to_path":   ensureAbs(toPath),
	})
}

// Delete deletes the file or folder at path and returns the metadata of the
// deleted entry.
func (c *Client) Delete(ctx context.Context, path string) (Entry, error) {
	return c.fileOp(ctx, "/fileops/delete", map[string]interface{}{
		"path": ensureAbs(path),
	})
}

// CreateFolder creates the folder at path, parents included, and returns its
// metadata.
func (c *Client) CreateFolder(ctx context.Context, path string) (Entry, error) {
	return c.fileOp(ctx, "/fileops/create_folder", map[string]interface{}{
		"path": ensureAbs(path),
	})
}

// fileOp runs one of the /fileops endpoints. The parameters travel in a
// form-encoded body, the root as its own field.
func (c *Client) fileOp(ctx context.Context, endpointPath string, params map[string]interface{}) (Entry, error) {
	b := c.apiEndpoint("POST", endpointPath).WithParam("root", c.root)
	for name, value := range params {
		b = b.WithParam(name, value)
	}
	body, err := b.AsString(ctx, c.restClient)
	if err != nil {
		return Entry{}, fmt.Errorf("dropbox: %s: %w", endpointPath, err)
	}
	return entryFromJSON(body)
}
