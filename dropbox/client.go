// Package dropbox is a client for version 1 of the Dropbox REST API. It
// covers the OAuth 1.0 authorization flow, account info, file download and
// upload (simple and chunked), metadata, delta listing, revisions, media and
// thumbnail links and the file operations (copy, move, delete, create
// folder).
//
// A Client drives a single linear conversation and is not safe for
// concurrent use; create one Client per goroutine.
package dropbox

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/infomas/go-dropbox/oauth"
	"github.com/infomas/go-dropbox/rest"
)

const (
	// APIHost serves the metadata and RPC style endpoints.
	APIHost = "api.dropbox.com"
	// ContentHost serves file content: download, upload, thumbnails.
	ContentHost = "api-content.dropbox.com"

	// RootSandbox scopes all paths to the app folder.
	RootSandbox = "sandbox"
	// RootDropbox scopes all paths to the full Dropbox.
	RootDropbox = "dropbox"

	apiVersionPrefix = "/1"

	headerAuthorization = "Authorization"
)

// authState tracks where the client stands in the OAuth conversation.
type authState int

const (
	stateUnauthenticated authState = iota
	stateAuthenticated
)

// ErrAlreadyAuthenticated is returned when token credentials are installed
// on a client that already holds some.
var ErrAlreadyAuthenticated = fmt.Errorf("dropbox: client already holds token credentials")

// Client calls the Dropbox REST API on behalf of one application and,
// once authenticated, one user.
type Client struct {
	restClient rest.RestClient
	logger     log.Logger

	clientCredentials oauth.Credentials
	authorization     string
	state             authState

	locale      string
	root        string
	scheme      string
	apiHost     string
	contentHost string

	defaultChunkSize int64
}

// New creates a Client for the application identified by clientCredentials.
// When tokenCredentials is non-zero the client starts out authenticated as
// that user; pass a zero value to run the authorization flow first. Passing
// a nil restClient or logger selects the defaults.
func New(clientCredentials, tokenCredentials oauth.Credentials, restClient rest.RestClient, logger log.Logger) (*Client, error) {
	if clientCredentials.IsZero() {
		return nil, fmt.Errorf("dropbox: client credentials are required")
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	if restClient == nil {
		restClient = rest.NewClient(nil, logger)
	}
	c := &Client{
		restClient:        restClient,
		logger:            logger,
		clientCredentials: clientCredentials,
		locale:            "en",
		root:              RootSandbox,
		scheme:            "https",
		apiHost:           APIHost,
		contentHost:       ContentHost,
		defaultChunkSize:  DefaultChunkSize,
	}
	if !tokenCredentials.IsZero() {
		if err := c.SetTokenCredentials(tokenCredentials); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetTokenCredentials installs the user's token credentials, switching the
// client into the authenticated state. Token credentials can be installed
// exactly once per client; a second call returns ErrAlreadyAuthenticated.
func (c *Client) SetTokenCredentials(token oauth.Credentials) error {
	if c.state == stateAuthenticated {
		return ErrAlreadyAuthenticated
	}
	if token.IsZero() {
		return fmt.Errorf("dropbox: token credentials are required")
	}
	c.authorization = oauth.AuthorizationHeader(c.clientCredentials, token)
	c.state = stateAuthenticated
	return nil
}

// SetLocale sets the IETF language tag sent with every request. Dropbox uses
// it to localize user-visible strings such as the size field. Default "en".
func (c *Client) SetLocale(locale string) *Client {
	if locale != "" {
		c.locale = locale
	}
	return c
}

// SetRoot selects the path root for all content operations, RootSandbox
// (default) or RootDropbox.
func (c *Client) SetRoot(root string) *Client {
	if root == RootSandbox || root == RootDropbox {
		c.root = root
	}
	return c
}

// SetChunkSize sets the default chunk size used by chunked uploads when the
// per-call options leave it unset.
func (c *Client) SetChunkSize(size int64) *Client {
	if size > 0 {
		c.defaultChunkSize = size
	}
	return c
}

// SetEndpoints overrides scheme and hosts, for tests against a local server.
func (c *Client) SetEndpoints(scheme, apiHost, contentHost string) *Client {
	c.scheme = scheme
	c.apiHost = apiHost
	c.contentHost = contentHost
	return c
}

// endpoint starts a request for the given host and API path, carrying the
// version prefix and locale. The Authorization header is attached when the
// client holds one; the OAuth endpoints override it per request.
func (c *Client) endpoint(method, host, path string) *rest.Builder {
	b := rest.NewRequest(method).
		WithScheme(c.scheme).
		WithHost(host).
		WithPath(apiVersionPrefix + path).
		WithParam("locale", c.locale)
	if c.authorization != "" {
		b = b.WithHeader(headerAuthorization, c.authorization)
	}
	return b
}

func (c *Client) apiEndpoint(method, path string) *rest.Builder {
	return c.endpoint(method, c.apiHost, path)
}

func (c *Client) contentEndpoint(method, path string) *rest.Builder {
	return c.endpoint(method, c.contentHost, path)
}

// ensureAbs normalizes a user-supplied remote path to start with "/".
func ensureAbs(path string) string {
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		return "/" + path
	}
	return path
}
