package dropbox

import (
	"context"
	"fmt"
	"net/url"

	"github.com/infomas/go-dropbox/oauth"
)

// WebHost serves the user-facing authorization page.
const WebHost = "www.dropbox.com"

// RequestTemporaryCredentials runs the first leg of the OAuth flow and
// returns the temporary (request token) credentials. Send the user to
// AuthorizationURL with them, then exchange them via RequestTokenCredentials.
func (c *Client) RequestTemporaryCredentials(ctx context.Context) (oauth.Credentials, error) {
	if c.state == stateAuthenticated {
		return oauth.Credentials{}, ErrAlreadyAuthenticated
	}
	body, err := c.apiEndpoint("GET", "/oauth/request_token").
		WithHeader(headerAuthorization, oauth.TemporaryAuthorizationHeader(c.clientCredentials)).
		AsString(ctx, c.restClient)
	if err != nil {
		return oauth.Credentials{}, fmt.Errorf("dropbox: request temporary credentials: %w", err)
	}
	temp, err := oauth.ParseCredentials(body)
	if err != nil {
		return oauth.Credentials{}, err
	}
	return temp, nil
}

// AuthorizationURL returns the page where the user grants the application
// access to their Dropbox. callbackURL is where the browser is sent
// afterwards; pass "" for the out-of-band flow.
func (c *Client) AuthorizationURL(temp oauth.Credentials, callbackURL string) string {
	q := url.Values{}
	q.Set("oauth_token", temp.Key)
	if callbackURL != "" {
		q.Set("oauth_callback", callbackURL)
	}
	u := url.URL{
		Scheme:   c.scheme,
		Host:     WebHost,
		Path:     apiVersionPrefix + "/oauth/authorize",
		RawQuery: q.Encode(),
	}
	return u.String()
}

// RequestTokenCredentials runs the final leg of the OAuth flow: it exchanges
// the user-approved temporary credentials for long-lived token credentials,
// installs them on the client and returns them for the caller to persist.
// The response also carries the user's uid, which the client does not need
// and drops.
func (c *Client) RequestTokenCredentials(ctx context.Context, temp oauth.Credentials) (oauth.Credentials, error) {
	if c.state == stateAuthenticated {
		return oauth.Credentials{}, ErrAlreadyAuthenticated
	}
	body, err := c.apiEndpoint("GET", "/oauth/access_token").
		WithHeader(headerAuthorization, oauth.AuthorizationHeader(c.clientCredentials, temp)).
		AsString(ctx, c.restClient)
	if err != nil {
		return oauth.Credentials{}, fmt.Errorf("dropbox: request token credentials: %w", err)
	}
	token, err := oauth.ParseCredentials(body)
	if err != nil {
		return oauth.Credentials{}, err
	}
	if err := c.SetTokenCredentials(token); err != nil {
		return oauth.Credentials{}, err
	}
	return token, nil
}
