// Package oauth implements the PLAINTEXT signature variant of the OAuth 1.0
// protocol (RFC 5849): credential pairs, Authorization header construction
// and the percent codec used for token responses.
//
// PLAINTEXT transmits the concatenated secrets as the signature, so it must
// only ever travel over TLS.
package oauth

import (
	"fmt"
	"net/url"
	"strings"
)

// Credentials is an immutable key/secret pair. It identifies either the
// client application (consumer key/secret) or a token (temporary or
// long-lived access token).
type Credentials struct {
	Key    string
	Secret string
}

// IsZero reports whether both key and secret are empty.
func (c Credentials) IsZero() bool {
	return c.Key == "" && c.Secret == ""
}

// AuthorizationHeader returns the Authorization header value for a request
// signed with the given client (consumer) and signing (token) credentials.
// All dynamic values are percent-encoded per RFC 5849 section 3.6.
func AuthorizationHeader(client, signing Credentials) string {
	return fmt.Sprintf(
		`OAuth oauth_version="1.0", `+
			`oauth_signature_method="PLAINTEXT", `+
			`oauth_consumer_key="%s", `+
			`oauth_token="%s", `+
			`oauth_signature="%s&%s"`,
		EncodeRFC5849(client.Key),
		EncodeRFC5849(signing.Key),
		EncodeRFC5849(client.Secret),
		EncodeRFC5849(signing.Secret))
}

// TemporaryAuthorizationHeader returns the Authorization header value for
// the temporary-credentials request, the first step of the three-legged
// flow. No token exists yet, so oauth_token is omitted and the signature
// carries an empty signing secret (trailing "&").
func TemporaryAuthorizationHeader(client Credentials) string {
	return fmt.Sprintf(
		`OAuth oauth_version="1.0", `+
			`oauth_signature_method="PLAINTEXT", `+
			`oauth_consumer_key="%s", `+
			`oauth_signature="%s&"`,
		EncodeRFC5849(client.Key),
		EncodeRFC5849(client.Secret))
}

// ParseCredentials parses an application/x-www-form-urlencoded token
// response body ("oauth_token=...&oauth_token_secret=...") into a
// Credentials pair. Any other fields, such as uid, are ignored.
func ParseCredentials(body string) (Credentials, error) {
	params, err := parseParameters(body)
	if err != nil {
		return Credentials{}, err
	}
	token, ok := params["oauth_token"]
	if !ok {
		return Credentials{}, fmt.Errorf("oauth: response is missing oauth_token: %q", body)
	}
	secret, ok := params["oauth_token_secret"]
	if !ok {
		return Credentials{}, fmt.Errorf("oauth: response is missing oauth_token_secret: %q", body)
	}
	return Credentials{Key: token, Secret: secret}, nil
}

// EncodeRFC5849 percent-encodes the value as specified by RFC 5849
// section 3.6: only ALPHA, DIGIT, "-", ".", "_" and "~" stay literal and
// space becomes %20, not "+".
func EncodeRFC5849(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// DecodeRFC5849 reverses EncodeRFC5849.
func DecodeRFC5849(value string) (string, error) {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return "", fmt.Errorf("oauth: percent-decode %q: %w", value, err)
	}
	return decoded, nil
}

// parseParameters splits a form-encoded body into a name/value map,
// percent-decoding both sides. Empty pairs are skipped.
func parseParameters(body string) (map[string]string, error) {
	params := map[string]string{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		name, value, found := cut(pair, "=")
		if !found || name == "" || value == "" {
			continue
		}
		decodedName, err := DecodeRFC5849(name)
		if err != nil {
			return nil, err
		}
		decodedValue, err := DecodeRFC5849(value)
		if err != nil {
			return nil, err
		}
		params[decodedName] = decodedValue
	}
	return params, nil
}

// cut is strings.Cut, kept local to stay on the module's Go baseline.
func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
