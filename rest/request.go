package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Request holds all data for one HTTP(S) REST request: method, endpoint,
// query/form parameters, headers and an optional payload stream. Instances
// are assembled with a Builder, consumed exactly once by a RestClient call
// and never reused.
type Request struct {
	method  string
	scheme  string
	host    string
	port    int
	path    string
	params  url.Values
	headers map[string]string
	payload io.Reader
}

// Builder assembles a Request. Every contract violation (unsupported method,
// relative path, blank parameter name, ...) is recorded on first occurrence
// and returned by any render or execute call, always before I/O is attempted.
type Builder struct {
	req Request
	err error
}

// NewRequest starts building a request for the given HTTP method.
// Only GET, POST and PUT are supported.
func NewRequest(method string) *Builder {
	b := &Builder{req: Request{
		method:  method,
		scheme:  "https",
		params:  url.Values{},
		headers: map[string]string{},
	}}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		b.err = fmt.Errorf("rest: unsupported method %q (only GET, POST and PUT are allowed)", method)
	}
	return b
}

// WithScheme sets the URL scheme. Only "http" and "https" are allowed;
// "https" is the default.
func (b *Builder) WithScheme(scheme string) *Builder {
	if scheme != "http" && scheme != "https" {
		return b.fail(fmt.Errorf("rest: unsupported scheme %q", scheme))
	}
	b.req.scheme = scheme
	return b
}

// WithHost sets the server address of the request endpoint. The host may
// carry an explicit ":port" suffix. Mandatory.
func (b *Builder) WithHost(host string) *Builder {
	if strings.TrimSpace(host) == "" {
		return b.fail(fmt.Errorf("rest: host must not be blank"))
	}
	b.req.host = host
	return b
}

// WithPort sets the port of the request endpoint. If not set, the port is
// omitted from the URL.
func (b *Builder) WithPort(port int) *Builder {
	if port <= 0 {
		return b.fail(fmt.Errorf("rest: invalid port %d", port))
	}
	b.req.port = port
	return b
}

// WithPath sets the absolute path of the request endpoint. The path must
// start with "/".
func (b *Builder) WithPath(path string) *Builder {
	if !strings.HasPrefix(path, "/") {
		return b.fail(fmt.Errorf("rest: path must be absolute: %q", path))
	}
	b.req.path = path
	return b
}

// WithParam adds a parameter. The value is stringified; a nil value silently
// omits the parameter. Depending on the method and payload the parameters
// are rendered into the URL query string or into a form-encoded body, see
// the Request documentation.
func (b *Builder) WithParam(name string, value interface{}) *Builder {
	if strings.TrimSpace(name) == "" {
		return b.fail(fmt.Errorf("rest: parameter name must not be blank"))
	}
	if value == nil {
		return b
	}
	b.req.params.Set(name, fmt.Sprint(value))
	return b
}

// WithHeader adds a header name-value pair. An empty value silently omits
// the header.
func (b *Builder) WithHeader(name, value string) *Builder {
	if strings.TrimSpace(name) == "" {
		return b.fail(fmt.Errorf("rest: header name must not be blank"))
	}
	if value == "" {
		return b
	}
	b.req.headers[name] = value
	return b
}

// WithPayload sets the payload (request body) stream. Optional. When a
// payload is set, parameters always go into the URL query string.
func (b *Builder) WithPayload(payload io.Reader) *Builder {
	b.req.payload = payload
	return b
}

// Request validates the accumulated state and freezes it into a Request.
func (b *Builder) Request() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.req.host == "" {
		return nil, fmt.Errorf("rest: host is required")
	}
	req := b.req
	return &req, nil
}

// URL renders the request URL, including the query string if the parameters
// are part of the URL.
func (b *Builder) URL() (*url.URL, error) {
	req, err := b.Request()
	if err != nil {
		return nil, err
	}
	return req.URL()
}

// ToWriter executes the request using the given RestClient and streams the
// response body into w. Returns the number of bytes written.
func (b *Builder) ToWriter(ctx context.Context, client RestClient, w io.Writer) (int64, error) {
	req, err := b.Request()
	if err != nil {
		return 0, err
	}
	return client.ToWriter(ctx, req, w)
}

// AsString executes the request using the given RestClient and returns the
// response body as a string.
func (b *Builder) AsString(ctx context.Context, client RestClient) (string, error) {
	req, err := b.Request()
	if err != nil {
		return "", err
	}
	return client.AsString(ctx, req)
}

// ToFile executes the request using the given RestClient and writes the
// response body to the file at path. Returns the number of bytes written.
func (b *Builder) ToFile(ctx context.Context, client RestClient, path string) (n int64, err error) {
	req, err := b.Request()
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("rest: create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("rest: close %s: %w", path, closeErr)
		}
	}()
	return client.ToWriter(ctx, req, f)
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Method returns the HTTP method ("GET", "POST" or "PUT").
func (r *Request) Method() string {
	return r.method
}

// URL renders the URL for this request. Parameters are rendered as the
// query string whenever the method is GET or an explicit payload already
// occupies the body slot; otherwise the URL carries no query string and the
// parameters become the body, see Payload.
func (r *Request) URL() (*url.URL, error) {
	host := r.host
	if r.port > 0 {
		host = fmt.Sprintf("%s:%d", r.host, r.port)
	}
	u := &url.URL{Scheme: r.scheme, Host: host, Path: r.path}
	if !r.paramsAsPayload() && len(r.params) > 0 {
		u.RawQuery = r.params.Encode()
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("rest: malformed URL: %q", u.String())
	}
	return u, nil
}

// Headers returns the headers of this request.
func (r *Request) Headers() map[string]string {
	return r.headers
}

// Payload returns the request body, or nil when there is none. For POST and
// PUT requests without an explicit payload the parameters are rendered as
// application/x-www-form-urlencoded content.
func (r *Request) Payload() io.Reader {
	if r.paramsAsPayload() {
		if len(r.params) == 0 {
			return nil
		}
		return strings.NewReader(r.params.Encode())
	}
	return r.payload
}

// FormEncodedBody reports whether the body returned by Payload is a
// form-encoded rendering of the parameters.
func (r *Request) FormEncodedBody() bool {
	return r.paramsAsPayload() && len(r.params) > 0
}

func (r *Request) paramsAsPayload() bool {
	return r.payload == nil && r.method != http.MethodGet
}

// String returns "METHOD URL", for debug logging only.
func (r *Request) String() string {
	u, err := r.URL()
	if err != nil {
		return fmt.Sprintf("%s <%v>", r.method, err)
	}
	return r.method + " " + u.String()
}
