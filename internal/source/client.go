package source

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rickgao/longbox/internal/ratelimit"
)

// Client issues rate-limited JSON requests to a single external source.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration

	userAgent string
	headers   http.Header
	auth      authenticator
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the named source. A nil limiter gets a
// private limiter at ratelimit.DefaultInterval.
func NewClient(name, baseURL string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	if limiter == nil {
		limiter, _ = ratelimit.NewLimiter(name, ratelimit.DefaultInterval)
	}
	c := &Client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:      limiter,
		logger:       slog.Default().With("source", name),
		maxRetries:   0,
		retryBackoff: time.Second,
		userAgent:    "longbox/1.0",
		headers:      make(http.Header),
		auth:         noAuth{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the source name.
func (c *Client) Name() string { return c.name }

// Enabled reports whether the client has the credentials it needs.
func (c *Client) Enabled() bool { return c.auth.ready() }

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries enables inline retries of 429 and 5xx responses. Each attempt
// waits on the limiter again.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With("source", c.name)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithBasicAuth requires a username/password pair. If either is empty the
// client is disabled.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.auth = basicAuth{username: username, password: password}
	}
}

// WithBearerToken requires an OAuth bearer token. An empty token disables
// the client.
func WithBearerToken(token string) ClientOption {
	return func(c *Client) {
		c.auth = bearerAuth{token: token}
	}
}

// WithAPIKeyParam requires an API key passed as the named query parameter.
// An empty key disables the client.
func WithAPIKeyParam(param, key string) ClientOption {
	return func(c *Client) {
		c.auth = apiKeyAuth{param: param, key: key}
	}
}

// authenticator applies source credentials to an outgoing request.
type authenticator interface {
	ready() bool
	setQuery(query url.Values)
	setHeader(req *http.Request)
}

type noAuth struct{}

func (noAuth) ready() bool             { return true }
func (noAuth) setQuery(url.Values)     {}
func (noAuth) setHeader(*http.Request) {}

type basicAuth struct {
	username string
	password string
}

func (a basicAuth) ready() bool         { return a.username != "" && a.password != "" }
func (a basicAuth) setQuery(url.Values) {}

func (a basicAuth) setHeader(req *http.Request) {
	req.SetBasicAuth(a.username, a.password)
}

type bearerAuth struct {
	token string
}

func (a bearerAuth) ready() bool         { return a.token != "" }
func (a bearerAuth) setQuery(url.Values) {}

func (a bearerAuth) setHeader(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.token)
}

type apiKeyAuth struct {
	param string
	key   string
}

func (a apiKeyAuth) ready() bool             { return a.key != "" }
func (a apiKeyAuth) setHeader(*http.Request) {}

func (a apiKeyAuth) setQuery(query url.Values) {
	query.Set(a.param, a.key)
}
