package syncsdk

import (
	"fmt"
	"net/url"
	"time"

	"github.com/imroc/req/v3"
	"github.com/transync/transync/internal/filesync"
	"github.com/transync/transync/internal/version"
)

const (
	DefaultBaseURL = "https://api.transync.io"
	DefaultTimeout = 30 * time.Second

	HeaderUserAgent = "User-Agent"
	HeaderVersion   = "X-Transync-Version"
	HeaderAPIKey    = "X-Api-Key"
	HeaderRequestID = "X-Request-Id"
)

// Config holds what the sdk needs to reach the api.
type Config struct {
	BaseURL    string        // BaseURL is required
	ProjectKey string        // ProjectKey is required
	Timeout    time.Duration // connect + read timeout, DefaultTimeout when zero
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoServerURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrNoServerURL, c.BaseURL)
	}
	if c.ProjectKey == "" {
		return ErrNoProjectKey
	}
	return nil
}

// Client talks to the translation api. It is safe for concurrent use.
type Client struct {
	client   *req.Client
	auth     *HeaderAuthorizer
	baseURL  string
	Projects *ProjectAPI
}

func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := req.C().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetUserAgent(version.UserAgent()).
		SetCommonHeader(HeaderVersion, version.Version).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	auth := NewHeaderAuthorizer(cfg.ProjectKey)

	return &Client{
		client:   client,
		auth:     auth,
		baseURL:  cfg.BaseURL,
		Projects: newProjectAPI(client, auth),
	}, nil
}

// Authorizer returns the authorizer matching this client's credentials.
func (c *Client) Authorizer() filesync.Authorizer {
	return c.auth
}

// BaseURL returns the api root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections.
func (c *Client) Close() {
	c.client.GetClient().CloseIdleConnections()
}
