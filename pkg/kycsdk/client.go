package kycsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public upstream used when nothing is configured.
const DefaultBaseURL = "https://dummyjson.com"

// TokenSource supplies the bearer token for outgoing requests. An empty token
// means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is the request interceptor for the KYC API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Messages resolves user-facing text for failed responses.
	Messages *Messages

	// Tokens is consulted on every request; nil sends no bearer.
	Tokens TokenSource
}

// NewClient creates a client for baseURL with the default message tables.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Messages: DefaultMessages(),
	}
}

func (c *Client) messages() *Messages {
	if c.Messages == nil {
		return DefaultMessages()
	}
	return c.Messages
}

func (c *Client) token() string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens.Token()
}
