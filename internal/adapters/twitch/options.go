package twitch

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"clipscraper/internal/core/domain"
)

const (
	defaultIDBaseURL  = "https://id.twitch.tv"
	defaultAPIBaseURL = "https://api.twitch.tv/helix"
)

type options struct {
	idBaseURL         string
	apiBaseURL        string
	httpClient        *http.Client
	retryUnauthorized bool
}

// Option configures the Twitch adapters.
type Option func(*options)

// WithIDBaseURL overrides the identity endpoint root.
func WithIDBaseURL(u string) Option {
	return func(o *options) {
		o.idBaseURL = strings.TrimRight(u, "/")
	}
}

// WithAPIBaseURL overrides the Helix API root.
func WithAPIBaseURL(u string) Option {
	return func(o *options) {
		o.apiBaseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithRetryUnauthorized makes the client drop its token and retry once
// when an API request is answered with 401.
func WithRetryUnauthorized() Option {
	return func(o *options) {
		o.retryUnauthorized = true
	}
}

func newOptions(opts []Option) options {
	o := options{
		idBaseURL:  defaultIDBaseURL,
		apiBaseURL: defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CredentialsFromEnv reads TWITCH_CLIENT_ID and TWITCH_CLIENT_SECRET, plus an
// optional pre-issued TWITCH_ACCESS_TOKEN.
func CredentialsFromEnv() (domain.Credentials, string, error) {
	creds := domain.Credentials{
		ClientID:     os.Getenv("TWITCH_CLIENT_ID"),
		ClientSecret: os.Getenv("TWITCH_CLIENT_SECRET"),
	}
	if creds.ClientID == "" {
		return creds, "", fmt.Errorf("TWITCH_CLIENT_ID environment variable not set")
	}
	if creds.ClientSecret == "" {
		return creds, "", fmt.Errorf("TWITCH_CLIENT_SECRET environment variable not set")
	}
	return creds, os.Getenv("TWITCH_ACCESS_TOKEN"), nil
}
