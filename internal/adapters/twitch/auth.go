package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"clipscraper/internal/core/domain"
)

// TokenProvider implements ports.TokenSource with the client-credentials grant.
// The token is renewed only when none is held; expiry is not tracked.
type TokenProvider struct {
	creds    domain.Credentials
	tokenURL string
	client   *http.Client

	mu    sync.Mutex
	token string
}

// NewTokenProvider creates a TokenProvider. A non-empty token is used as-is
// until it is invalidated.
func NewTokenProvider(creds domain.Credentials, token string, opts ...Option) *TokenProvider {
	o := newOptions(opts)
	return &TokenProvider{
		creds:    creds,
		tokenURL: o.idBaseURL + "/oauth2/token",
		client:   o.httpClient,
		token:    token,
	}
}

// Token returns the held token, requesting a new one if none is held.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	token, err := p.renew(ctx)
	if err != nil {
		return "", err
	}
	p.token = token
	return token, nil
}

// Invalidate drops the held token.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
}

func (p *TokenProvider) renew(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("client_id", p.creds.ClientID)
	params.Set("client_secret", p.creds.ClientSecret)
	params.Set("grant_type", "client_credentials")
	reqURL := p.tokenURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return "", &domain.AuthError{URL: p.tokenURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &domain.AuthError{
			URL: p.tokenURL,
			Err: &domain.TransportError{Op: "POST", URL: p.tokenURL, Err: err},
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.AuthError{
			URL: p.tokenURL,
			Err: &domain.TransportError{Op: "POST", URL: p.tokenURL, StatusCode: resp.StatusCode},
		}
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &domain.AuthError{URL: p.tokenURL, Err: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if result.AccessToken == "" {
		return "", &domain.AuthError{
			URL: p.tokenURL,
			Err: &domain.MalformedResponseError{Op: "POST", URL: p.tokenURL, Reason: "no access_token"},
		}
	}

	return result.AccessToken, nil
}
