package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"clipscraper/internal/core/domain"
	"clipscraper/internal/core/ports"
)

// PageSize is the number of clips requested per listing page.
const PageSize = 30

// Client implements ports.ClipSource using the Helix REST API.
type Client struct {
	clientID          string
	tokens            ports.TokenSource
	apiBaseURL        string
	client            *http.Client
	retryUnauthorized bool
}

// NewClient creates a new Client. Every request is authenticated with a
// token taken from tokens.
func NewClient(clientID string, tokens ports.TokenSource, opts ...Option) *Client {
	o := newOptions(opts)
	return &Client{
		clientID:          clientID,
		tokens:            tokens,
		apiBaseURL:        o.apiBaseURL,
		client:            o.httpClient,
		retryUnauthorized: o.retryUnauthorized,
	}
}

// ResolveUser looks up the broadcaster ID for a login name.
func (c *Client) ResolveUser(ctx context.Context, login string) (string, bool, error) {
	q := url.Values{}
	q.Set("login", login)
	reqURL := c.apiBaseURL + "/users?" + q.Encode()

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return "", false, err
	}

	if result.Data == nil {
		return "", false, &domain.MalformedResponseError{Op: "GET", URL: reqURL, Reason: "no data array"}
	}
	if len(result.Data) == 0 {
		return "", false, nil
	}
	if result.Data[0].ID == "" {
		return "", false, &domain.MalformedResponseError{Op: "GET", URL: reqURL, Reason: "user has no id"}
	}
	return result.Data[0].ID, true, nil
}

// ListClips fetches one page of a broadcaster's clips.
func (c *Client) ListClips(ctx context.Context, broadcasterID, cursor string) (*domain.ClipPage, error) {
	q := url.Values{}
	q.Set("broadcaster_id", broadcasterID)
	q.Set("first", strconv.Itoa(PageSize))
	q.Set("after", cursor)
	reqURL := c.apiBaseURL + "/clips?" + q.Encode()

	var result struct {
		Data       []json.RawMessage `json:"data"`
		Pagination *struct {
			Cursor *string `json:"cursor"`
		} `json:"pagination"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		return nil, &domain.MalformedResponseError{Op: "GET", URL: reqURL, Reason: "no data array"}
	}

	page := &domain.ClipPage{Clips: make([]domain.Clip, 0, len(result.Data))}
	for i, raw := range result.Data {
		clip, err := parseClip(raw)
		if err != nil {
			return nil, &domain.ValidationError{URL: reqURL, Index: i, Err: err}
		}
		page.Clips = append(page.Clips, clip)
	}

	// An empty cursor would restart the listing, so it ends it instead.
	if p := result.Pagination; p != nil && p.Cursor != nil && *p.Cursor != "" {
		page.Cursor = *p.Cursor
		page.HasNext = true
	}
	return page, nil
}

func parseClip(raw json.RawMessage) (domain.Clip, error) {
	var item struct {
		Title        *string    `json:"title"`
		ThumbnailURL *string    `json:"thumbnail_url"`
		CreatorName  *string    `json:"creator_name"`
		CreatedAt    *time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return domain.Clip{}, err
	}

	switch {
	case item.Title == nil:
		return domain.Clip{}, errors.New("missing title")
	case item.ThumbnailURL == nil:
		return domain.Clip{}, errors.New("missing thumbnail_url")
	case item.CreatorName == nil:
		return domain.Clip{}, errors.New("missing creator_name")
	case item.CreatedAt == nil:
		return domain.Clip{}, errors.New("missing created_at")
	}
	if _, err := url.ParseRequestURI(*item.ThumbnailURL); err != nil {
		return domain.Clip{}, fmt.Errorf("thumbnail_url: %w", err)
	}

	return domain.Clip{
		Title:        *item.Title,
		ThumbnailURL: *item.ThumbnailURL,
		CreatorName:  *item.CreatorName,
		CreatedAt:    *item.CreatedAt,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v interface{}) error {
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && c.retryUnauthorized {
		resp.Body.Close()
		c.tokens.Invalidate()
		if resp, err = c.get(ctx, reqURL); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.TransportError{Op: "GET", URL: reqURL, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &domain.MalformedResponseError{Op: "GET", URL: reqURL, Reason: err.Error()}
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "GET", URL: reqURL, Err: err}
	}
	return resp, nil
}
