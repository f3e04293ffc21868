package token

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client consumes the /token endpoint. The session layer calls Fetch once
// per session start, before subscribing to the speech source.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a client for the given /token URL.
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves a token. A non-200 response or malformed body is an error.
func (c *Client) Fetch(ctx context.Context) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Response{}, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("token fetch: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		json.NewDecoder(res.Body).Decode(&body)
		if body.Error != "" {
			return Response{}, fmt.Errorf("token fetch: %s: %s", res.Status, body.Error)
		}
		return Response{}, fmt.Errorf("token fetch: %s", res.Status)
	}

	var resp Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("token fetch: %w", err)
	}
	if resp.Token == "" {
		return Response{}, fmt.Errorf("token fetch: empty token in response")
	}
	return resp, nil
}
