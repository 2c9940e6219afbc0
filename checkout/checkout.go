// Package checkout drives the hosted subscription checkout flow.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/auth"
	"github.com/summarist-cli/summarist/constant"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/network"
)

// Session is the checkout-session document resolved by the billing service.
// The service fills in either URL or Error after the document is created.
type Session struct {
	ID    string `json:"id"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client creates checkout sessions against the per-user document store and
// polls them until the billing service resolves a redirect.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a checkout client configured from the global settings.
func NewClient() *Client {
	return &Client{
		baseURL: viper.GetString(key.AccountAPIURL),
		http:    network.Client,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token, err := auth.GetToken(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("checkout service returned status %d", resp.StatusCode)
	}

	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	return nil
}

// CreateSession writes a checkout-session document for the user and polls it
// until the billing service attaches a redirect URL or an error. The returned
// URL is meant to be opened in the user's browser.
func (c *Client) CreateSession(ctx context.Context, uid string) (string, error) {
	body := struct {
		Price      string `json:"price"`
		SuccessURL string `json:"success_url"`
		CancelURL  string `json:"cancel_url"`
	}{
		Price:      viper.GetString(key.CheckoutPriceID),
		SuccessURL: viper.GetString(key.CheckoutSuccessURL),
		CancelURL:  viper.GetString(key.CheckoutCancelURL),
	}

	var created Session
	path := "/users/" + uid + "/checkout_sessions"
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return "", err
	}

	log.Infof("Checkout session %s created, polling for redirect", created.ID)
	return c.awaitRedirect(ctx, path+"/"+created.ID)
}

// awaitRedirect re-reads the session document until the service resolves it.
func (c *Client) awaitRedirect(ctx context.Context, path string) (string, error) {
	interval := time.Duration(viper.GetInt(key.CheckoutPollInterval)) * time.Millisecond
	limit := viper.GetInt(key.CheckoutPollLimit)

	for attempt := 0; attempt < limit; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}

		var session Session
		if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
			return "", err
		}

		if session.Error != "" {
			return "", fmt.Errorf("checkout rejected: %s", session.Error)
		}
		if session.URL != "" {
			return session.URL, nil
		}
	}

	return "", fmt.Errorf("checkout session was not resolved in time")
}
