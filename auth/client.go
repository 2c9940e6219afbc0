package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/constant"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/network"
	"github.com/summarist-cli/summarist/session"
)

// Credentials is the identity provider's answer to a successful sign-in.
type Credentials struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Client talks to the hosted identity provider. Every successful sign-in
// stores the token in the system keyring and publishes the new session to the
// store, so subscribers observe the change as a session-changed event.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
}

// NewClient returns an identity client configured from the global settings.
func NewClient(sessions *session.Store) *Client {
	return &Client{
		baseURL:  viper.GetString(key.IdentityAPIURL),
		http:     network.Client,
		sessions: sessions,
	}
}

func (c *Client) post(ctx context.Context, path string, body any) (*Credentials, error) {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var credentials Credentials
	if err := json.NewDecoder(resp.Body).Decode(&credentials); err != nil {
		return nil, err
	}
	return &credentials, nil
}

// establish stores the credentials and publishes the new session.
func (c *Client) establish(credentials *Credentials, anonymous bool) error {
	if err := SetToken(credentials.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	c.sessions.Set(&session.Session{
		UID:       credentials.UID,
		Email:     credentials.Email,
		Anonymous: anonymous,
	})
	return nil
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	credentials, err := c.post(ctx, "/signin", body)
	if err != nil {
		return err
	}
	return c.establish(credentials, false)
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	credentials, err := c.post(ctx, "/signup", body)
	if err != nil {
		return err
	}
	return c.establish(credentials, false)
}

// SignInAsGuest establishes an anonymous session.
func (c *Client) SignInAsGuest(ctx context.Context) error {
	credentials, err := c.post(ctx, "/signin/anonymous", nil)
	if err != nil {
		return err
	}
	return c.establish(credentials, true)
}

// Restore revives the previous session from the token in the system keyring.
// A missing or stale token is not an error, it simply yields no session.
func (c *Client) Restore(ctx context.Context) (*session.Session, error) {
	token, err := GetToken()
	if err != nil || token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/session", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if err := DeleteToken(); err != nil {
			log.Warnf("Stale token removal failed: %v", err)
		}
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var credentials Credentials
	if err := json.NewDecoder(resp.Body).Decode(&credentials); err != nil {
		return nil, err
	}

	current := &session.Session{
		UID:       credentials.UID,
		Email:     credentials.Email,
		Anonymous: credentials.Email == "",
	}
	c.sessions.Set(current)
	return current, nil
}

// SignOut discards the stored token and clears the live session.
func (c *Client) SignOut() error {
	if err := DeleteToken(); err != nil {
		log.Warnf("Token removal failed during sign-out: %v", err)
	}
	c.sessions.Clear()
	return nil
}
