package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/auth"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/constant"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/network"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = fmt.Errorf("document not found")

// Client issues point reads, point writes, point deletes and collection scans
// against the per-user document store.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns an account client configured from the global settings.
func NewClient() *Client {
	return &Client{
		baseURL: viper.GetString(key.AccountAPIURL),
		http:    network.Client,
	}
}

// do dispatches an authorized request and decodes the JSON response into target when provided.
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

	// Use the stored authentication token if available.
	if token, err := auth.GetToken(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("account service returned status %d", resp.StatusCode)
	}

	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	return nil
}

// Profile performs a point read of users/{uid}.
func (c *Client) Profile(ctx context.Context, uid string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/"+uid, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SubscriptionStatus returns the subscription status of users/{uid}.
// Any error, absence or unexpected value yields the empty status: premium
// access is never granted on a failed fetch.
func (c *Client) SubscriptionStatus(ctx context.Context, uid string) string {
	profile, err := c.Profile(ctx, uid)
	if err != nil {
		log.Warnf("Subscription fetch failed for %s, treating as no subscription: %v", uid, err)
		return ""
	}
	return profile.SubscriptionStatus
}

// UpsertProfile merges the email into users/{uid}; the service assigns the
// lastActive server timestamp.
func (c *Client) UpsertProfile(ctx context.Context, uid, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.do(ctx, http.MethodPatch, "/users/"+uid, body, nil)
}

// LibraryEntryPath returns the document path of a single saved book,
// users/{uid}/myBooks/{bookId}. Queued replays use the same path.
func LibraryEntryPath(uid, bookID string) string {
	return "/users/" + uid + "/myBooks/" + bookID
}

// HasLibraryEntry performs a point read of users/{uid}/myBooks/{bookId} and
// reports whether the document exists.
func (c *Client) HasLibraryEntry(ctx context.Context, uid, bookID string) (bool, error) {
	err := c.do(ctx, http.MethodGet, LibraryEntryPath(uid, bookID), nil, nil)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PutLibraryEntry writes the book into users/{uid}/myBooks/{bookId}; the
// service assigns the addedAt server timestamp. Re-adding simply overwrites.
func (c *Client) PutLibraryEntry(ctx context.Context, uid string, book *catalog.Book) error {
	return c.do(ctx, http.MethodPut, LibraryEntryPath(uid, book.ID), book, nil)
}

// DeleteLibraryEntry removes users/{uid}/myBooks/{bookId}. Deleting an absent
// entry is a no-op success.
func (c *Client) DeleteLibraryEntry(ctx context.Context, uid, bookID string) error {
	err := c.do(ctx, http.MethodDelete, LibraryEntryPath(uid, bookID), nil, nil)
	if err == ErrNotFound {
		return nil
	}
	return err
}

// ListLibrary performs a collection scan of users/{uid}/myBooks.
func (c *Client) ListLibrary(ctx context.Context, uid string) ([]*LibraryEntry, error) {
	var entries []*LibraryEntry
	if err := c.do(ctx, http.MethodGet, "/users/"+uid+"/myBooks", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
