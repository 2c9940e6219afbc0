// Package catalog provides a client for the hosted book catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/constant"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/network"
)

// Client issues requests against the hosted catalog service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a catalog client configured from the global settings.
func NewClient() *Client {
	return &Client{
		baseURL: viper.GetString(key.CatalogAPIURL),
		http:    network.Client,
	}
}

// statusError converts a non-2xx catalog response into the service's canonical error message.
func statusError(code int) error {
	return fmt.Errorf("HTTP error! status: %d - %s", code, http.StatusText(code))
}

// ErrUnknown is surfaced when the catalog fails in a way that carries no HTTP status.
var ErrUnknown = fmt.Errorf("Unknown error")

// get performs a single catalog fetch and decodes the JSON response into target.
// Failed requests are never retried.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error(err)
		return ErrUnknown
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error(err)
		return ErrUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = statusError(resp.StatusCode)
		log.Error(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		log.Error(err)
		return ErrUnknown
	}

	return nil
}

// GetBook returns the book with the given id.
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	if book := idCacher.Get(id); book.IsPresent() {
		return book.MustGet(), nil
	}

	log.Infof("Fetching book with id: %s", id)
	params := url.Values{}
	params.Set("id", id)

	var book Book
	if err := c.get(ctx, "/getBook", params, &book); err != nil {
		return nil, err
	}

	log.Infof("Got response from catalog, found book %q", book.Title)
	_ = idCacher.Set(id, &book)
	return &book, nil
}

// GetBooks returns the curated feed section with the given status.
func (c *Client) GetBooks(ctx context.Context, status Status) ([]*Book, error) {
	if books := feedCacher.Get(string(status)); books.IsPresent() {
		return books.MustGet(), nil
	}

	log.Infof("Fetching %s books", status)
	params := url.Values{}
	params.Set("status", string(status))

	var books []*Book
	if err := c.get(ctx, "/getBooks", params, &books); err != nil {
		return nil, err
	}

	log.Infof("Got response from catalog, found %d books", len(books))
	for _, book := range books {
		_ = idCacher.Set(book.ID, book)
	}
	_ = feedCacher.Set(string(status), books)
	return books, nil
}

// Search returns the books matching the given author or title text.
func (c *Client) Search(ctx context.Context, text string) ([]*Book, error) {
	text = normalizedTitle(text)

	if _, failed := failCacher.Get(text).Get(); failed {
		return nil, fmt.Errorf("failed to search for %s", text)
	}

	if ids, ok := searchCacher.Get(text).Get(); ok {
		books := lo.FilterMap(ids, func(item string, _ int) (*Book, bool) {
			return idCacher.Get(item).Get()
		})

		if len(books) == 0 {
			_ = searchCacher.Delete(text)
			return c.Search(ctx, text)
		}

		return books, nil
	}

	log.Infof("Searching catalog for %q", text)
	params := url.Values{}
	params.Set("search", text)

	var books []*Book
	if err := c.get(ctx, "/getBooksByAuthorOrTitle", params, &books); err != nil {
		_ = failCacher.Set(text, true)
		return nil, err
	}

	log.Infof("Got response from catalog, found %d results", len(books))
	ids := make([]string, len(books))
	for i, book := range books {
		ids[i] = book.ID
		_ = idCacher.Set(book.ID, book)
	}
	_ = searchCacher.Set(text, ids)
	return books, nil
}
