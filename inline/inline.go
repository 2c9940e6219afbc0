// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/internal/cache"
	"github.com/summarist-cli/summarist/log"
)

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Catalog == nil {
		options.Catalog = catalog.NewClient()
	}

	books, err := fetch(ctx, options)
	if err != nil {
		return err
	}

	// Narrow the result set when a picker is defined.
	var selected []*catalog.Book
	if options.Picker.IsPresent() {
		picker := options.Picker.MustGet()
		if choice := picker(books); choice != nil {
			selected = []*catalog.Book{choice}
		}
	} else {
		selected = books
	}

	if len(selected) == 0 {
		if options.Json {
			return writeJson(options.Out, nil, options)
		}
		return nil
	}

	if options.Json {
		return writeJson(options.Out, selected, options)
	}

	for _, book := range selected {
		fmt.Fprintln(options.Out, book.Caption())
	}

	return nil
}

// fetch resolves the result set from either a feed section or a search query,
// backed by a short-lived filesystem cache.
func fetch(ctx context.Context, options *Options) ([]*catalog.Book, error) {
	var (
		books []*catalog.Book
		key   string
	)

	if options.Feed.IsPresent() {
		status := options.Feed.MustGet()
		key = cache.GenerateKey(string(status), "feed")
		if cache.Read(key, &books) {
			return books, nil
		}

		fetched, err := options.Catalog.GetBooks(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("feed fetch failed for %s: %w", status, err)
		}
		books = fetched
	} else {
		key = cache.GenerateKey(options.Query, "search")
		if cache.Read(key, &books) {
			return books, nil
		}

		fetched, err := options.Catalog.Search(ctx, options.Query)
		if err != nil {
			return nil, fmt.Errorf("search failed for %q: %w", options.Query, err)
		}
		books = fetched
	}

	if err := cache.Write(key, books); err != nil {
		log.Warnf("inline result cache write failed: %v", err)
	}
	return books, nil
}

func writeJson(out io.Writer, books []*catalog.Book, options *Options) error {
	data, err := asJson(books, options.Query)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
