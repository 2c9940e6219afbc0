// Package catalog provides a client for the hosted book catalog service.
package catalog

import (
	"context"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/util"
)

// notFoundSentinel marks a title that previously produced no results.
const notFoundSentinel = "-"

// FindClosest returns the catalog book closest to the given title.
// It will levenshtein compare the given title with all the titles the search returns.
func (c *Client) FindClosest(ctx context.Context, title string) (*Book, error) {
	title = normalizedTitle(title)
	return c.findClosest(ctx, title, title, 0, 3)
}

func (c *Client) findClosest(ctx context.Context, title, originalTitle string, try, limit int) (*Book, error) {
	if try >= limit {
		err := fmt.Errorf("no results found in the catalog for %s", title)
		log.Error(err)
		_ = relationCacher.Set(originalTitle, notFoundSentinel)
		return nil, err
	}

	id := relationCacher.Get(title)
	if id.IsPresent() {
		if id.MustGet() == notFoundSentinel {
			return nil, fmt.Errorf("no results found in the catalog for %s", title)
		}

		if book, ok := idCacher.Get(id.MustGet()).Get(); ok {
			if try > 0 {
				_ = relationCacher.Set(originalTitle, book.ID)
			}
			return book, nil
		}
	}

	// Execute a search against the catalog service.
	books, err := c.Search(ctx, title)
	if err != nil {
		log.Error(err)
		return nil, err
	}

	if id.IsPresent() {
		found, ok := lo.Find(books, func(item *Book) bool {
			return item.ID == id.MustGet()
		})

		if ok {
			return found, nil
		}

		// The cached relation exists, but the corresponding metadata is missing from the record cache.
		// This suggests that the book was removed from the remote catalog.
		// Cleanup: Remove the stale identifier from the cache to ensure data consistency.
		_ = relationCacher.Delete(title)
		log.Infof("Book with id %s was removed from the catalog", id.MustGet())
	}

	if len(books) == 0 {
		// No exact matches found; attempting recursive search with reduced query specificity.
		words := strings.Split(title, " ")
		if len(words) <= 2 {
			// API rate limit threshold reached; aborting further traversal to prevent escalation.
			return c.findClosest(ctx, title, originalTitle, limit, limit)
		}

		// Decrementing query specificity by removing the trailing token.
		alternateTitle := strings.Join(words[:util.Max(len(words)-1, 1)], " ")
		log.Infof(`No results found in the catalog for %q, trying %q`, title, alternateTitle)
		return c.findClosest(ctx, alternateTitle, originalTitle, try+1, limit)
	}

	// Apply Levenshtein distance to identify the most relevant match from search results.
	closest := lo.MinBy(books, func(a, b *Book) bool {
		return levenshtein.Distance(
			title,
			normalizedTitle(a.Title),
		) < levenshtein.Distance(
			title,
			normalizedTitle(b.Title),
		)
	})

	log.Info("Found closest match: " + closest.Title)

	save := func(t string) {
		if id := relationCacher.Get(t); id.IsAbsent() {
			_ = relationCacher.Set(t, closest.ID)
		}
	}

	save(title)
	save(originalTitle)

	_ = idCacher.Set(closest.ID, closest)
	return closest, nil
}
