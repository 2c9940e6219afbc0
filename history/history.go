// Package history provides the implementation for tracking and persisting listening progress.
package history

import (
	"github.com/metafates/gache"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/filesystem"
	"github.com/summarist-cli/summarist/progress"
	"github.com/summarist-cli/summarist/where"
)

// cacher provides an abstracted, disk-backed registry for listening progress records.
var cacher = gache.New[map[string]*SavedBook](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of historical listening records from the persistent store.
func Get() (map[string]*SavedBook, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedBook), nil
	}
	return cached, nil
}

// Save persists the listening position of a specific book to the history registry.
func Save(book *catalog.Book, position, duration float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedBook(book)

	// Idempotency: keep the furthest observed position to prevent regressions on re-listen.
	if existing, exists := saved[record.encode()]; exists {
		if position < existing.Position {
			position = existing.Position
		}
		if duration <= 0 {
			duration = existing.Duration
		}
	}
	record.Position = position
	record.Duration = duration
	record.Percentage = float64(progress.Percent(position, duration))

	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific listening record from the history registry.
func Remove(book *SavedBook) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, book.encode())
	return cacher.Set(saved)
}
