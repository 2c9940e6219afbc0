// Package account provides a client for the per-user document store backing profiles and saved books.
package account

import (
	"time"

	"github.com/summarist-cli/summarist/catalog"
)

// Profile is the users/{uid} document.
type Profile struct {
	SubscriptionStatus string    `json:"subscriptionStatus"`
	Email              string    `json:"email"`
	LastActive         time.Time `json:"lastActive"`
}

// LibraryEntry is the users/{uid}/myBooks/{bookId} document: the saved book
// fields plus the server-assigned save timestamp.
type LibraryEntry struct {
	catalog.Book
	AddedAt time.Time `json:"addedAt"`
}
