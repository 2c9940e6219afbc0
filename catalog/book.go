// Package catalog provides a client for the hosted book catalog service.
package catalog

import (
	"fmt"
	"strings"
)

// Status identifies a curated feed section of the catalog.
type Status string

const (
	StatusSelected    Status = "selected"
	StatusRecommended Status = "recommended"
	StatusSuggested   Status = "suggested"
)

// Statuses returns all feed sections served by the catalog.
func Statuses() []Status {
	return []Status{StatusSelected, StatusRecommended, StatusSuggested}
}

// Book represents a single catalog record. Field names mirror the JSON shape
// served by the hosted catalog and must not be changed.
type Book struct {
	ID                   string   `json:"id"`
	Author               string   `json:"author"`
	Title                string   `json:"title"`
	SubTitle             string   `json:"subTitle"`
	ImageLink            string   `json:"imageLink"`
	AudioLink            string   `json:"audioLink"`
	TotalRating          int      `json:"totalRating"`
	AverageRating        float64  `json:"averageRating"`
	KeyIdeas             int      `json:"keyIdeas"`
	Type                 string   `json:"type"`
	Status               string   `json:"status"`
	SubscriptionRequired bool     `json:"subscriptionRequired"`
	Summary              string   `json:"summary"`
	Tags                 []string `json:"tags"`
	BookDescription      string   `json:"bookDescription"`
	AuthorDescription    string   `json:"authorDescription"`
}

// String implements the Stringer interface.
func (b *Book) String() string {
	return b.Title
}

// Caption returns a short display line combining title and author.
func (b *Book) Caption() string {
	if b.Author == "" {
		return b.Title
	}
	return fmt.Sprintf("%s - %s", b.Title, b.Author)
}

// normalizedTitle returns a lowercased, trimmed string for consistent comparison.
func normalizedTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
