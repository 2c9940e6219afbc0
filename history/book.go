package history

import (
	"fmt"

	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/progress"
)

// SavedBook represents a single listening entry preserved in the user's history.
type SavedBook struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	AudioLink  string  `json:"audio_link"`
	ImageLink  string  `json:"image_link"`
	Premium    bool    `json:"premium"`
	Position   float64 `json:"position"`
	Duration   float64 `json:"duration"`
	Percentage float64 `json:"percentage"`
}

func (s *SavedBook) encode() string {
	return s.ID
}

func (s *SavedBook) String() string {
	return fmt.Sprintf("%s : %s / %s", s.Title, progress.FormatTime(s.Position), progress.FormatTime(s.Duration))
}

func newSavedBook(book *catalog.Book) *SavedBook {
	return &SavedBook{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		AudioLink: book.AudioLink,
		ImageLink: book.ImageLink,
		Premium:   book.SubscriptionRequired,
	}
}
