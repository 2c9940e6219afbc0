// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/history"
	"github.com/summarist-cli/summarist/icon"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/progress"
	"github.com/summarist-cli/summarist/style"
)

// listItem implements the list.Item interface, wrapping various domain models for terminal display.
type listItem struct {
	internal interface{}
	// section is the feed section label the item belongs to, when any.
	section string
	marked  bool
}

func (t *listItem) toggleMark() {
	t.marked = !t.marked
}

func (t *listItem) getMark() string {
	switch t.internal.(type) {
	case *catalog.Book:
		return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Mark))
	default:
		return ""
	}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *catalog.Book:
		title = e.Title
		if e.SubscriptionRequired {
			title = fmt.Sprintf("%s %s", title, icon.Get(icon.Lock))
		}
	case *account.LibraryEntry:
		title = e.Title
		if e.SubscriptionRequired {
			title = fmt.Sprintf("%s %s", title, icon.Get(icon.Lock))
		}
	case *history.SavedBook:
		title = e.Title
	case string:
		title = e
	default:
		title = t.FilterValue()
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

// Description retrieves the multi-line secondary metadata for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *catalog.Book:
		description = bookDescription(e, t.section)
	case *account.LibraryEntry:
		description = bookDescription(&e.Book, t.section)
	case *history.SavedBook:
		completionThreshold := viper.GetFloat64(key.PlayerCompletionPercentage)
		if completionThreshold <= 0 {
			completionThreshold = 80.0
		}

		snapshot := progress.Render(e.Position, e.Duration)
		progressStr := ""
		if e.Percentage > 0 && e.Percentage < completionThreshold {
			progressStr = lipgloss.NewStyle().Foreground(style.Yellow).Render(fmt.Sprintf(" (%.0f%%)", e.Percentage))
		} else if e.Percentage >= completionThreshold {
			progressStr = lipgloss.NewStyle().Foreground(style.Green).Render(" (Finished)")
		}
		description = fmt.Sprintf("%s : %s / %s%s", e.Author, snapshot.FormattedCurrent, snapshot.FormattedTotal, progressStr)
	case string:
		description = ""
	}

	return
}

func bookDescription(book *catalog.Book, section string) string {
	var parts []string

	if section != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.AccentColor).Render(section))
	}

	if viper.GetBool(key.TUIShowAuthors) && book.Author != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Subtext).Render(book.Author))
	}

	if book.AverageRating > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Yellow).Render(fmt.Sprintf("★ %.1f", book.AverageRating)))
	}

	if book.KeyIdeas > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(fmt.Sprintf("%d key ideas", book.KeyIdeas)))
	}

	if len(book.Tags) > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(strings.Join(book.Tags, ", ")))
	}

	return strings.Join(parts, " • ")
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Book:
		if e.Author != "" {
			return e.Title + " " + e.Author
		}
		return e.Title
	case *account.LibraryEntry:
		return e.Title
	case *history.SavedBook:
		return e.Title
	case string:
		return e
	default:
		return ""
	}
}
