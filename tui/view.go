// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/summarist-cli/summarist/color"
	"github.com/summarist-cli/summarist/icon"
	"github.com/summarist-cli/summarist/progress"
	"github.com/summarist-cli/summarist/style"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case feedState:
		output = b.viewFeed()
	case searchState:
		output = b.viewSearch()
	case booksState:
		output = b.viewBooks()
	case bookDetailState:
		output = b.viewBookDetail()
	case libraryState:
		output = b.viewLibrary()
	case historyState:
		output = b.viewHistory()
	case signInState:
		output = b.viewSignIn()
	case plansState:
		output = b.viewPlans()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewFeed() string {
	return listExtraPaddingStyle.Render(b.feedC.View())
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Books"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("tab: %s", suggestion)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewBooks() string {
	return listExtraPaddingStyle.Render(b.booksC.View())
}

func (b *statefulBubble) viewBookDetail() string {
	book := b.selectedBook
	if book == nil {
		return b.renderLines(true, []string{style.Title("Book")})
	}

	title := book.Title
	if book.SubscriptionRequired {
		title = fmt.Sprintf("%s %s", title, icon.Get(icon.Lock))
	}

	lines := []string{
		style.Title(title),
		"",
	}

	if book.SubTitle != "" {
		lines = append(lines, style.Italic(book.SubTitle), "")
	}

	var facts []string
	if book.Author != "" {
		facts = append(facts, style.Fg(color.Purple)(book.Author))
	}
	if book.AverageRating > 0 {
		facts = append(facts, fmt.Sprintf("★ %.1f (%d ratings)", book.AverageRating, book.TotalRating))
	}
	if book.KeyIdeas > 0 {
		facts = append(facts, fmt.Sprintf("%d key ideas", book.KeyIdeas))
	}
	if len(facts) > 0 {
		lines = append(lines, strings.Join(facts, " • "), "")
	}

	if len(book.Tags) > 0 {
		lines = append(lines, style.Faint(strings.Join(book.Tags, ", ")), "")
	}

	if b.tracker.InLibrary(book.ID) {
		lines = append(lines, style.Fg(style.Green)(icon.Get(icon.Mark)+" In your library"), "")
	}

	if book.BookDescription != "" {
		lines = append(lines, wrap.String(book.BookDescription, b.width), "")
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewLibrary() string {
	return listExtraPaddingStyle.Render(b.libraryC.View())
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewSignIn() string {
	lines := []string{
		style.Title("Sign In"),
		"",
		b.emailInputC.View(),
		b.passwordInputC.View(),
		"",
		style.Faint("enter: sign in • ctrl+s: sign up • ctrl+g: continue as guest"),
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlans() string {
	var bookLine string
	if b.selectedBook != nil {
		bookLine = fmt.Sprintf("%s is part of the premium catalog.", style.Fg(color.Purple)(b.selectedBook.Title))
	}

	lines := []string{
		style.Title("Go Premium"),
		"",
		bookLine,
		"",
		icon.Get(icon.Audio) + " Unlimited audio summaries",
		icon.Get(icon.Book) + " The full premium catalog",
		"",
		style.Faint("enter opens the checkout page in your browser"),
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlayer() string {
	var bookName string

	book := b.currentPlayingBook
	if book != nil {
		bookName = book.Caption()
	}

	snapshot := progress.Render(float64(b.playPosition), float64(b.playDuration))
	bar := b.progressC.ViewAs(float64(snapshot.Percent) / 100)

	return b.renderLines(
		true,
		[]string{
			style.Title("Now Playing"),
			"",
			style.Truncate(b.width)(fmt.Sprintf(icon.Get(icon.Audio)+" %s", style.Fg(color.Purple)(bookName))),
			"",
			bar,
			fmt.Sprintf("%s / %s", snapshot.FormattedCurrent, snapshot.FormattedTotal),
		},
	)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError.Error()))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
