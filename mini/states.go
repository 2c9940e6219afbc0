// Package mini implements a lightweight, minimalist interface for book search and playback.
package mini

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/access"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/history"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/player"
	"github.com/summarist-cli/summarist/progress"
	"github.com/summarist-cli/summarist/util"
	"golang.org/x/exp/slices"
)

type state int

const (
	booksSearchState state = iota + 1
	bookSelectState
	listenState
	historySelectState
	quitState
)

func (m *mini) handleBookSearchState() error {
	var searchLoop func() error
	title("Search Books")

	searchLoop = func() error {
		in, err := getInput(func(s string) bool {
			return s != ""
		})

		if err != nil {
			return err
		}

		query := in.value

		erase := progressIndicator("Searching Query..")
		m.cachedBooks[query], err = m.catalog.Search(context.Background(), query)
		erase()
		if err != nil {
			fail(err.Error())
			return searchLoop()
		}

		max := lo.Min([]int{len(m.cachedBooks[query]), viper.GetInt(key.MiniSearchLimit)})
		m.cachedBooks[query] = m.cachedBooks[query][:max]

		if len(m.cachedBooks[query]) == 0 {
			// Title-distance fallback catches typos the search endpoint misses.
			if closest, err := m.catalog.FindClosest(context.Background(), query); err == nil {
				m.cachedBooks[query] = []*catalog.Book{closest}
			} else {
				fail("No search results found")
				return searchLoop()
			}
		}

		m.query = query
		m.newState(bookSelectState)
		return nil
	}

	return searchLoop()
}

func (m *mini) handleBookSelectState() error {
	title("Query Results >>")
	b, book, err := menu(m.cachedBooks[m.query])
	if err != nil {
		return err
	}

	if quit.eq(b) {
		m.newState(quitState)
		return nil
	}

	allowed, err := m.gate(book)
	if err != nil {
		return err
	}
	if !allowed {
		return nil
	}

	m.selectedBook = book
	m.resumeFrom = 0
	m.newState(listenState)
	return nil
}

// gate evaluates the access decision for the book and reports whether
// playback may start. Denials print a hint and keep the current state.
func (m *mini) gate(book *catalog.Book) (bool, error) {
	current := m.sessions.Current()

	var status string
	if current != nil && book.SubscriptionRequired {
		erase := progressIndicator("Checking Subscription..")
		status = m.account.SubscriptionStatus(context.Background(), current.UID)
		erase()
	}

	switch access.Evaluate(book, current, status) {
	case access.RequireSignIn:
		fail("Sign in first: run \"summarist auth login\"")
		return false, nil
	case access.RequireUpgrade:
		fail("This title requires an active premium subscription")
		return false, nil
	}

	return true, nil
}

func (m *mini) handleListenState() error {
	book := m.selectedBook

	backend := player.ForName(viper.GetString(key.Player))
	if err := backend.Play(book.AudioLink, book.Title, nil); err != nil {
		return err
	}
	defer util.Ignore(backend.Close)

	controller := player.NewController(backend)
	if err := controller.Listen(); err != nil {
		log.Warnf("playback event stream unavailable: %v", err)
	}
	defer controller.Detach()

	if m.resumeFrom > 0 {
		if err := backend.Seek(m.resumeFrom); err != nil {
			log.Warnf("resume seek failed: %v", err)
		}
	}

	skipSeconds := float64(viper.GetInt(key.PlayerSkipSeconds))

	save := func() {
		if !viper.GetBool(key.HistorySaveOnListen) {
			return
		}
		status := controller.Status()
		if err := history.Save(book, status.Position, status.Duration); err != nil {
			log.Warnf("history save failed: %v", err)
		}
	}

	for {
		util.ClearScreen()
		status := controller.Status()
		title(fmt.Sprintf("Listening to %s", book.Title))
		snapshot := progress.Render(status.Position, status.Duration)
		fmt.Printf("%s / %s (%d%%)\n", snapshot.FormattedCurrent, snapshot.FormattedTotal, snapshot.Percent)

		b, _, err := menu([]fmt.Stringer{}, pause, forward, backward, back, search)
		if err != nil {
			save()
			return err
		}

		switch b {
		case pause:
			if err := controller.TogglePlayPause(); err != nil {
				fail(err.Error())
			}
		case forward:
			if err := controller.Skip(skipSeconds); err != nil {
				fail(err.Error())
			}
		case backward:
			if err := controller.Skip(-skipSeconds); err != nil {
				fail(err.Error())
			}
		case back:
			save()
			m.previousState()
			return nil
		case search:
			save()
			m.newState(booksSearchState)
			return nil
		case quit:
			save()
			m.newState(quitState)
			return nil
		}
	}
}

func (m *mini) handleHistorySelectState() error {
	h, err := history.Get()
	if err != nil {
		return err
	}

	if len(h) == 0 {
		fail("Nothing to continue, search instead")
		m.newState(booksSearchState)
		return nil
	}

	saved := lo.Values(h)
	slices.SortFunc(saved, func(a, b *history.SavedBook) int {
		return strings.Compare(a.Title, b.Title)
	})

	title("Continue Listening >>")
	b, record, err := menu(saved)
	if err != nil {
		return err
	}

	if quit.eq(b) {
		m.newState(quitState)
		return nil
	}

	erase := progressIndicator("Fetching Book..")
	book, err := m.catalog.GetBook(context.Background(), record.ID)
	erase()
	if err != nil {
		return err
	}

	allowed, err := m.gate(book)
	if err != nil {
		return err
	}
	if !allowed {
		m.newState(booksSearchState)
		return nil
	}

	m.selectedBook = book
	m.resumeFrom = record.Position
	m.newState(listenState)
	return nil
}
