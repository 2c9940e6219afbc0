// Package mini implements a lightweight, minimalist interface for book search and playback.
package mini

import (
	"os"

	"github.com/samber/lo"
	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/session"
	"github.com/summarist-cli/summarist/util"
)

var (
	truncateAt = 100
)

type Options struct {
	Continue bool
	Sessions *session.Store
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	catalog  *catalog.Client
	account  *account.Client
	sessions *session.Store

	cachedBooks map[string][]*catalog.Book

	query        string
	selectedBook *catalog.Book
	resumeFrom   float64
}

func newMini(sessions *session.Store) *mini {
	if sessions == nil {
		sessions = session.NewStore()
	}

	return &mini{
		statesHistory: util.Stack[state]{},
		catalog:       catalog.NewClient(),
		account:       account.NewClient(),
		sessions:      sessions,
		cachedBooks:   make(map[string][]*catalog.Book),
	}
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

func Run(options *Options) error {
	m := newMini(options.Sessions)
	m.state = booksSearchState
	if options.Continue {
		m.state = historySelectState
	}

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for {
		if err := m.handleState(); err != nil {
			return err
		}
	}
}

func (m *mini) handleState() error {
	switch m.state {
	case historySelectState:
		return m.handleHistorySelectState()
	case booksSearchState:
		return m.handleBookSearchState()
	case bookSelectState:
		return m.handleBookSelectState()
	case listenState:
		return m.handleListenState()
	case quitState:
		os.Exit(0)
	}

	return nil
}
