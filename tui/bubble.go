// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"

	"github.com/summarist-cli/summarist/access"
	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/auth"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/checkout"
	"github.com/summarist-cli/summarist/constant"
	"github.com/summarist-cli/summarist/internal/ui"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/library"
	"github.com/summarist-cli/summarist/player"
	"github.com/summarist-cli/summarist/session"
	"github.com/summarist-cli/summarist/style"
	"github.com/summarist-cli/summarist/util"
)

// feedSection is one curated shelf of the for-you feed.
type feedSection struct {
	status catalog.Status
	label  string
	books  []*catalog.Book
}

// foundBooks carries search results together with the generation that
// requested them so stale responses can be discarded.
type foundBooks struct {
	generation uint64
	books      []*catalog.Book
}

// membershipEvent reports the library membership of a book, either from a
// check or after a mutation.
type membershipEvent struct {
	book      *catalog.Book
	inLibrary bool
	mutated   bool
}

// subscriptionCheck carries the fetched subscription status for a gated
// listen attempt.
type subscriptionCheck struct {
	book   *catalog.Book
	status string
}

type signedInMsg struct {
	session *session.Session
}

type checkoutReadyMsg struct {
	url string
}

type playbackTick struct {
	position int
	duration int
}

type playbackEndedMsg struct{}

// statefulBubble encapsulates the comprehensive application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool
	busy          bool // Protects against rapid input during async ops

	keymap *statefulKeymap

	// components
	spinnerC       spinner.Model
	inputC         textinput.Model
	emailInputC    textinput.Model
	passwordInputC textinput.Model
	feedC          list.Model
	booksC         list.Model
	libraryC       list.Model
	historyC       list.Model
	progressC      progress.Model
	helpC          help.Model

	// collaborators
	catalog      *catalog.Client
	account      *account.Client
	identity     *auth.Client
	billing      *checkout.Client
	sessions     *session.Store
	tracker      *library.Tracker
	loader       *catalog.Loader
	accessRouter access.Router

	// channels
	feedLoadedChannel    chan []feedSection
	foundBooksChannel    chan foundBooks
	bookLoadedChannel    chan *catalog.Book
	libraryLoadedChannel chan []*account.LibraryEntry
	membershipChannel    chan membershipEvent
	subscriptionChannel  chan subscriptionCheck
	signedInChannel      chan *session.Session
	checkoutChannel      chan string
	playbackTickChannel  chan playbackTick
	errorChannel         chan error

	searchGeneration uint64
	progressStatus   string

	selectedBook       *catalog.Book
	currentPlayingBook *catalog.Book
	resumeFrom         float64
	playPosition       int
	playDuration       int
	audioPlayer        player.Player
	controller         *player.Controller
	signInFocus        int
	lastError          error

	width, height    int
	searchSuggestion mo.Option[string]
	notifier         *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates an idempotent transition to a target state, recording the previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Do not push these states to history
	if !lo.Contains([]state{
		loadingState,
		playerState,
	}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		s := b.statesHistory.Pop()
		b.setState(s)
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	styledWidth := width - x
	styledHeight := height - y

	listWidth := width - xx
	listHeight := height - yy

	b.feedC.SetSize(listWidth, listHeight)
	b.feedC.Help.Width = listWidth

	b.booksC.SetSize(listWidth, listHeight)
	b.booksC.Help.Width = listWidth

	b.libraryC.SetSize(listWidth, listHeight)
	b.libraryC.Help.Width = listWidth

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = listWidth
	b.emailInputC.Width = listWidth
	b.passwordInputC.Width = listWidth

	b.width = styledWidth
	b.height = styledHeight
	b.helpC.Width = listWidth
}

// startLoading enters a concurrent loading state, initializing visual indicators across child components.
func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	b.busy = true
	return tea.Batch(b.feedC.StartSpinner(), b.booksC.StartSpinner(), b.libraryC.StartSpinner())
}

// stopLoading exits the loading state and synchronizes child component visual indicators.
func (b *statefulBubble) stopLoading() tea.Cmd {
	b.loading = false
	b.busy = false
	b.feedC.StopSpinner()
	b.booksC.StopSpinner()
	b.libraryC.StopSpinner()
	return nil
}

// openSignIn switches to the sign-in form without discarding the current
// navigation history, so a successful sign-in returns to the origin view.
func (b *statefulBubble) openSignIn() {
	b.signInFocus = 0
	b.emailInputC.Focus()
	b.passwordInputC.Blur()
	b.newState(signInState)
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()

	sessions := options.Sessions
	if sessions == nil {
		sessions = session.NewStore()
	}

	accountClient := account.NewClient()

	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		catalog:  catalog.NewClient(),
		account:  accountClient,
		identity: auth.NewClient(sessions),
		billing:  checkout.NewClient(),
		sessions: sessions,

		feedLoadedChannel:    make(chan []feedSection),
		foundBooksChannel:    make(chan foundBooks),
		bookLoadedChannel:    make(chan *catalog.Book),
		libraryLoadedChannel: make(chan []*account.LibraryEntry),
		membershipChannel:    make(chan membershipEvent),
		subscriptionChannel:  make(chan subscriptionCheck),
		signedInChannel:      make(chan *session.Session),
		checkoutChannel:      make(chan string),
		playbackTickChannel:  make(chan playbackTick, 1),
		errorChannel:         make(chan error),

		notifier: &ui.Model{},
	}

	bubble.loader = catalog.NewLoader(bubble.catalog)
	bubble.tracker = library.NewTracker(accountClient, sessions, bubble.openSignIn)

	// A fresh identity invalidates every cached membership flag.
	sessions.Subscribe(func(*session.Session) {
		bubble.tracker.Reset()
	})

	bubble.accessRouter = access.Router{
		OpenSignIn: func() {
			bubble.openSignIn()
		},
		Upgrade: func(book *catalog.Book) {
			bubble.selectedBook = book
			bubble.newState(plansState)
		},
		Play: func(book *catalog.Book) {
			bubble.currentPlayingBook = book
			bubble.newState(playerState)
		},
	}

	type listOptions struct {
		TitleStyle mo.Option[lipgloss.Style]
	}

	makeList := func(title string, description bool, options *listOptions) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		if titleStyle, ok := options.TitleStyle.Get(); ok {
			listC.Styles.Title = titleStyle
		}
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search Books (v%s)", constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.emailInputC = textinput.New()
	bubble.emailInputC.Placeholder = "you@example.com"
	bubble.emailInputC.CharLimit = 80
	bubble.emailInputC.Prompt = "Email: "

	bubble.passwordInputC = textinput.New()
	bubble.passwordInputC.Placeholder = "password"
	bubble.passwordInputC.CharLimit = 80
	bubble.passwordInputC.Prompt = "Password: "
	bubble.passwordInputC.EchoMode = textinput.EchoPassword

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	bubble.feedC = makeList("For You", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1),
		),
	})
	bubble.feedC.SetStatusBarItemName("book", "books")

	bubble.booksC = makeList("Search Results", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1),
		),
	})
	bubble.booksC.SetStatusBarItemName("book", "books")

	bubble.libraryC = makeList("My Library", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Peach).Padding(0, 1),
		),
	})
	bubble.libraryC.SetStatusBarItemName("book", "books")

	bubble.historyC = makeList("Continue Listening", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1),
		),
	})
	bubble.historyC.SetStatusBarItemName("entry", "entries")

	bubble.options = options

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return &bubble
}
