// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/spf13/viper"

	"github.com/summarist-cli/summarist/access"
	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/color"
	"github.com/summarist-cli/summarist/history"
	"github.com/summarist-cli/summarist/internal/ui"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/open"
	"github.com/summarist-cli/summarist/query"
	"github.com/summarist-cli/summarist/style"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Process Ephemeral UI Notifications (captures `string` and `ui.ClearNotificationMsg`)
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			b.stopPlayback()
			return b, tea.Quit
		}

		// Input Guard: Ignore non-priority keys during asynchronous operations.
		if b.busy && b.state != playerState && b.state != errorState {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			onListBack := func(l *list.Model) tea.Cmd {
				l.ResetSelected()
				l.ResetFilter()
				return tea.Batch(cmd, l.NewStatusMessage(""))
			}

			switch b.state {
			case searchState:
				b.inputC.SetValue("")
			case booksState:
				if b.booksC.FilterState() != list.Unfiltered {
					b.booksC, cmd = b.booksC.Update(msg)
					return b, cmd
				}
				cmd = onListBack(&b.booksC)
			case libraryState:
				if b.libraryC.FilterState() != list.Unfiltered {
					b.libraryC, cmd = b.libraryC.Update(msg)
					return b, cmd
				}
				cmd = onListBack(&b.libraryC)
			case historyState:
				if b.historyC.FilterState() != list.Unfiltered {
					b.historyC, cmd = b.historyC.Update(msg)
					return b, cmd
				}
				cmd = onListBack(&b.historyC)
			case feedState:
				if b.feedC.FilterState() != list.Unfiltered {
					b.feedC, cmd = b.feedC.Update(msg)
					return b, cmd
				}
				cmd = onListBack(&b.feedC)
			case signInState:
				b.emailInputC.Blur()
				b.passwordInputC.Blur()
			case playerState:
				b.stopPlayback()
			}

			b.previousState()
			b.stopLoading()
			return b, cmd
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case feedState:
		return b.updateFeed(msg)
	case searchState:
		return b.updateSearch(msg)
	case booksState:
		return b.updateBooks(msg)
	case bookDetailState:
		return b.updateBookDetail(msg)
	case libraryState:
		return b.updateLibrary(msg)
	case historyState:
		return b.updateHistory(msg)
	case signInState:
		return b.updateSignIn(msg)
	case plansState:
		return b.updatePlans(msg)
	case playerState:
		return b.updatePlayer(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds = make([]tea.Cmd, 0)
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() > 0 {
				b.previousState()
			} else {
				return b, tea.Quit
			}
		}
	case []feedSection:
		var items []list.Item
		for _, section := range msg {
			for _, book := range section.books {
				items = append(items, &listItem{internal: book, section: section.label})
			}
		}

		cmds = append(cmds, b.feedC.SetItems(items))
		b.newState(feedState)
		b.stopLoading()
	case foundBooks:
		// Discard results a newer search has superseded.
		if msg.generation != b.searchGeneration {
			return b, nil
		}

		items := make([]list.Item, len(msg.books))
		for i, book := range msg.books {
			items[i] = &listItem{internal: book}
		}

		cmds = append(cmds, b.booksC.SetItems(items))
		b.newState(booksState)
		b.stopLoading()
	case *catalog.Book:
		b.selectedBook = msg
		b.newState(bookDetailState)
		b.stopLoading()
		cmds = append(cmds, b.checkMembership(msg), b.waitForMembership())
	case []*account.LibraryEntry:
		items := make([]list.Item, len(msg))
		for i, entry := range msg {
			items[i] = &listItem{internal: entry}
		}

		cmds = append(cmds, b.libraryC.SetItems(items))
		b.newState(libraryState)
		b.stopLoading()
	case subscriptionCheck:
		b.stopLoading()
		decision := b.accessRouter.Decide(msg.book, b.sessions.Current(), msg.status)
		if decision == access.Allow {
			return b, tea.Batch(b.playBook(msg.book), b.waitForPlaybackTick(), b.startLoading(), b.spinnerC.Tick)
		}
		return b, nil
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateFeed(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.feedC.Items()); n > 0 && b.feedC.Index() == 0 {
				b.feedC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.feedC.Items()); n > 0 && b.feedC.Index() == n-1 {
				b.feedC.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.toSearch):
			b.newState(searchState)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.toLibrary):
			b.newState(loadingState)
			return b, tea.Batch(b.startLoading(), b.loadLibrary(), b.waitForLibrary(), b.spinnerC.Tick)
		case bubblesKey.Matches(msg, b.keymap.toHistory):
			historyCmd, err := b.loadHistory()
			if err != nil {
				b.raiseError(err)
				return b, nil
			}
			b.newState(historyState)
			return b, historyCmd
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.feedC.SelectedItem() == nil {
				break
			}
			book := b.feedC.SelectedItem().(*listItem).internal.(*catalog.Book)
			b.selectedBook = book
			b.resumeFrom = 0
			go query.Remember(book.Title, 2)
			b.newState(bookDetailState)
			return b, tea.Batch(b.checkMembership(book), b.waitForMembership())
		}
	}

	b.feedC, cmd = b.feedC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && b.inputC.Value() != "":
			b.searchGeneration++
			b.progressStatus = fmt.Sprintf("Searching for %s...", b.inputC.Value())
			b.startLoading()
			b.newState(loadingState)
			go query.Remember(b.inputC.Value(), 1)
			return b, tea.Batch(b.searchBooks(b.inputC.Value()), b.waitForBooks(), b.spinnerC.Tick)
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.searchSuggestion = mo.None[string]()
			b.inputC.SetCursor(len(b.inputC.Value()))
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" && viper.GetBool(key.SearchShowQuerySuggestions) {
		if suggestion, ok := query.Suggest(b.inputC.Value()).Get(); ok && suggestion != b.inputC.Value() {
			b.searchSuggestion = mo.Some(suggestion)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
	} else if b.searchSuggestion.IsPresent() {
		b.searchSuggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updateBooks(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.booksC.Items()); n > 0 && b.booksC.Index() == 0 {
				b.booksC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.booksC.Items()); n > 0 && b.booksC.Index() == n-1 {
				b.booksC.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.booksC.SelectedItem() == nil {
				break
			}
			book := b.booksC.SelectedItem().(*listItem).internal.(*catalog.Book)
			b.selectedBook = book
			b.resumeFrom = 0
			go query.Remember(book.Title, 2)
			b.newState(bookDetailState)
			return b, tea.Batch(b.checkMembership(book), b.waitForMembership())
		}
	}

	b.booksC, cmd = b.booksC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateBookDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case membershipEvent:
		if b.selectedBook != nil && msg.book.ID == b.selectedBook.ID && msg.mutated {
			if msg.inLibrary {
				return b, ui.Notify(fmt.Sprintf("Added %s to your library", style.Fg(color.Orange)(msg.book.Title)))
			}
			return b, ui.Notify(fmt.Sprintf("Removed %s from your library", style.Fg(color.Orange)(msg.book.Title)))
		}
		return b, nil
	case subscriptionCheck:
		b.stopLoading()
		decision := b.accessRouter.Decide(msg.book, b.sessions.Current(), msg.status)
		if decision == access.Allow {
			return b, tea.Batch(b.playBook(msg.book), b.waitForPlaybackTick(), b.startLoading(), b.spinnerC.Tick)
		}
		return b, nil
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.listen):
			if b.selectedBook == nil {
				break
			}
			return b, b.routeListen(b.selectedBook)
		case bubblesKey.Matches(msg, b.keymap.toggleSaved):
			if b.selectedBook == nil {
				break
			}
			return b, tea.Batch(b.toggleMembership(b.selectedBook), b.waitForMembership())
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if b.selectedBook != nil {
				b.openBookPage(b.selectedBook)
			}
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		}
	}

	return b, nil
}

func (b *statefulBubble) updateLibrary(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case membershipEvent:
		// A removal from the library view reloads the list.
		if msg.mutated && !msg.inLibrary {
			return b, tea.Batch(b.loadLibrary(), b.waitForLibrary())
		}
		return b, nil
	case []*account.LibraryEntry:
		items := make([]list.Item, len(msg))
		for i, entry := range msg {
			items[i] = &listItem{internal: entry}
		}
		return b, b.libraryC.SetItems(items)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.libraryC.Items()); n > 0 && b.libraryC.Index() == 0 {
				b.libraryC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.libraryC.Items()); n > 0 && b.libraryC.Index() == n-1 {
				b.libraryC.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.remove):
			if b.libraryC.SelectedItem() == nil {
				break
			}
			entry := b.libraryC.SelectedItem().(*listItem).internal.(*account.LibraryEntry)
			return b, tea.Batch(b.toggleMembership(&entry.Book), b.waitForMembership())
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.libraryC.SelectedItem() == nil {
				break
			}
			entry := b.libraryC.SelectedItem().(*listItem).internal.(*account.LibraryEntry)
			b.selectedBook = &entry.Book
			b.resumeFrom = 0
			b.newState(bookDetailState)
			return b, tea.Batch(b.checkMembership(&entry.Book), b.waitForMembership())
		}
	}

	b.libraryC, cmd = b.libraryC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.up):
			if n := len(b.historyC.Items()); n > 0 && b.historyC.Index() == 0 {
				b.historyC.Select(n - 1)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.down):
			if n := len(b.historyC.Items()); n > 0 && b.historyC.Index() == n-1 {
				b.historyC.Select(0)
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.remove):
			if b.historyC.SelectedItem() == nil {
				break
			}
			entry := b.historyC.SelectedItem().(*listItem).internal.(*history.SavedBook)
			_ = history.Remove(entry)
			historyCmd, err := b.loadHistory()
			if err != nil {
				b.raiseError(err)
				return b, nil
			}
			return b, historyCmd
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.historyC.SelectedItem() == nil {
				break
			}
			entry := b.historyC.SelectedItem().(*listItem).internal.(*history.SavedBook)
			b.resumeFrom = entry.Position
			b.progressStatus = fmt.Sprintf("Loading %s...", entry.Title)
			b.newState(loadingState)
			return b, tea.Batch(b.startLoading(), b.loadBook(entry.ID), b.waitForBook(), b.spinnerC.Tick)
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSignIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case signedInMsg:
		b.stopLoading()
		b.emailInputC.SetValue("")
		b.passwordInputC.SetValue("")

		who := "guest"
		if msg.session != nil && msg.session.Email != "" {
			who = msg.session.Email
		}

		// Return to the view that triggered the sign-in.
		b.previousState()
		return b, ui.Notify(fmt.Sprintf("Signed in as %s", style.Fg(color.Orange)(who)))
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.switchField):
			b.signInFocus = (b.signInFocus + 1) % 2
			if b.signInFocus == 0 {
				b.emailInputC.Focus()
				b.passwordInputC.Blur()
			} else {
				b.emailInputC.Blur()
				b.passwordInputC.Focus()
			}
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.guestSignIn):
			b.startLoading()
			return b, tea.Batch(b.signIn("guest", "", ""), b.waitForSignIn())
		case bubblesKey.Matches(msg, b.keymap.signUp):
			if b.emailInputC.Value() == "" || b.passwordInputC.Value() == "" {
				return b, ui.Notify("Enter an email and password first")
			}
			b.startLoading()
			return b, tea.Batch(b.signIn("signup", b.emailInputC.Value(), b.passwordInputC.Value()), b.waitForSignIn())
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.emailInputC.Value() == "" || b.passwordInputC.Value() == "" {
				return b, ui.Notify("Enter an email and password first")
			}
			b.startLoading()
			return b, tea.Batch(b.signIn("signin", b.emailInputC.Value(), b.passwordInputC.Value()), b.waitForSignIn())
		}
	}

	var cmd tea.Cmd
	b.emailInputC, cmd = b.emailInputC.Update(msg)
	cmds = append(cmds, cmd)
	b.passwordInputC, cmd = b.passwordInputC.Update(msg)
	cmds = append(cmds, cmd)

	return b, tea.Batch(cmds...)
}

func (b *statefulBubble) updatePlans(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case checkoutReadyMsg:
		b.stopLoading()
		if err := open.Start(msg.url); err != nil {
			b.raiseError(err)
			return b, nil
		}
		return b, ui.Notify("Checkout opened in your browser")
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.startLoading()
			return b, tea.Batch(b.startCheckout(), b.waitForCheckout(), b.spinnerC.Tick)
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		}
	}

	var cmd tea.Cmd
	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case playbackTick:
		b.playPosition = msg.position
		if msg.duration > 0 {
			b.playDuration = msg.duration
		}
		return b, b.waitForPlaybackTick()
	case playbackEndedMsg:
		b.stopLoading()
		b.stopPlayback()
		b.currentPlayingBook = nil
		b.previousState()
		return b, nil
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			if b.controller != nil {
				if err := b.controller.TogglePlayPause(); err != nil {
					return b, ui.Notify("Player not responding")
				}
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.skipForward):
			if b.controller != nil {
				_ = b.controller.Skip(float64(viper.GetInt(key.PlayerSkipSeconds)))
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.skipBackward):
			if b.controller != nil {
				_ = b.controller.Skip(-float64(viper.GetInt(key.PlayerSkipSeconds)))
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.stopPlayback()
			b.currentPlayingBook = nil
			b.previousState()
			return b, b.stopLoading()
		}
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}
	return b, cmd
}
