// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/summarist-cli/summarist/access"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/color"
	"github.com/summarist-cli/summarist/history"
	"github.com/summarist-cli/summarist/internal/ui"
	"github.com/summarist-cli/summarist/key"
	"github.com/summarist-cli/summarist/library"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/open"
	"github.com/summarist-cli/summarist/player"
	"github.com/summarist-cli/summarist/style"
	"github.com/summarist-cli/summarist/util"
)

var sectionLabels = map[catalog.Status]string{
	catalog.StatusSelected:    "Selected for you",
	catalog.StatusRecommended: "Recommended",
	catalog.StatusSuggested:   "Suggested",
}

// loadFeed fetches every feed section concurrently and delivers them in
// display order. The suggested shelf is truncated to its configured limit.
func (b *statefulBubble) loadFeed() tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = "Loading your feed"

		var (
			statuses = catalog.Statuses()
			sections = make([]feedSection, len(statuses))
			wg       = sync.WaitGroup{}
			mutex    = sync.Mutex{}
			failed   error
		)

		wg.Add(len(statuses))
		for i, status := range statuses {
			go func(i int, status catalog.Status) {
				defer wg.Done()

				books, err := b.catalog.GetBooks(context.Background(), status)
				if err != nil {
					log.Error(err)
					mutex.Lock()
					failed = err
					mutex.Unlock()
					return
				}

				if status == catalog.StatusSuggested {
					limit := lo.Min([]int{len(books), viper.GetInt(key.FeedSuggestedLimit)})
					books = books[:limit]
				}

				mutex.Lock()
				sections[i] = feedSection{status: status, label: sectionLabels[status], books: books}
				mutex.Unlock()
			}(i, status)
		}

		wg.Wait()

		loaded := lo.Filter(sections, func(s feedSection, _ int) bool {
			return len(s.books) > 0
		})

		if len(loaded) == 0 && failed != nil {
			b.errorChannel <- failed
			return nil
		}

		b.feedLoadedChannel <- loaded
		return nil
	}
}

func (b *statefulBubble) waitForFeed() tea.Cmd {
	return func() tea.Msg {
		select {
		case sections := <-b.feedLoadedChannel:
			return sections
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// searchBooks queries the catalog. The captured generation lets the update
// loop discard responses that resolve after a newer search started.
func (b *statefulBubble) searchBooks(query string) tea.Cmd {
	generation := b.searchGeneration
	return func() tea.Msg {
		log.Info("searching for " + query)
		b.progressStatus = fmt.Sprintf("Searching for %s", style.Fg(color.Purple)(query))

		books, err := b.catalog.Search(context.Background(), query)
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		log.Infof("found %s", util.Quantify(len(books), "book", "books"))
		b.foundBooksChannel <- foundBooks{generation: generation, books: books}
		return nil
	}
}

func (b *statefulBubble) waitForBooks() tea.Cmd {
	return func() tea.Msg {
		select {
		case found := <-b.foundBooksChannel:
			return found
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// loadBook resolves a full catalog record by id through the stale-guarded
// loader, so only the most recently requested book is ever surfaced.
func (b *statefulBubble) loadBook(id string) tea.Cmd {
	return func() tea.Msg {
		b.loader.Load(context.Background(), id)

		state, book, err := b.loader.Snapshot()
		switch state {
		case catalog.StateReady:
			b.bookLoadedChannel <- book
		case catalog.StateFailed:
			b.errorChannel <- err
		}
		return nil
	}
}

func (b *statefulBubble) waitForBook() tea.Cmd {
	return func() tea.Msg {
		select {
		case book := <-b.bookLoadedChannel:
			return book
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

func (b *statefulBubble) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = "Loading your library"

		entries, err := b.tracker.List(context.Background())
		if err != nil {
			if errors.Is(err, library.ErrSignInRequired) {
				entries = nil
			} else {
				log.Error(err)
				b.errorChannel <- err
				return nil
			}
		}

		sort.Slice(entries, func(i, j int) bool {
			return strings.Compare(entries[i].Title, entries[j].Title) < 0
		})

		b.libraryLoadedChannel <- entries
		return nil
	}
}

func (b *statefulBubble) waitForLibrary() tea.Cmd {
	return func() tea.Msg {
		select {
		case entries := <-b.libraryLoadedChannel:
			return entries
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

func (b *statefulBubble) loadHistory() (tea.Cmd, error) {
	saved, err := history.Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return strings.Compare(entries[i].Title, entries[j].Title) < 0
	})

	var items []list.Item
	for _, e := range entries {
		items = append(items, &listItem{
			internal: e,
		})
	}

	return b.historyC.SetItems(items), nil
}

// checkMembership resolves whether the selected book is in the library so the
// detail view can render its membership mark.
func (b *statefulBubble) checkMembership(book *catalog.Book) tea.Cmd {
	return func() tea.Msg {
		inLibrary, err := b.tracker.CheckMembership(context.Background(), book.ID)
		if err != nil {
			log.Warnf("membership check failed: %v", err)
			return nil
		}

		b.membershipChannel <- membershipEvent{book: book, inLibrary: inLibrary}
		return nil
	}
}

// toggleMembership adds or removes the book from the library. Local flags
// flip only after the write succeeds.
func (b *statefulBubble) toggleMembership(book *catalog.Book) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if b.tracker.InLibrary(book.ID) {
			if err := b.tracker.Remove(ctx, book.ID); err != nil {
				log.Error(err)
				b.errorChannel <- err
				return nil
			}
			b.membershipChannel <- membershipEvent{book: book, inLibrary: false, mutated: true}
			return nil
		}

		err := b.tracker.Add(ctx, book)
		if errors.Is(err, library.ErrSignInRequired) {
			// The tracker already opened the sign-in flow.
			return nil
		}
		if err != nil {
			// The tracker queued the write for background replay; the local
			// flag stays unchanged, so just surface a notification.
			log.Error(err)
			return ui.NotifySyncFailure()()
		}

		b.membershipChannel <- membershipEvent{book: book, inLibrary: true, mutated: true}
		return nil
	}
}

func (b *statefulBubble) waitForMembership() tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-b.membershipChannel:
			return event
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// checkAccess fetches the subscription status backing the access decision for
// a listen attempt. A failed fetch yields the empty status, which denies
// premium access.
func (b *statefulBubble) checkAccess(book *catalog.Book) tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = "Checking access"

		var status string
		if current := b.sessions.Current(); current != nil && book.SubscriptionRequired {
			status = b.account.SubscriptionStatus(context.Background(), current.UID)
		}

		b.subscriptionChannel <- subscriptionCheck{book: book, status: status}
		return nil
	}
}

func (b *statefulBubble) waitForAccess() tea.Cmd {
	return func() tea.Msg {
		select {
		case check := <-b.subscriptionChannel:
			return check
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// signIn authenticates against the identity provider. Kind selects the
// email/password flow, registration, or a guest session.
func (b *statefulBubble) signIn(kind, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var err error
		switch kind {
		case "signup":
			err = b.identity.SignUp(ctx, email, password)
		case "guest":
			err = b.identity.SignInAsGuest(ctx)
		default:
			err = b.identity.SignIn(ctx, email, password)
		}

		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		b.signedInChannel <- b.sessions.Current()
		return nil
	}
}

func (b *statefulBubble) waitForSignIn() tea.Cmd {
	return func() tea.Msg {
		select {
		case current := <-b.signedInChannel:
			return signedInMsg{session: current}
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// startCheckout creates a checkout session and resolves the hosted payment
// page URL.
func (b *statefulBubble) startCheckout() tea.Cmd {
	return func() tea.Msg {
		current := b.sessions.Current()
		if current == nil {
			b.errorChannel <- fmt.Errorf("sign in before upgrading")
			return nil
		}

		b.progressStatus = "Contacting billing service"
		url, err := b.billing.CreateSession(context.Background(), current.UID)
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		b.checkoutChannel <- url
		return nil
	}
}

func (b *statefulBubble) waitForCheckout() tea.Cmd {
	return func() tea.Msg {
		select {
		case url := <-b.checkoutChannel:
			return checkoutReadyMsg{url: url}
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// playBook launches the audio backend for the given book and attaches the
// playback controller to its event stream.
func (b *statefulBubble) playBook(book *catalog.Book) tea.Cmd {
	return func() tea.Msg {
		title := book.Caption()
		log.Infof("Playing %s via player IPC", title)
		b.progressStatus = fmt.Sprintf("Launching %s", style.Fg(color.Purple)(title))

		if b.audioPlayer == nil {
			b.audioPlayer = player.ForName(viper.GetString(key.Player))
		}

		if err := b.audioPlayer.Play(book.AudioLink, title, nil); err != nil {
			log.Errorf("failed to play book: %v", err)
			b.errorChannel <- fmt.Errorf("playback failed: %w", err)
			return nil
		}

		controller := player.NewController(b.audioPlayer)
		if err := controller.Listen(); err != nil {
			log.Warnf("playback event stream unavailable: %v", err)
		}
		b.controller = controller

		if b.resumeFrom > 0 {
			if err := b.audioPlayer.Seek(b.resumeFrom); err != nil {
				log.Warnf("resume seek failed: %v", err)
			}
			b.resumeFrom = 0
		}

		// Feed the seek bar at 1 Hz; drop ticks the UI has not consumed yet.
		b.audioPlayer.StopIPCTicker()
		b.audioPlayer.StartIPCTicker(func(position, duration int) {
			select {
			case b.playbackTickChannel <- playbackTick{position: position, duration: duration}:
			default:
			}
		})

		if viper.GetBool(key.HistorySaveOnListen) {
			_ = history.Save(book, 0, 0)
		}

		log.Infof("player launched on socket %s", b.audioPlayer.Socket())
		return b.waitForPlayerExit()()
	}
}

func (b *statefulBubble) waitForPlaybackTick() tea.Cmd {
	return func() tea.Msg {
		return <-b.playbackTickChannel
	}
}

func (b *statefulBubble) waitForPlayerExit() tea.Cmd {
	audioPlayer := b.audioPlayer
	return func() tea.Msg {
		<-audioPlayer.Wait()
		return playbackEndedMsg{}
	}
}

// savePlaybackProgress persists the furthest observed position of the current
// book.
func (b *statefulBubble) savePlaybackProgress() {
	if b.currentPlayingBook == nil || b.controller == nil {
		return
	}
	if !viper.GetBool(key.HistorySaveOnListen) {
		return
	}

	status := b.controller.Status()
	if err := history.Save(b.currentPlayingBook, status.Position, status.Duration); err != nil {
		log.Warnf("history save failed: %v", err)
	}
}

// stopPlayback shuts the audio backend down and records progress.
func (b *statefulBubble) stopPlayback() {
	b.savePlaybackProgress()

	if b.controller != nil {
		b.controller.Detach()
		b.controller = nil
	}
	if b.audioPlayer != nil {
		b.audioPlayer.StopIPCTicker()
		_ = b.audioPlayer.Close()
		b.audioPlayer = nil
	}

	b.playPosition = 0
	b.playDuration = 0
}

// routeListen dispatches a listen attempt through the access router.
// Anonymous visitors go straight to sign-in without a remote call.
func (b *statefulBubble) routeListen(book *catalog.Book) tea.Cmd {
	if b.sessions.Current() == nil {
		b.accessRouter.Decide(book, nil, "")
		return nil
	}

	if !book.SubscriptionRequired {
		decision := b.accessRouter.Decide(book, b.sessions.Current(), "")
		if decision == access.Allow {
			return tea.Batch(b.playBook(book), b.waitForPlaybackTick(), b.startLoading(), b.spinnerC.Tick)
		}
		return nil
	}

	b.newState(loadingState)
	return tea.Batch(b.startLoading(), b.checkAccess(book), b.waitForAccess(), b.spinnerC.Tick)
}

// webBase is the public web app used for "open in browser" actions.
const webBase = "https://summarist.app"

func (b *statefulBubble) openBookPage(book *catalog.Book) {
	if err := open.Start(fmt.Sprintf("%s/book/%s", webBase, book.ID)); err != nil {
		b.raiseError(err)
	}
}
