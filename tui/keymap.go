// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/summarist-cli/summarist/color"
	"github.com/summarist-cli/summarist/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm,
	listen,
	toggleSaved,
	remove,
	openURL,
	acceptSearchSuggestion,
	toSearch, toLibrary, toHistory,
	back,
	up, down, left, right,
	top, bottom,
	playPause, skipForward, skipBackward,
	guestSignIn, signUp, switchField,
	showHelp key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		listen: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("listen")),
		),
		toggleSaved: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add/remove from library"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		openURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept search suggestion"),
		),
		toSearch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		toLibrary: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "my library"),
		),
		toHistory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue listening"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		skipForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "skip forward"),
		),
		skipBackward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "skip backward"),
		),
		guestSignIn: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "continue as guest"),
		),
		signUp: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "sign up instead"),
		),
		switchField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit, k.back))
	case feedState:
		return h(k.confirm, k.toSearch, k.toLibrary, k.toHistory), h(k.confirm, k.toSearch, k.toLibrary, k.toHistory, k.quit)
	case searchState:
		return to2(h(k.confirm, k.acceptSearchSuggestion, k.back, k.forceQuit))
	case booksState:
		return to2(h(k.confirm, k.back))
	case bookDetailState:
		return h(k.listen, k.toggleSaved, k.back), h(k.listen, k.toggleSaved, k.openURL, k.back)
	case libraryState:
		return to2(h(k.confirm, k.remove, k.back))
	case historyState:
		return to2(h(k.confirm, k.remove, k.back))
	case signInState:
		return to2(h(k.confirm, k.switchField, k.signUp, k.guestSignIn, k.back))
	case plansState:
		return to2(h(withDescription(k.confirm, "upgrade"), k.back))
	case playerState:
		return to2(h(k.playPause, k.skipForward, k.skipBackward, k.back, k.forceQuit))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
