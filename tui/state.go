// Package tui provides the primary terminal user interface implementation.
package tui

type state int

const (
	loadingState state = iota
	errorState
	feedState
	searchState
	booksState
	bookDetailState
	libraryState
	historyState
	signInState
	plansState
	playerState
)
