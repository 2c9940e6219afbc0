// Package mini implements a lightweight, minimalist interface for book search and playback.
package mini

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/summarist-cli/summarist/icon"
	"github.com/summarist-cli/summarist/style"
	"github.com/summarist-cli/summarist/util"
)

// bind is a single-letter menu action.
type bind struct {
	key         string
	description string
}

func (b *bind) eq(other *bind) bool {
	return b != nil && b == other
}

var (
	quit     = &bind{"q", "quit"}
	back     = &bind{"b", "back"}
	search   = &bind{"s", "new search"}
	pause    = &bind{"p", "play/pause"}
	forward  = &bind{"f", "skip forward"}
	backward = &bind{"r", "skip backward"}
)

type input struct {
	value string
}

func title(s string) {
	fmt.Println(style.Title(s))
}

func fail(s string) {
	fmt.Printf("%s %s\n", icon.Get(icon.Fail), s)
}

func progressIndicator(s string) (eraser func()) {
	return util.PrintErasable(fmt.Sprintf("%s %s", icon.Get(icon.Progress), style.Faint(s)))
}

// getInput reads lines from stdin until the validator accepts one.
func getInput(validator func(string) bool) (*input, error) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}

		value := strings.TrimSpace(scanner.Text())
		if validator(value) {
			return &input{value: value}, nil
		}
	}
}

// menu renders a numbered item list plus letter-bound actions and blocks until
// the user picks one. A number returns the matching item with a nil bind; a
// letter returns the matching bind. Quit is always available.
func menu[T fmt.Stringer](items []T, binds ...*bind) (*bind, T, error) {
	var none T

	binds = append(binds, quit)

	for i, item := range items {
		fmt.Printf("[%d] %s\n", i+1, style.Truncate(truncateAt)(item.String()))
	}
	for _, b := range binds {
		fmt.Printf("[%s] %s\n", b.key, style.Faint(b.description))
	}

	for {
		in, err := getInput(func(s string) bool {
			return s != ""
		})
		if err != nil {
			return nil, none, err
		}

		for _, b := range binds {
			if in.value == b.key {
				return b, none, nil
			}
		}

		if index, err := strconv.Atoi(in.value); err == nil && 1 <= index && index <= len(items) {
			return nil, items[index-1], nil
		}
	}
}
