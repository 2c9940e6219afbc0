// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/samber/mo"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/util"
)

// BookPicker narrows a result set down to a single book, or nil when nothing matches.
type BookPicker func([]*catalog.Book) *catalog.Book

type Options struct {
	Out     io.Writer
	Catalog *catalog.Client
	Query   string
	Feed    mo.Option[catalog.Status]
	Json    bool
	Picker  mo.Option[BookPicker]
}

func ParseBookPicker(kind, value string) (BookPicker, error) {
	switch kind {
	case "first":
		return func(books []*catalog.Book) *catalog.Book {
			if len(books) == 0 {
				return nil
			}
			return books[0]
		}, nil
	case "last":
		return func(books []*catalog.Book) *catalog.Book {
			if len(books) == 0 {
				return nil
			}
			return books[len(books)-1]
		}, nil
	case "exact":
		return func(books []*catalog.Book) *catalog.Book {
			for _, b := range books {
				if b.Title == value {
					return b
				}
			}
			return nil
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(books []*catalog.Book) *catalog.Book {
			if len(books) == 0 {
				return nil
			}
			i := util.Min(idx, uint64(len(books)-1))
			return books[i]
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}
