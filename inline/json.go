// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"

	"github.com/summarist-cli/summarist/catalog"
)

type Output struct {
	Query  string          `json:"query"`
	Result []*catalog.Book `json:"result"`
}

func asJson(books []*catalog.Book, query string) ([]byte, error) {
	if books == nil {
		books = []*catalog.Book{}
	}

	return json.Marshal(&Output{
		Query:  query,
		Result: books,
	})
}
