// Package cmd implements the command-line interface for summarist.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/filesystem"
	"github.com/summarist-cli/summarist/inline"
	"github.com/summarist-cli/summarist/query"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The search query to execute for book discovery")
	inlineCmd.Flags().StringP("feed", "f", "", "Fetch a curated feed section instead of searching (selected, recommended, suggested)")
	inlineCmd.Flags().StringP("book", "b", "", "Criteria for selecting a single book from the results")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	inlineCmd.MarkFlagsMutuallyExclusive("query", "feed")

	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("feed", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(catalog.Statuses(), func(s catalog.Status, _ int) string {
			return string(s)
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// parseBookFlag interprets the --book selector. A bare number selects by
// index; otherwise the value is a picker kind with an optional "=" argument.
func parseBookFlag(raw string) (inline.BookPicker, error) {
	kind, value, _ := strings.Cut(raw, "=")

	if _, err := strconv.Atoi(kind); err == nil {
		return inline.ParseBookPicker("index", kind)
	}

	return inline.ParseBookPicker(kind, value)
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Initialize the application for automated execution and data extraction using inline mode.

Book selectors:
  first - first book in the list
  last - last book in the list
  exact=[title] - select the book whose title matches exactly
  [number] - select book by index (starting from 0)

When using the json flag the book selector could be omitted. That way, all found books are included.`,
	Example: `  summarist inline -q "atomic habits" -b first -j
  summarist inline -f selected`,
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("query") && !cmd.Flags().Changed("feed") {
			handleErr(errors.New("either --query or --feed is required"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		searchQuery := lo.Must(cmd.Flags().GetString("query"))

		feed := mo.None[catalog.Status]()
		if feedFlag := lo.Must(cmd.Flags().GetString("feed")); feedFlag != "" {
			status := catalog.Status(feedFlag)
			if !lo.Contains(catalog.Statuses(), status) {
				handleErr(fmt.Errorf("unknown feed section: %s", feedFlag))
			}
			feed = mo.Some(status)
		}

		picker := mo.None[inline.BookPicker]()
		if bookFlag := lo.Must(cmd.Flags().GetString("book")); bookFlag != "" {
			fn, err := parseBookFlag(bookFlag)
			handleErr(err)
			picker = mo.Some(fn)
		}

		var writer io.Writer
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			writer = file
		} else {
			writer = os.Stdout
		}

		options := &inline.Options{
			Out:    writer,
			Query:  searchQuery,
			Feed:   feed,
			Json:   lo.Must(cmd.Flags().GetBool("json")),
			Picker: picker,
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd generates the JSON schema for structured inline mode output.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema for structured inline mode output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "book", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		schema := reflector.Reflect(&inline.Output{})
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
