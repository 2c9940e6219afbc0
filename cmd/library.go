// Package cmd implements the command-line interface for summarist.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/color"
	"github.com/summarist-cli/summarist/icon"
	"github.com/summarist-cli/summarist/library"
	"github.com/summarist-cli/summarist/style"
)

// libraryTracker returns a tracker bound to the shared CLI session store.
func libraryTracker() *library.Tracker {
	return library.NewTracker(account.NewClient(), cliSessions, func() {})
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)

	libraryListCmd.Flags().BoolP("raw", "r", false, "Suppress metadata in the output, printing one title per line")
	libraryListCmd.SetOut(os.Stdout)
}

// libraryCmd provides a parent command for managing the saved books library.
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the saved books of the signed-in account",
}

// libraryListCmd displays the saved books of the signed-in account.
var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display the saved books of the signed-in account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireSession(ctx)

		entries, err := libraryTracker().List(ctx)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetBool("raw"))

		if len(entries) == 0 && !raw {
			cmd.Println(style.Faint("library is empty"))
			return
		}

		for _, entry := range entries {
			if raw {
				cmd.Println(entry.Title)
				continue
			}

			title := entry.Title
			if entry.SubscriptionRequired {
				title = fmt.Sprintf("%s %s", title, icon.Get(icon.Lock))
			}

			cmd.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Book),
				style.Bold(title),
				style.Fg(color.Purple)(entry.Author),
				style.Faint("added "+entry.AddedAt.Format("2006-01-02")),
			)
		}
	},
}

// libraryAddCmd saves a catalog book to the account's library.
var libraryAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Save a catalog book to the account's library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireSession(ctx)

		book, err := catalog.NewClient().GetBook(ctx, args[0])
		handleErr(err)

		handleErr(libraryTracker().Add(ctx, book))
		fmt.Printf(
			"%s added %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(book.Title),
		)
	},
}

// libraryRemoveCmd removes a saved book from the account's library.
var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a saved book from the account's library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		requireSession(ctx)

		handleErr(libraryTracker().Remove(ctx, args[0]))
		fmt.Printf(
			"%s removed %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Yellow)(args[0]),
		)
	},
}
