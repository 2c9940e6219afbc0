// Package cmd implements the command-line interface for summarist.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/inline"
)

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")

	lo.Must0(feedCmd.RegisterFlagCompletionFunc("section", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(catalog.Statuses(), func(s catalog.Status, _ int) string {
			return string(s)
		}), cobra.ShellCompDirectiveNoFileComp
	}))

	feedCmd.SetOut(os.Stdout)
}

// feedCmd prints a curated feed section of the catalog.
var feedCmd = &cobra.Command{
	Use:       "feed [section]",
	Short:     "Print a curated feed section of the catalog",
	Long:      `Fetch and print one curated shelf of the for-you feed (selected, recommended or suggested).`,
	Example:   "  summarist feed recommended",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: lo.Map(catalog.Statuses(), func(s catalog.Status, _ int) string { return string(s) }),
	Run: func(cmd *cobra.Command, args []string) {
		section := catalog.StatusSelected
		if len(args) > 0 {
			section = catalog.Status(args[0])
			if !lo.Contains(catalog.Statuses(), section) {
				handleErr(fmt.Errorf("unknown feed section: %s", args[0]))
			}
		}

		options := &inline.Options{
			Out:  cmd.OutOrStdout(),
			Feed: mo.Some(section),
			Json: lo.Must(cmd.Flags().GetBool("json")),
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}
