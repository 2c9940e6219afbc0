// Package cmd implements the command-line interface for summarist.
package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/summarist-cli/summarist/access"
	"github.com/summarist-cli/summarist/account"
	"github.com/summarist-cli/summarist/color"
	"github.com/summarist-cli/summarist/icon"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().BoolP("guest", "g", false, "Continue with an anonymous guest session")
	authLoginCmd.Flags().BoolP("sign-up", "s", false, "Register a new account instead of signing in")
	authLoginCmd.MarkFlagsMutuallyExclusive("guest", "sign-up")
}

// authCmd manages the authenticated identity used by the hosted services.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the authenticated identity used by the hosted services",
}

// promptCredentials collects an email and password interactively.
func promptCredentials() (email, password string, err error) {
	if err = survey.AskOne(&survey.Input{Message: "Email:"}, &email, survey.WithValidator(survey.Required)); err != nil {
		return
	}

	err = survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required))
	return
}

// authLoginCmd signs in against the hosted identity provider and stores the
// resulting token in the system keyring.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session token to the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		if lo.Must(cmd.Flags().GetBool("guest")) {
			handleErr(identityClient.SignInAsGuest(ctx))
			fmt.Printf("%s signed in as guest\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		email, password, err := promptCredentials()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("sign-up")) {
			handleErr(identityClient.SignUp(ctx, email, password))

			// The document store keeps a profile per identity; seed it so the
			// library has somewhere to live.
			current := cliSessions.Current()
			if current != nil {
				if err := account.NewClient().UpsertProfile(ctx, current.UID, current.Email); err != nil {
					log.Warnf("Profile creation failed: %v", err)
				}
			}
		} else {
			handleErr(identityClient.SignIn(ctx, email, password))
		}

		fmt.Printf(
			"%s signed in as %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(email),
		)
	},
}

// authLogoutCmd discards the stored token and clears the live session.
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(identityClient.SignOut())
		fmt.Printf("%s signed out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

// authStatusCmd reports the current identity and its subscription plan.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current identity and its subscription plan",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		current := restoreSession(ctx)
		if current == nil {
			fmt.Println(style.Faint("not signed in"))
			return
		}

		who := current.Email
		if current.Anonymous || who == "" {
			who = "guest"
		}

		plan := "basic"
		if account.NewClient().SubscriptionStatus(ctx, current.UID) == access.PremiumStatus {
			plan = access.PremiumStatus
		}

		fmt.Printf("%s %s\n", style.Bold("Signed in as"), style.Fg(color.Purple)(who))
		fmt.Printf("%s %s\n", style.Bold("Plan"), style.Fg(color.Yellow)(plan))
	},
}
