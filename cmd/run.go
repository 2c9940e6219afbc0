// Package cmd implements the command-line interface for summarist.
package cmd

import (
	"context"
	"errors"

	"github.com/summarist-cli/summarist/auth"
	"github.com/summarist-cli/summarist/log"
	"github.com/summarist-cli/summarist/session"
)

// cliSessions is the process-wide session store shared by every command, so a
// session restored once from the keyring is visible to the TUI and mini modes.
var cliSessions = session.NewStore()

var identityClient = auth.NewClient(cliSessions)

// restoreSession revives any keyring-backed session for this process. Failures
// leave the user signed out rather than aborting the command.
func restoreSession(ctx context.Context) *session.Session {
	if current := cliSessions.Current(); current != nil {
		return current
	}

	current, err := identityClient.Restore(ctx)
	if err != nil {
		log.Warnf("Session restore failed: %v", err)
		return nil
	}

	return current
}

// requireSession restores the stored session, failing when nobody is signed in.
func requireSession(ctx context.Context) *session.Session {
	if current := restoreSession(ctx); current != nil {
		return current
	}

	handleErr(errors.New(`not signed in: run "summarist auth login"`))
	return nil
}
