// Package access decides whether the current identity may consume a given book.
package access

import (
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/session"
)

// PremiumStatus is the exact subscription sentinel that unlocks gated books.
// Any other value, including an empty status from a failed fetch, denies access.
const PremiumStatus = "premium"

// Decision is the outcome of evaluating a consume attempt.
type Decision int

const (
	// Allow routes to the player view.
	Allow Decision = iota
	// RequireSignIn opens the sign-in flow without navigating away.
	RequireSignIn
	// RequireUpgrade routes to the plan-selection flow.
	RequireUpgrade
)

// String implements the Stringer interface.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RequireSignIn:
		return "requireSignIn"
	case RequireUpgrade:
		return "requireUpgrade"
	default:
		return "unknown"
	}
}

// Evaluate is a pure decision function over its three inputs.
// subscriptionStatus is the fetched subscription value; callers pass the empty
// string when the fetch failed, which denies gated access.
func Evaluate(book *catalog.Book, current *session.Session, subscriptionStatus string) Decision {
	if current == nil {
		return RequireSignIn
	}

	if book.SubscriptionRequired && subscriptionStatus != PremiumStatus {
		return RequireUpgrade
	}

	return Allow
}

// Router carries the side effects attached to each decision outcome.
type Router struct {
	OpenSignIn func()
	Upgrade    func(book *catalog.Book)
	Play       func(book *catalog.Book)
}

// Decide evaluates the consume attempt and dispatches the matching route.
func (r Router) Decide(book *catalog.Book, current *session.Session, subscriptionStatus string) Decision {
	decision := Evaluate(book, current, subscriptionStatus)

	switch decision {
	case RequireSignIn:
		if r.OpenSignIn != nil {
			r.OpenSignIn()
		}
	case RequireUpgrade:
		if r.Upgrade != nil {
			r.Upgrade(book)
		}
	case Allow:
		if r.Play != nil {
			r.Play(book)
		}
	}

	return decision
}
