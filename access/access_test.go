package access

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/catalog"
	"github.com/summarist-cli/summarist/session"
)

func TestEvaluate(t *testing.T) {
	Convey("Given the gating decision table", t, func() {
		free := &catalog.Book{ID: "f", SubscriptionRequired: false}
		gated := &catalog.Book{ID: "g", SubscriptionRequired: true}
		signedIn := &session.Session{UID: "u1"}

		Convey("No session requires sign in, even for free books", func() {
			So(Evaluate(free, nil, ""), ShouldEqual, RequireSignIn)
			So(Evaluate(gated, nil, PremiumStatus), ShouldEqual, RequireSignIn)
		})

		Convey("Gated book with a basic subscription requires upgrade", func() {
			So(Evaluate(gated, signedIn, "basic"), ShouldEqual, RequireUpgrade)
		})

		Convey("Gated book with a premium subscription is allowed", func() {
			So(Evaluate(gated, signedIn, "premium"), ShouldEqual, Allow)
		})

		Convey("Free book is allowed regardless of subscription", func() {
			So(Evaluate(free, signedIn, ""), ShouldEqual, Allow)
			So(Evaluate(free, signedIn, "basic"), ShouldEqual, Allow)
			So(Evaluate(free, signedIn, "premium"), ShouldEqual, Allow)
		})

		Convey("A failed subscription fetch fails closed", func() {
			// Empty status stands in for any fetch error or absent record
			So(Evaluate(gated, signedIn, ""), ShouldEqual, RequireUpgrade)
			So(Evaluate(gated, signedIn, "Premium"), ShouldEqual, RequireUpgrade)
		})
	})
}

func TestDecide(t *testing.T) {
	Convey("Given a router", t, func() {
		gated := &catalog.Book{ID: "g", SubscriptionRequired: true}

		var signIn, upgraded, played bool
		router := Router{
			OpenSignIn: func() { signIn = true },
			Upgrade:    func(*catalog.Book) { upgraded = true },
			Play:       func(*catalog.Book) { played = true },
		}

		Convey("RequireSignIn opens the sign-in flow only", func() {
			So(router.Decide(gated, nil, ""), ShouldEqual, RequireSignIn)
			So(signIn, ShouldBeTrue)
			So(upgraded, ShouldBeFalse)
			So(played, ShouldBeFalse)
		})

		Convey("Allow routes to the player", func() {
			So(router.Decide(gated, &session.Session{UID: "u"}, PremiumStatus), ShouldEqual, Allow)
			So(played, ShouldBeTrue)
		})
	})
}
