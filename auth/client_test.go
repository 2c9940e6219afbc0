package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"

	"github.com/summarist-cli/summarist/session"
)

func init() {
	keyring.MockInit()
}

func TestSignIn(t *testing.T) {
	Convey("Given an identity provider", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/signin":
				json.NewEncoder(w).Encode(Credentials{UID: "u-1", Email: "reader@example.com", Token: "tok-1"})
			case "/signin/anonymous":
				json.NewEncoder(w).Encode(Credentials{UID: "guest-1", Token: "tok-2"})
			default:
				w.WriteHeader(http.StatusUnauthorized)
			}
		}))
		defer server.Close()

		sessions := session.NewStore()
		client := &Client{baseURL: server.URL, http: server.Client(), sessions: sessions}

		Convey("When signing in with email and password", func() {
			err := client.SignIn(context.Background(), "reader@example.com", "hunter2")

			Convey("Then the session and token are established", func() {
				So(err, ShouldBeNil)
				So(sessions.Current(), ShouldNotBeNil)
				So(sessions.Current().UID, ShouldEqual, "u-1")
				So(sessions.Current().Anonymous, ShouldBeFalse)

				token, err := GetToken()
				So(err, ShouldBeNil)
				So(token, ShouldEqual, "tok-1")
			})

			Convey("And signing out clears both", func() {
				So(client.SignOut(), ShouldBeNil)
				So(sessions.Current(), ShouldBeNil)
			})
		})

		Convey("When signing in as a guest", func() {
			err := client.SignInAsGuest(context.Background())

			Convey("Then the session is anonymous", func() {
				So(err, ShouldBeNil)
				So(sessions.Current(), ShouldNotBeNil)
				So(sessions.Current().Anonymous, ShouldBeTrue)
			})
		})

		Convey("When credentials are rejected", func() {
			err := client.SignUp(context.Background(), "reader@example.com", "hunter2")

			Convey("Then no session is established", func() {
				So(err, ShouldNotBeNil)
				So(sessions.Current(), ShouldBeNil)
			})
		})
	})
}

func TestRestore(t *testing.T) {
	Convey("Given a stored token and an identity provider", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/session" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			switch r.Header.Get("Authorization") {
			case "Bearer tok-live":
				json.NewEncoder(w).Encode(Credentials{UID: "u-1", Email: "reader@example.com"})
			default:
				w.WriteHeader(http.StatusUnauthorized)
			}
		}))
		defer server.Close()

		sessions := session.NewStore()
		client := &Client{baseURL: server.URL, http: server.Client(), sessions: sessions}

		Convey("When the token is still valid", func() {
			So(SetToken("tok-live"), ShouldBeNil)
			current, err := client.Restore(context.Background())

			Convey("Then the previous session is revived", func() {
				So(err, ShouldBeNil)
				So(current, ShouldNotBeNil)
				So(current.UID, ShouldEqual, "u-1")
				So(sessions.Current(), ShouldEqual, current)
			})
		})

		Convey("When the token is stale", func() {
			So(SetToken("tok-stale"), ShouldBeNil)
			current, err := client.Restore(context.Background())

			Convey("Then no session is revived and the token is discarded", func() {
				So(err, ShouldBeNil)
				So(current, ShouldBeNil)
				So(sessions.Current(), ShouldBeNil)

				_, err := GetToken()
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When no token is stored", func() {
			_ = DeleteToken()
			current, err := client.Restore(context.Background())

			Convey("Then restore is a quiet no-op", func() {
				So(err, ShouldBeNil)
				So(current, ShouldBeNil)
			})
		})
	})
}
