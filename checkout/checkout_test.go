package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/summarist-cli/summarist/key"
)

func TestCreateSession(t *testing.T) {
	viper.Set(key.CheckoutPollInterval, 1)
	viper.Set(key.CheckoutPollLimit, 5)

	Convey("Given a billing service that resolves after one poll", t, func() {
		polls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				json.NewEncoder(w).Encode(Session{ID: "cs_1"})
			case http.MethodGet:
				polls++
				if polls < 2 {
					json.NewEncoder(w).Encode(Session{ID: "cs_1"})
					return
				}
				json.NewEncoder(w).Encode(Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"})
			}
		}))
		defer server.Close()

		client := &Client{baseURL: server.URL, http: server.Client()}

		Convey("When creating a session", func() {
			url, err := client.CreateSession(context.Background(), "user-1")

			Convey("Then it returns the redirect URL", func() {
				So(err, ShouldBeNil)
				So(url, ShouldEqual, "https://pay.example.com/cs_1")
			})
		})
	})

	Convey("Given a billing service that rejects the session", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				json.NewEncoder(w).Encode(Session{ID: "cs_2"})
			case http.MethodGet:
				json.NewEncoder(w).Encode(Session{ID: "cs_2", Error: "card declined"})
			}
		}))
		defer server.Close()

		client := &Client{baseURL: server.URL, http: server.Client()}

		Convey("When creating a session", func() {
			url, err := client.CreateSession(context.Background(), "user-1")

			Convey("Then the rejection surfaces as an error", func() {
				So(url, ShouldBeEmpty)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "card declined")
			})
		})
	})
}
