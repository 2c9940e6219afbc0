package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/summarist-cli/summarist/filesystem"
	"github.com/summarist-cli/summarist/network"
	"github.com/summarist-cli/summarist/query"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestClient(t *testing.T) {
	Convey("Given a catalog client", t, func() {
		Convey("GetBook decodes the catalog response", func() {
			var gotPath string
			var gotQuery url.Values
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query()
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"42","title":"Deep Work","author":"Cal Newport","subscriptionRequired":true}`))
			}))
			defer server.Close()

			client := &Client{baseURL: server.URL, http: network.Client}
			book, err := client.GetBook(context.Background(), "42")
			So(err, ShouldBeNil)
			So(gotPath, ShouldEqual, "/getBook")
			So(gotQuery.Get("id"), ShouldEqual, "42")
			So(book.Title, ShouldEqual, "Deep Work")
			So(book.SubscriptionRequired, ShouldBeTrue)
		})

		Convey("Non-2xx responses map to the canonical error message", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			client := &Client{baseURL: server.URL, http: network.Client}
			_, err := client.GetBook(context.Background(), "missing")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "HTTP error! status: 404 - Not Found")
		})

		Convey("Transport failures map to the unknown error", func() {
			client := &Client{baseURL: "http://127.0.0.1:0", http: network.Client}
			_, err := client.GetBook(context.Background(), "any")
			So(err, ShouldEqual, ErrUnknown)
		})

		Convey("Search leaves the query suggestion registry untouched", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"id":"7","title":"Deep Focus","author":"Someone"}]`))
			}))
			defer server.Close()

			client := &Client{baseURL: server.URL, http: network.Client}
			books, err := client.Search(context.Background(), "Deep Focus Untracked")
			So(err, ShouldBeNil)
			So(len(books), ShouldEqual, 1)
			So(query.Suggest("deep focus untracked").IsAbsent(), ShouldBeTrue)
		})
	})
}
