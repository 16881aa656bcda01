package apis

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSubscribeFeedState(t *testing.T) {
	Convey("feed events are delivered once per change", t, func() {
		var gotAuth atomic.Bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != feedPath {
				http.NotFound(w, r)
				return
			}
			_, _, ok := r.BasicAuth()
			gotAuth.Store(ok)
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			for _, state := range []string{"ok", "ok", "warning"} {
				fmt.Fprintf(w, "data: {\"state\": %q}\n\n", state)
			}
			w.(http.Flusher).Flush()
			<-r.Context().Done()
		}))
		defer server.Close()
		defer server.CloseClientConnections()

		states := SubscribeFeedState(HTTPCredentials{BaseURL: server.URL, Username: "u", Password: "p"})

		var got []FeedState
		timeout := time.After(5 * time.Second)
		for len(got) < 2 {
			select {
			case state := <-states:
				got = append(got, state)
			case <-timeout:
				t.Fatal("timed out waiting for feed states")
			}
		}
		So(got, ShouldResemble, []FeedState{{State: "ok"}, {State: "warning"}})
		So(gotAuth.Load(), ShouldBeTrue)
	})
}
