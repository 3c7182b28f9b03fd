package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHTTPSynthClient(t *testing.T) {
	Convey("Given a fake TTS HTTP server", t, func() {
		var gotAuth, gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("fake-audio-bytes"))
		}))
		defer srv.Close()

		Convey("Synthesize posts to /v1/audio/speech with a bearer token and returns the body", func() {
			c := NewHTTPSynthClient(srv.URL, "secret-key", "", nil)
			audio, err := c.Synthesize(context.Background(), "hello world", "alloy")
			So(err, ShouldBeNil)
			So(string(audio), ShouldEqual, "fake-audio-bytes")
			So(gotPath, ShouldEqual, "/v1/audio/speech")
			So(gotAuth, ShouldEqual, "Bearer secret-key")
			So(c.Model, ShouldEqual, "tts-1")
		})
	})

	Convey("Given a server that returns an error status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, "bad voice")
		}))
		defer srv.Close()

		Convey("Synthesize returns a descriptive error", func() {
			c := NewHTTPSynthClient(srv.URL, "", "", nil)
			_, err := c.Synthesize(context.Background(), "hello", "alloy")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "400")
		})
	})
}
