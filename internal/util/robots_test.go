package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_Allowed(t *testing.T) {
	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&fetches, 1)
		w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	}))
	defer srv.Close()

	checker := NewRobotsChecker("test-agent", 5*time.Second)
	ctx := context.Background()

	if !checker.Allowed(ctx, srv.URL+"/media/video.mp4") {
		t.Error("allowed path rejected")
	}
	if checker.Allowed(ctx, srv.URL+"/private/video.mp4") {
		t.Error("disallowed path accepted")
	}

	// Second check of the same host uses the cached ruleset
	checker.Allowed(ctx, srv.URL+"/media/other.mp4")
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}
}

func TestRobotsChecker_UnreachableHostAllows(t *testing.T) {
	checker := NewRobotsChecker("test-agent", 200*time.Millisecond)

	if !checker.Allowed(context.Background(), "http://127.0.0.1:1/video.mp4") {
		t.Error("unreachable robots.txt must allow the fetch")
	}
}

func TestRobotsChecker_BadURL(t *testing.T) {
	checker := NewRobotsChecker("test-agent", time.Second)
	if checker.Allowed(context.Background(), "::not a url::") {
		t.Error("unparsable URL must be rejected")
	}
}
