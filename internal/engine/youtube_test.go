package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestSearchPageParsesIDsAndToken(t *testing.T) {
	initTestConfig(t, 10, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "mattress" || q.Get("type") != "video" || q.Get("regionCode") != "IN" {
			t.Errorf("unexpected query %v", q)
		}
		fmt.Fprint(w, `{
			"nextPageToken": "tok2",
			"items": [
				{"id": {"videoId": "aaa"}},
				{"id": {}},
				{"id": {"videoId": "bbb"}}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, srv.Client())
	page, err := c.SearchPage(context.Background(), "mattress", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(page.IDs, []string{"aaa", "bbb"}) {
		t.Errorf("IDs = %v", page.IDs)
	}
	if page.NextPageToken != "tok2" {
		t.Errorf("token = %q", page.NextPageToken)
	}
}

func TestSearchPageErrorPayloadIsFatal(t *testing.T) {
	initTestConfig(t, 10, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quotaExceeded"}}`)
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, srv.Client())
	_, err := c.SearchPage(context.Background(), "kw", "")
	if err == nil {
		t.Fatal("expected error from explicit error payload")
	}
}

func TestSearchPageFallbackKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("key") == "primary" {
			fmt.Fprint(w, `{"error": {"code": 403, "message": "quotaExceeded"}}`)
			return
		}
		fmt.Fprint(w, `{"items": [{"id": {"videoId": "ccc"}}]}`)
	}))
	defer srv.Close()

	Init(Config{APIKey: "primary", APIKeyFallback: "secondary"})
	c := NewClientWithBase(srv.URL, srv.Client())
	page, err := c.SearchPage(context.Background(), "kw", "")
	if err != nil {
		t.Fatalf("fallback key should have succeeded: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls (primary then fallback), got %d", calls)
	}
	if !reflect.DeepEqual(page.IDs, []string{"ccc"}) {
		t.Errorf("IDs = %v", page.IDs)
	}
}

func TestVideoDetailsDefaultsAndKeying(t *testing.T) {
	initTestConfig(t, 10, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "x1,x2" {
			t.Errorf("id param = %q", got)
		}
		fmt.Fprint(w, `{
			"items": [
				{
					"id": "x2",
					"snippet": {"title": "T2", "channelTitle": "C2", "publishedAt": "2026-08-20T00:00:00Z"},
					"statistics": {"viewCount": "99", "likeCount": "5", "commentCount": "2"}
				},
				{
					"id": "x1",
					"snippet": {},
					"statistics": {}
				}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, srv.Client())
	details, err := c.VideoDetails(context.Background(), []string{"x1", "x2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d2 := details["x2"]
	if d2.Title != "T2" || d2.Views != "99" || d2.Likes != "5" || d2.Comments != "2" {
		t.Errorf("x2 = %+v", d2)
	}
	d1 := details["x1"]
	if d1.Title != "Untitled" || d1.Channel != "Unknown Channel" {
		t.Errorf("missing snippet fields must get placeholders, got %+v", d1)
	}
	if d1.Views != "N/A" || d1.Likes != "N/A" || d1.Comments != "N/A" {
		t.Errorf("missing statistics must be N/A, got %+v", d1)
	}
}
