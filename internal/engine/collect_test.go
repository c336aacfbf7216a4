package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func initTestConfig(t *testing.T, target, maxPages int) {
	t.Helper()
	Init(Config{
		APIKey:        "test-key",
		TargetPerType: target,
		MaxPages:      maxPages,
		Pacer:         rate.NewLimiter(rate.Inf, 1),
	})
}

// fakeProvider serves scripted pages. Page tokens are "p2", "p3", ...
type fakeProvider struct {
	pages       []SearchPage
	details     map[string]VideoDetail
	searchErrAt int // 1-based page number that fails; 0 = never
	detailErr   error
	searchCalls int
	detailCalls int
}

func (f *fakeProvider) SearchPage(_ context.Context, _ string, pageToken string) (SearchPage, error) {
	f.searchCalls++
	if f.searchErrAt > 0 && f.searchCalls == f.searchErrAt {
		return SearchPage{}, errors.New("search exploded")
	}
	idx := 0
	if pageToken != "" {
		fmt.Sscanf(pageToken, "p%d", &idx)
		idx-- // "p2" is pages[1]
	}
	if idx >= len(f.pages) {
		return SearchPage{}, nil
	}
	return f.pages[idx], nil
}

func (f *fakeProvider) VideoDetails(_ context.Context, ids []string) (map[string]VideoDetail, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	out := make(map[string]VideoDetail, len(ids))
	for _, id := range ids {
		if d, ok := f.details[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

// fakeClassifier marks the listed IDs as shorts, everything else long-form.
type fakeClassifier struct {
	shorts map[string]bool
}

func (f *fakeClassifier) Classify(_ context.Context, videoID string) Classification {
	if f.shorts[videoID] {
		return Classification{Type: TypeShort, URL: ShortsURL(videoID)}
	}
	return Classification{Type: TypeVideo, URL: WatchURL(videoID)}
}

func detail(title string) VideoDetail {
	return VideoDetail{
		Title:       title,
		Channel:     "chan",
		Views:       "100",
		Likes:       "10",
		Comments:    "1",
		PublishedAt: "2026-08-20T00:00:00Z",
	}
}

func detailsFor(ids ...string) map[string]VideoDetail {
	out := make(map[string]VideoDetail, len(ids))
	for _, id := range ids {
		out[id] = detail("title " + id)
	}
	return out
}

func newCollector(p SearchProvider, shorts ...string) *Collector {
	marks := make(map[string]bool, len(shorts))
	for _, id := range shorts {
		marks[id] = true
	}
	return &Collector{
		Provider:   p,
		Classifier: &fakeClassifier{shorts: marks},
		Now:        func() time.Time { return time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) },
	}
}

func ids(entries []VideoEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestCollectCapsAndRanksPerBucket(t *testing.T) {
	initTestConfig(t, 2, 5)
	p := &fakeProvider{
		pages:   []SearchPage{{IDs: []string{"s1", "v1", "s2", "v2", "s3", "v3"}}},
		details: detailsFor("s1", "s2", "s3", "v1", "v2", "v3"),
	}
	res := newCollector(p, "s1", "s2", "s3").Collect(context.Background(), "mattress")

	if got := ids(res.Shorts); !reflect.DeepEqual(got, []string{"s1", "s2"}) {
		t.Errorf("shorts = %v, want [s1 s2]", got)
	}
	if got := ids(res.Videos); !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("videos = %v, want [v1 v2]", got)
	}
	for i, e := range res.Shorts {
		if e.Rank != i+1 {
			t.Errorf("shorts[%d].Rank = %d, want %d", i, e.Rank, i+1)
		}
		if !strings.Contains(e.URL, "/shorts/") {
			t.Errorf("short entry URL %q is not a shorts URL", e.URL)
		}
	}
	for i, e := range res.Videos {
		if e.Rank != i+1 {
			t.Errorf("videos[%d].Rank = %d, want %d", i, e.Rank, i+1)
		}
		if !strings.Contains(e.URL, "/watch?v=") {
			t.Errorf("video entry URL %q is not a watch URL", e.URL)
		}
	}
}

func TestCollectTargetReachedStopsPaging(t *testing.T) {
	initTestConfig(t, 1, 5)
	p := &fakeProvider{
		pages: []SearchPage{
			{IDs: []string{"s1", "v1"}, NextPageToken: "p2"},
			{IDs: []string{"s2", "v2"}},
		},
		details: detailsFor("s1", "s2", "v1", "v2"),
	}
	res := newCollector(p, "s1", "s2").Collect(context.Background(), "kw")

	if p.searchCalls != 1 {
		t.Errorf("expected 1 search page (both buckets full), got %d", p.searchCalls)
	}
	if len(res.Shorts) != 1 || len(res.Videos) != 1 {
		t.Errorf("buckets = %d/%d, want 1/1", len(res.Shorts), len(res.Videos))
	}
}

func TestCollectFollowsContinuationUpToMaxPages(t *testing.T) {
	initTestConfig(t, 10, 2)
	p := &fakeProvider{
		pages: []SearchPage{
			{IDs: []string{"v1"}, NextPageToken: "p2"},
			{IDs: []string{"v2"}, NextPageToken: "p3"},
			{IDs: []string{"v3"}, NextPageToken: "p4"},
		},
		details: detailsFor("v1", "v2", "v3"),
	}
	res := newCollector(p).Collect(context.Background(), "kw")

	if p.searchCalls != 2 {
		t.Errorf("expected maxPages=2 search calls, got %d", p.searchCalls)
	}
	if got := ids(res.Videos); !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("videos = %v, want [v1 v2]", got)
	}
}

func TestCollectStopsWithoutContinuationToken(t *testing.T) {
	initTestConfig(t, 10, 5)
	p := &fakeProvider{
		pages:   []SearchPage{{IDs: []string{"v1"}}},
		details: detailsFor("v1"),
	}
	newCollector(p).Collect(context.Background(), "kw")
	if p.searchCalls != 1 {
		t.Errorf("expected 1 search call without token, got %d", p.searchCalls)
	}
}

func TestCollectSkipsIDsMissingDetail(t *testing.T) {
	initTestConfig(t, 10, 1)
	p := &fakeProvider{
		pages:   []SearchPage{{IDs: []string{"v1", "gone", "v2"}}},
		details: detailsFor("v1", "v2"),
	}
	res := newCollector(p).Collect(context.Background(), "kw")
	if got := ids(res.Videos); !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("videos = %v, want [v1 v2] (search order, missing detail skipped)", got)
	}
}

func TestCollectSearchErrorKeepsPartialResults(t *testing.T) {
	initTestConfig(t, 10, 5)
	p := &fakeProvider{
		pages: []SearchPage{
			{IDs: []string{"v1", "v2"}, NextPageToken: "p2"},
		},
		details:     detailsFor("v1", "v2"),
		searchErrAt: 2,
	}
	res := newCollector(p).Collect(context.Background(), "kw")

	if res.Err == nil {
		t.Fatal("expected terminal error recorded on result")
	}
	if got := ids(res.Videos); !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("partial videos = %v, want [v1 v2]", got)
	}
	if res.Videos[0].Rank != 1 || res.Videos[1].Rank != 2 {
		t.Error("partial results must still get dense ranks")
	}
	if res.Failed() {
		t.Error("keyword with partial results is not failed")
	}
}

func TestCollectDetailErrorIsTerminal(t *testing.T) {
	initTestConfig(t, 10, 5)
	p := &fakeProvider{
		pages:     []SearchPage{{IDs: []string{"v1"}, NextPageToken: "p2"}},
		detailErr: errors.New("quota exceeded"),
	}
	res := newCollector(p).Collect(context.Background(), "kw")
	if res.Err == nil {
		t.Fatal("expected error")
	}
	if p.searchCalls != 1 {
		t.Errorf("collection must stop after detail failure, got %d search calls", p.searchCalls)
	}
	if !res.Failed() {
		t.Error("no entries gathered means failed keyword")
	}
}

func TestCollectBlankKeyword(t *testing.T) {
	initTestConfig(t, 10, 5)
	p := &fakeProvider{}
	res := newCollector(p).Collect(context.Background(), "   ")
	if !res.Failed() {
		t.Error("blank keyword must report failed")
	}
	if p.searchCalls != 0 {
		t.Errorf("blank keyword must not hit the provider, got %d calls", p.searchCalls)
	}
}

// Three available results, all long-form: videos bucket has 3 ranked
// entries, shorts stays empty, and the keyword is not failed.
func TestCollectThreeVideosScenario(t *testing.T) {
	initTestConfig(t, 10, 5)
	p := &fakeProvider{
		pages:   []SearchPage{{IDs: []string{"a", "b", "c"}}},
		details: detailsFor("a", "b", "c"),
	}
	res := newCollector(p).Collect(context.Background(), "foo")

	if len(res.Shorts) != 0 {
		t.Errorf("shorts = %d, want 0", len(res.Shorts))
	}
	if got := ids(res.Videos); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("videos = %v, want [a b c]", got)
	}
	for i, e := range res.Videos {
		if e.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, e.Rank, i+1)
		}
	}
	if res.Failed() {
		t.Error("keyword with results must not be failed")
	}
}

func TestCollectEntryFields(t *testing.T) {
	initTestConfig(t, 10, 1)
	p := &fakeProvider{
		pages: []SearchPage{{IDs: []string{"v1"}}},
		details: map[string]VideoDetail{
			"v1": {
				Title:       "Best Mattress 2026",
				Channel:     "Wakefit",
				Description: "buy at https://wakefit.co and https://example.com/sale",
				Views:       "12345",
				Likes:       "200",
				Comments:    "15",
				PublishedAt: "2026-08-22T00:00:00Z",
			},
		},
	}
	res := newCollector(p).Collect(context.Background(), "kw")
	if len(res.Videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(res.Videos))
	}
	e := res.Videos[0]
	if e.PostedAgo != "2 days ago" {
		t.Errorf("PostedAgo = %q, want %q", e.PostedAgo, "2 days ago")
	}
	if e.Links != "https://wakefit.co, https://example.com/sale" {
		t.Errorf("Links = %q", e.Links)
	}
	if e.Views != "12345" || e.Likes != "200" || e.Comments != "15" {
		t.Errorf("stats = %s/%s/%s", e.Views, e.Likes, e.Comments)
	}
}

func TestDedupeKeywords(t *testing.T) {
	got := DedupeKeywords([]string{" mattress ", "pillow", "mattress", "", "  ", "pillow", "bed"})
	want := []string{"mattress", "pillow", "bed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeKeywords = %v, want %v", got, want)
	}
}
