package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"leximi/internal/services"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <id>yt:playlist:PLtest</id>
 <title>Plani i leximit</title>
 <entry>
  <id>yt:video:abc123</id>
  <yt:videoId>abc123</yt:videoId>
  <title>Leximi i Biblës [Dita 34] 3 Shkurt</title>
 </entry>
 <entry>
  <id>yt:video:def456</id>
  <title>Fjala e Jetës [Dita 35] 4 Shkurt</title>
 </entry>
 <entry>
  <id>yt:video:ghi789</id>
  <yt:videoId>ghi789</yt:videoId>
  <title></title>
 </entry>
 <entry>
  <id>tag:other</id>
  <title>No id here</title>
 </entry>
</feed>`

func TestFetchKnownItems(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("playlist_id")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	client, err := New("PLtest", WithBaseURL(srv.URL), WithUserAgent("leximi-test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	items, err := client.FetchKnownItems(context.Background())
	if err != nil {
		t.Fatalf("FetchKnownItems: %v", err)
	}
	want := []Item{
		{ID: "abc123", Title: "Leximi i Biblës [Dita 34] 3 Shkurt"},
		{ID: "def456", Title: "Fjala e Jetës [Dita 35] 4 Shkurt"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("items = %#v", items)
	}
	if gotQuery != "PLtest" || gotUA != "leximi-test" {
		t.Fatalf("request query=%q ua=%q", gotQuery, gotUA)
	}
}

func TestFetchKnownItemsFailuresAreFeedUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not a feed")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			client, err := New("PL", WithBaseURL(srv.URL))
			if err != nil {
				t.Fatal(err)
			}
			_, err = client.FetchKnownItems(context.Background())
			if !errors.Is(err, services.ErrFeedUnavailable) {
				t.Fatalf("expected ErrFeedUnavailable, got %v", err)
			}
			if services.Classify(err) != services.DispositionAbortClean {
				t.Fatalf("feed failures must abort cleanly")
			}
		})
	}
}

func TestFetchKnownItemsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client, err := New("PL", WithBaseURL(base))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.FetchKnownItems(context.Background()); !errors.Is(err, services.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestURL(t *testing.T) {
	client, err := New("PL-20shMe4LIKvWmIz3sSlq_RH-IaqIR5_")
	if err != nil {
		t.Fatal(err)
	}
	got, err := client.URL()
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://www.youtube.com/feeds/videos.xml?playlist_id=PL-20shMe4LIKvWmIz3sSlq_RH-IaqIR5_" {
		t.Fatalf("URL = %q", got)
	}
	if _, err := New(" "); err == nil {
		t.Fatal("expected error for empty playlist id")
	}
}
