package assist

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func countingServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "response %d", hits.Add(1))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCachedClientServesFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, &hits)

	client := CachedClient(time.Hour)
	ctx := context.Background()

	first, err := Get(ctx, client, srv.URL, nil)
	if err != nil {
		t.Fatalf("first Get: %v", err)
	}
	second, err := Get(ctx, client, srv.URL, nil)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times within the ttl, want 1", hits.Load())
	}
	if !bytes.Equal(first, second) {
		t.Errorf("cached body %q differs from the original %q", second, first)
	}
}

func TestCachedClientExpires(t *testing.T) {
	var hits atomic.Int32
	srv := countingServer(t, &hits)

	client := CachedClient(10 * time.Millisecond)
	ctx := context.Background()

	if _, err := Get(ctx, client, srv.URL, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, err := Get(ctx, client, srv.URL, nil); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times across the ttl, want 2", hits.Load())
	}
}

func TestGetReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := Get(context.Background(), http.DefaultClient, srv.URL, nil); err == nil {
		t.Errorf("a non-200 status must be an error")
	}
}

func TestGetHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := Get(ctx, http.DefaultClient, srv.URL, nil); err == nil {
		t.Errorf("an expired context must abort the call")
	}
}

func TestJSONGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"symbol":"NVDA","close":140.5}`)
	}))
	defer srv.Close()

	var data struct {
		Symbol string  `json:"symbol"`
		Close  float64 `json:"close"`
	}
	if err := JSONGet(context.Background(), http.DefaultClient, srv.URL, nil, &data); err != nil {
		t.Fatalf("JSONGet: %v", err)
	}
	if data.Symbol != "NVDA" || data.Close != 140.5 {
		t.Errorf("decoded %+v", data)
	}
}
