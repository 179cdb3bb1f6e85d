package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "dpc/") {
			t.Errorf("unexpected user agent: %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("body { color: red; }"))
	}))
	defer srv.Close()

	c := New(zap.NewNop(), Options{})
	body, ct, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ct != "text/css" {
		t.Errorf("content type: got %q", ct)
	}
	if string(body) != "body { color: red; }" {
		t.Errorf("body: got %q", string(body))
	}
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(zap.NewNop(), Options{})
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestGetBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	c := New(zap.NewNop(), Options{MaxBodySize: 1024})
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on oversized body")
	}
}
