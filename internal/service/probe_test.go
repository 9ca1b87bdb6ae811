package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProber_OKOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("expected /ping, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(time.Second)
	res := p.Probe(context.Background(), srv.URL)
	if !res.OK {
		t.Fatalf("expected OK result, got %+v", res)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.ObservedAt.IsZero() {
		t.Fatal("expected ObservedAt to be set")
	}
}

func TestProber_TrailingSlashEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("expected /ping, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProber(time.Second)
	res := p.Probe(context.Background(), srv.URL+"/")
	if !res.OK {
		t.Fatalf("expected OK result, got %+v", res)
	}
}

func TestProber_FailOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProber(time.Second)
	res := p.Probe(context.Background(), srv.URL)
	if res.OK {
		t.Fatal("expected failure for 500 response")
	}
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.StatusCode)
	}
	if res.Err != nil {
		t.Fatalf("a non-200 response is not a transport error, got %v", res.Err)
	}
}

func TestProber_FailOnConnectionRefused(t *testing.T) {
	// Grab a port nobody is listening on.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewProber(time.Second)
	res := p.Probe(context.Background(), url)
	if res.OK {
		t.Fatal("expected failure for refused connection")
	}
	if res.Err == nil {
		t.Fatal("expected transport error")
	}
}

func TestProber_FailOnTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer func() {
		close(blocked)
		srv.Close()
	}()

	p := NewProber(50 * time.Millisecond)
	start := time.Now()
	res := p.Probe(context.Background(), srv.URL)
	if res.OK {
		t.Fatal("expected failure for stuck endpoint")
	}
	if res.Err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("probe did not respect its timeout, took %v", elapsed)
	}
}
