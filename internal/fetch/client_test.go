package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testOptions returns options pointed at server with jitter disabled.
func testOptions(serverURL string) Options {
	opts := DefaultOptions()
	opts.Root = serverURL
	opts.JitterMin = 0
	opts.JitterMax = 0
	return opts
}

func TestListing(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		io.WriteString(w, "img/tiff16_a/a0001.tif")
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))
	body, err := client.Listing(context.Background())
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}

	if body != "img/tiff16_a/a0001.tif" {
		t.Errorf("unexpected body: %q", body)
	}

	found := false
	for _, ua := range defaultUserAgents {
		if gotUA == ua {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("User-Agent %q not from the default pool", gotUA)
	}
}

func TestListingStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))
	_, err := client.Listing(context.Background())

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusForbidden {
		t.Errorf("expected code 403, got %d", se.Code)
	}
}

func TestListingJitterHonorsContext(t *testing.T) {
	opts := DefaultOptions()
	opts.JitterMin = time.Minute
	opts.JitterMax = 2 * time.Minute
	client := NewClient(opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Listing(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestImage(t *testing.T) {
	data := []byte("tiff bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img/tiff16_a/a0289.tif" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write(data)
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))
	rc, err := client.Image(context.Background(), "img/tiff16_a/a0289.tif")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != string(data) {
		t.Errorf("expected %q, got %q", data, body)
	}
}

func TestImageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))
	_, err := client.Image(context.Background(), "img/tiff16_a/a9999.tif")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("a 404 must not classify as a timeout")
	}
}

func TestImageTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	opts := testOptions(server.URL)
	opts.Timeout = 50 * time.Millisecond
	client := NewClient(opts)

	_, err := client.Image(context.Background(), "img/tiff16_a/a0001.tif")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("expected IsTimeout(err), got %v", err)
	}
}

func TestIsTimeout(t *testing.T) {
	if IsTimeout(nil) {
		t.Error("nil is not a timeout")
	}
	if !IsTimeout(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded is a timeout")
	}
	if IsTimeout(errors.New("boom")) {
		t.Error("a plain error is not a timeout")
	}
	if IsTimeout(&StatusError{Code: 404, Status: "404 Not Found"}) {
		t.Error("a status error is not a timeout")
	}
}

func TestRandomUserAgent(t *testing.T) {
	for i := 0; i < 32; i++ {
		ua := randomUserAgent(nil)
		if ua == "" {
			t.Fatal("empty User-Agent")
		}
	}

	pool := []string{"test-agent"}
	if got := randomUserAgent(pool); got != "test-agent" {
		t.Errorf("expected pool entry, got %q", got)
	}
}
