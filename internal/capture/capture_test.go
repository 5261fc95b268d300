package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeBrowser struct {
	page *Page
	err  error
	reqs []Request
}

func (f *fakeBrowser) Capture(_ context.Context, req Request) (*Page, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const fakeHTML = `<html><head><title>Demo</title>
<meta name="description" content="A demo page">
<link rel="alternate" hreflang="ja" href="http://localhost:3000/ja/"></head>
<body><article><h1>Demo</h1><p>Some body text for the <a href="/docs">snapshot</a>.</p></article></body></html>`

func newFakeBrowser(t *testing.T) *fakeBrowser {
	return &fakeBrowser{page: &Page{
		PNG:      encodePNG(t, 120, 300),
		HTML:     fakeHTML,
		FinalURL: "http://localhost:3000/",
	}}
}

func TestShootFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temporary screenshots")
	fb := newFakeBrowser(t)
	s := NewShooter(fb, nil, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	res, err := s.Shoot(context.Background(), Options{Dir: dir})
	if err != nil {
		t.Fatalf("Shoot() error = %v", err)
	}

	wantPath := filepath.Join(dir, "screenshot-1.png")
	if res.Path != wantPath {
		t.Errorf("Path = %q, want %q", res.Path, wantPath)
	}
	got, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("screenshot not written: %v", err)
	}
	if !bytes.Equal(got, fb.page.PNG) {
		t.Error("written bytes differ from captured PNG")
	}

	if res.Index != 1 || res.Width != 120 || res.Height != 300 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Title != "Demo" || res.Description != "A demo page" || res.Links != 1 {
		t.Errorf("page summary = %q / %q / %d links, want Demo / A demo page / 1",
			res.Title, res.Description, res.Links)
	}
	if res.Alternates["ja"] != "http://localhost:3000/ja/" {
		t.Errorf("Alternates = %v", res.Alternates)
	}
	if !res.CapturedAt.Equal(fixed) {
		t.Errorf("CapturedAt = %v, want %v", res.CapturedAt, fixed)
	}

	if len(fb.reqs) != 1 {
		t.Fatalf("browser called %d times, want 1", len(fb.reqs))
	}
	want := Request{
		URL:         DefaultURL,
		Width:       1440,
		Height:      900,
		Timeout:     15 * time.Second,
		Quiet:       500 * time.Millisecond,
		MaxInflight: 2,
	}
	if fb.reqs[0] != want {
		t.Errorf("request = %+v, want %+v", fb.reqs[0], want)
	}
}

func TestShootIncrementsAndLabels(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"screenshot-1.png", "screenshot-2.png", "screenshot-3-old.png"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s := NewShooter(newFakeBrowser(t), nil, nil)
	res, err := s.Shoot(context.Background(), Options{Dir: dir, Label: "hero", URL: "http://localhost:3000/about"})
	if err != nil {
		t.Fatalf("Shoot() error = %v", err)
	}
	if filepath.Base(res.Path) != "screenshot-4-hero.png" {
		t.Errorf("file = %q, want screenshot-4-hero.png", filepath.Base(res.Path))
	}
	if res.Label != "hero" || res.URL != "http://localhost:3000/about" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestShootBrowserFailureWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	boom := errors.New("navigation timeout")
	s := NewShooter(&fakeBrowser{err: boom}, nil, nil)

	_, err := s.Shoot(context.Background(), Options{Dir: dir})
	if !errors.Is(err, boom) {
		t.Fatalf("Shoot() error = %v, want %v", err, boom)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("output directory should not exist, stat error = %v", statErr)
	}
}

func TestShootInvalidImage(t *testing.T) {
	dir := t.TempDir()
	s := NewShooter(&fakeBrowser{page: &Page{PNG: []byte("not an image")}}, nil, nil)

	if _, err := s.Shoot(context.Background(), Options{Dir: dir}); err == nil {
		t.Fatal("expected decode error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files, got %d", len(entries))
	}
}

func TestShootSidecars(t *testing.T) {
	dir := t.TempDir()
	s := NewShooter(newFakeBrowser(t), nil, nil)

	res, err := s.Shoot(context.Background(), Options{Dir: dir, Label: "page", Markdown: true, ThumbWidth: 60})
	if err != nil {
		t.Fatalf("Shoot() error = %v", err)
	}

	if res.ThumbnailPath != filepath.Join(dir, "screenshot-1-page.thumb.png") {
		t.Errorf("ThumbnailPath = %q", res.ThumbnailPath)
	}
	f, err := os.Open(res.ThumbnailPath)
	if err != nil {
		t.Fatalf("thumbnail not written: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("thumbnail decode: %v", err)
	}
	if cfg.Width != 60 || cfg.Height != 150 {
		t.Errorf("thumbnail size = %dx%d, want 60x150", cfg.Width, cfg.Height)
	}

	if res.MarkdownPath != filepath.Join(dir, "screenshot-1-page.md") {
		t.Errorf("MarkdownPath = %q", res.MarkdownPath)
	}
	text, err := os.ReadFile(res.MarkdownPath)
	if err != nil {
		t.Fatalf("markdown not written: %v", err)
	}
	if !strings.Contains(string(text), "Source: http://localhost:3000/") {
		t.Errorf("markdown missing source line:\n%s", text)
	}

	next, err := NextIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	if next != 2 {
		t.Errorf("NextIndex() after sidecars = %d, want 2", next)
	}
}

func TestShootRespectsRobots(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer site.Close()

	dir := t.TempDir()
	fb := newFakeBrowser(t)
	s := NewShooter(fb, NewRobotsGuard(site.Client(), "devshot", nil), nil)

	_, err := s.Shoot(context.Background(), Options{Dir: dir, URL: site.URL + "/private/page", RespectRobots: true})
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("Shoot() error = %v, want ErrDisallowed", err)
	}
	if len(fb.reqs) != 0 {
		t.Error("browser should not be launched for a disallowed URL")
	}

	if _, err := s.Shoot(context.Background(), Options{Dir: dir, URL: site.URL + "/public", RespectRobots: true}); err != nil {
		t.Fatalf("Shoot() allowed URL error = %v", err)
	}
}
