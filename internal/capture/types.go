// Package capture takes full-page screenshots of a URL into auto-numbered files.
package capture

import (
	"context"
	"time"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultURL         = "http://localhost:3000"
	DefaultDir         = "temporary screenshots"
	DefaultWidth       = 1440
	DefaultHeight      = 900
	DefaultTimeout     = 15 * time.Second
	DefaultQuiet       = 500 * time.Millisecond
	DefaultMaxInflight = 2
	DefaultUserAgent   = "devshot"
)

// Request describes a single page load handed to a Browser.
type Request struct {
	// URL is the page to load.
	URL string
	// Width and Height set the viewport in CSS pixels.
	Width, Height int
	// Timeout bounds navigation plus the wait for network quiescence.
	Timeout time.Duration
	// Quiet is how long the network must stay at or below MaxInflight requests.
	Quiet time.Duration
	// MaxInflight is the number of outstanding requests still considered idle.
	MaxInflight int
}

// Page is what a Browser returns after rendering a Request.
type Page struct {
	// PNG is the encoded full-page screenshot.
	PNG []byte
	// HTML is the serialized DOM after the page settled.
	HTML string
	// FinalURL is the location after redirects.
	FinalURL string
}

// Browser renders pages. Implementations own the browser process for the
// duration of Capture and must release it before returning.
type Browser interface {
	Capture(ctx context.Context, req Request) (*Page, error)
}

// Options contains the parameters of one screenshot run.
type Options struct {
	// URL is the page to capture. Defaults to DefaultURL.
	URL string
	// Label is appended to the file name after slugging. Empty means no label.
	Label string
	// Dir is the output directory. Defaults to DefaultDir.
	Dir string
	// Width and Height set the viewport. Default to 1440x900.
	Width, Height int
	// Timeout bounds navigation. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Quiet is the network idle window. Defaults to DefaultQuiet.
	Quiet time.Duration
	// MaxInflight is the idle threshold. Zero means DefaultMaxInflight.
	MaxInflight int
	// Markdown writes a readable Markdown snapshot next to the PNG.
	Markdown bool
	// ThumbWidth, when positive, writes a resized copy next to the PNG.
	ThumbWidth int
	// RespectRobots refuses URLs disallowed by the site's robots.txt.
	RespectRobots bool
}

// Result represents a saved screenshot and what was learned about the page.
type Result struct {
	// Path is where the PNG was written.
	Path string `json:"path"`
	// Index is the numeric suffix used in the file name.
	Index int `json:"index"`
	// Label is the slugged label, if any.
	Label string `json:"label,omitempty"`
	// URL is the requested address.
	URL string `json:"url"`
	// FinalURL is the address after redirects.
	FinalURL string `json:"final_url"`
	// Title is the document title of the rendered page.
	Title string `json:"title,omitempty"`
	// Description is the page's meta description.
	Description string `json:"description,omitempty"`
	// Links counts anchors with an href.
	Links int `json:"links"`
	// Alternates maps hreflang locales to their URLs.
	Alternates map[string]string `json:"alternates,omitempty"`
	// Width and Height are the pixel dimensions of the saved image.
	Width  int `json:"width"`
	Height int `json:"height"`
	// MarkdownPath is set when a Markdown snapshot was written.
	MarkdownPath string `json:"markdown_path,omitempty"`
	// ThumbnailPath is set when a thumbnail was written.
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	// CapturedAt is when the file was written.
	CapturedAt time.Time `json:"captured_at"`
}

func (o Options) withDefaults() Options {
	if o.URL == "" {
		o.URL = DefaultURL
	}
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Quiet <= 0 {
		o.Quiet = DefaultQuiet
	}
	if o.MaxInflight <= 0 {
		o.MaxInflight = DefaultMaxInflight
	}
	return o
}
