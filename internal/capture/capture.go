package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/f4ah6o/devshot/internal/page"
)

// ErrDisallowed is returned when robots.txt forbids capturing the URL.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Shooter runs screenshot captures against a Browser.
type Shooter struct {
	browser Browser
	robots  *RobotsGuard
	log     *slog.Logger
	now     func() time.Time
}

// NewShooter creates a Shooter. robots may be nil when Options.RespectRobots is
// never set.
func NewShooter(b Browser, robots *RobotsGuard, log *slog.Logger) *Shooter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Shooter{browser: b, robots: robots, log: log, now: time.Now}
}

// Shoot captures opts.URL and writes the next numbered screenshot into opts.Dir.
//
// The output name is chosen before the browser starts. Nothing is written when
// the capture fails.
func (s *Shooter) Shoot(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	label := Slug(opts.Label)

	if opts.RespectRobots {
		guard := s.robots
		if guard == nil {
			guard = NewRobotsGuard(nil, DefaultUserAgent, s.log)
		}
		if !guard.Allowed(ctx, opts.URL) {
			return nil, fmt.Errorf("%s: %w", opts.URL, ErrDisallowed)
		}
	}

	index, err := NextIndex(opts.Dir)
	if err != nil {
		return nil, err
	}
	outPath := filepath.Join(opts.Dir, FileName(index, label))

	s.log.Info("capture.start", "url", opts.URL, "out", outPath,
		"width", opts.Width, "height", opts.Height, "timeout", opts.Timeout)

	pg, err := s.browser.Capture(ctx, Request{
		URL:         opts.URL,
		Width:       opts.Width,
		Height:      opts.Height,
		Timeout:     opts.Timeout,
		Quiet:       opts.Quiet,
		MaxInflight: opts.MaxInflight,
	})
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", opts.URL, err)
	}

	img, err := decodeImage(pg.PNG)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", opts.Dir, err)
	}
	if err := os.WriteFile(outPath, pg.PNG, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write screenshot: %w", err)
	}

	finalURL := pg.FinalURL
	if finalURL == "" {
		finalURL = opts.URL
	}
	res := &Result{
		Path:       outPath,
		Index:      index,
		Label:      label,
		URL:        opts.URL,
		FinalURL:   finalURL,
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		CapturedAt: s.now().UTC(),
	}

	if pg.HTML != "" {
		if sum, err := page.Summarize(pg.HTML); err == nil {
			res.Title = sum.Title
			if len(sum.Alternates) > 0 {
				res.Alternates = sum.Alternates
			}
		} else {
			s.log.Warn("capture.summary_failed", "error", err)
		}
	}

	stem := filepath.Join(opts.Dir, Stem(index, label))

	if opts.ThumbWidth > 0 {
		thumbPath := stem + ".thumb.png"
		if err := writeThumbnail(img, opts.ThumbWidth, thumbPath); err != nil {
			return res, err
		}
		res.ThumbnailPath = thumbPath
	}

	if opts.Markdown {
		mdPath := stem + ".md"
		text, err := page.Markdown(pg.HTML, finalURL)
		if err != nil {
			return res, err
		}
		if err := os.WriteFile(mdPath, []byte(text), 0o644); err != nil {
			return res, fmt.Errorf("failed to write markdown: %w", err)
		}
		res.MarkdownPath = mdPath
	}

	s.log.Info("capture.saved", "path", outPath, "width", res.Width, "height", res.Height)
	return res, nil
}
