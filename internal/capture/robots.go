package capture

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsGuard fetches robots.txt once per host and answers whether a URL may be
// captured. Fetch or parse failures allow everything.
type RobotsGuard struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobotsGuard creates a RobotsGuard that identifies itself as userAgent.
func NewRobotsGuard(client *http.Client, userAgent string, log *slog.Logger) *RobotsGuard {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RobotsGuard{
		client:    client,
		userAgent: userAgent,
		log:       log,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether target may be fetched by the guard's user agent.
func (g *RobotsGuard) Allowed(ctx context.Context, target string) bool {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return true
	}

	data := g.rules(ctx, u)
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.FindGroup(g.userAgent).Test(path)
}

func (g *RobotsGuard) rules(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	g.mu.Lock()
	defer g.mu.Unlock()

	if data, ok := g.hosts[key]; ok {
		return data
	}
	data := g.fetch(ctx, key+"/robots.txt")
	g.hosts[key] = data
	return data
}

func (g *RobotsGuard) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	g.log.Debug("robots.fetch", "url", robotsURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("robots.fetch_failed", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.log.Debug("robots.unavailable", "url", robotsURL, "status", resp.StatusCode)
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		g.log.Warn("robots.parse_failed", "url", robotsURL, "error", err)
		return nil
	}
	return data
}
