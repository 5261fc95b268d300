// Package page inspects the rendered HTML of a captured page.
package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Summary holds the metadata shown after a capture.
type Summary struct {
	// Title is the trimmed text of the first <title> element.
	Title string
	// Description is the content of <meta name="description">.
	Description string
	// Links counts <a href> elements.
	Links int
	// Alternates maps hreflang locales to their URLs.
	Alternates map[string]string
}

// Summarize parses rawHTML and extracts its Summary.
func Summarize(rawHTML string) (Summary, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return Summary{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(desc),
		Links:       doc.Find("a[href]").Length(),
		Alternates:  Alternates(root),
	}, nil
}

// Alternates extracts <link rel="alternate" hreflang="..."> targets from doc,
// keyed by lowercased locale. It returns an empty map when there are none.
func Alternates(doc *html.Node) map[string]string {
	result := make(map[string]string)
	if doc == nil {
		return result
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, hreflang, href string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "hreflang":
					hreflang = attr.Val
				case "href":
					href = attr.Val
				}
			}
			if hasToken(rel, "alternate") && hreflang != "" && href != "" {
				result[strings.ToLower(hreflang)] = href
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return result
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
