package page

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mackee/go-readability"
)

// Markdown converts the main content of rawHTML to Markdown.
//
// Readability extraction picks the article body; if it finds nothing, the
// whole document is converted instead. Relative links are resolved against
// pageURL. The output starts with the title and a source line.
func Markdown(rawHTML, pageURL string) (string, error) {
	var title, content string

	article, err := readability.Extract(rawHTML, readability.DefaultOptions())
	if err == nil && article.Root != nil {
		title = article.Title
		content = readability.ToHTML(article.Root)
	} else {
		content = rawHTML
	}

	if title == "" {
		if s, err := Summarize(rawHTML); err == nil {
			title = s.Title
		}
	}

	domain := ""
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		domain = u.Scheme + "://" + u.Host
	}

	conv := md.NewConverter(domain, true, nil)
	body, err := conv.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}

	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	fmt.Fprintf(&b, "Source: %s\n\n", pageURL)
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String(), nil
}
