package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/f4ah6o/devshot/internal/capture"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	accentColor  = color.New(color.FgCyan)
	mutedColor   = color.New(color.Faint)
)

func printServeBanner(w io.Writer, root string, port int) {
	fmt.Fprint(w, "🌐 Serving ")
	accentColor.Fprint(w, root)
	fmt.Fprint(w, " at ")
	successColor.Fprintf(w, "http://localhost:%d\n", port)
	mutedColor.Fprintln(w, "Press Ctrl+C to stop")
}

func printResult(w io.Writer, res *capture.Result, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	successColor.Fprint(w, "Screenshot saved: ")
	fmt.Fprintln(w, res.Path)

	if res.Title != "" {
		mutedColor.Fprint(w, "  title:  ")
		fmt.Fprintln(w, res.Title)
	}
	if res.Description != "" {
		mutedColor.Fprint(w, "  desc:   ")
		fmt.Fprintln(w, res.Description)
	}
	mutedColor.Fprint(w, "  size:   ")
	fmt.Fprintf(w, "%dx%d\n", res.Width, res.Height)
	mutedColor.Fprint(w, "  links:  ")
	fmt.Fprintln(w, res.Links)
	if res.FinalURL != "" && res.FinalURL != res.URL {
		mutedColor.Fprint(w, "  final:  ")
		fmt.Fprintln(w, res.FinalURL)
	}

	if len(res.Alternates) > 0 {
		locales := make([]string, 0, len(res.Alternates))
		for loc := range res.Alternates {
			locales = append(locales, loc)
		}
		sort.Strings(locales)
		for _, loc := range locales {
			mutedColor.Fprintf(w, "  %-7s ", loc+":")
			fmt.Fprintln(w, res.Alternates[loc])
		}
	}

	if res.ThumbnailPath != "" {
		mutedColor.Fprint(w, "  thumb:  ")
		fmt.Fprintln(w, res.ThumbnailPath)
	}
	if res.MarkdownPath != "" {
		mutedColor.Fprint(w, "  text:   ")
		fmt.Fprintln(w, res.MarkdownPath)
	}
	return nil
}
