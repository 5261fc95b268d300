package capture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilePrefix starts every screenshot file name.
const FilePrefix = "screenshot-"

// indexPattern extracts the numeric suffix right after FilePrefix.
var indexPattern = regexp.MustCompile(`^screenshot-(\d+)`)

// unsafeRun matches characters that are not kept in a label slug.
var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NextIndex returns the index for the next screenshot in dir.
//
// It scans entries that start with FilePrefix and returns one more than the
// largest numeric suffix found. Entries with the prefix but no digits count as
// zero, as do suffixes too large for an int. Such a file keeps its name because
// a generated index always has fewer digits. A missing directory yields 1.
func NextIndex(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	highest := 0
	for _, e := range entries {
		if n := entryIndex(e.Name()); n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

func entryIndex(name string) int {
	if !strings.HasPrefix(name, FilePrefix) {
		return 0
	}
	m := indexPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Only strconv.ErrRange is possible after the \d+ match.
		return 0
	}
	return n
}

// Stem returns the file name without extension for index n and an optional label.
func Stem(n int, label string) string {
	if label == "" {
		return fmt.Sprintf("%s%d", FilePrefix, n)
	}
	return fmt.Sprintf("%s%d-%s", FilePrefix, n, label)
}

// FileName returns "screenshot-<n>.png" or "screenshot-<n>-<label>.png".
func FileName(n int, label string) string {
	return Stem(n, label) + ".png"
}

// Slug makes label safe to embed in a file name. Accents are folded to their
// base letters and each run of other characters becomes a single '-'.
func Slug(label string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	slug := unsafeRun.ReplaceAllString(folded, "-")
	return strings.Trim(slug, "-.")
}
