package static

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultIndex is served for requests to "/".
const DefaultIndex = "index.html"

const notFoundBody = "404 Not Found"

// Handler serves files from Root. Every failure to read a file is answered with
// a plain-text 404.
type Handler struct {
	root  string
	index string
	types *MIMETable
	log   *slog.Logger
}

// Options configures a Handler.
type Options struct {
	// Root is the directory being served. It is made absolute by NewHandler.
	Root string
	// Index is the file served for "/". Defaults to DefaultIndex.
	Index string
	// MIME holds extra extension to Content-Type entries.
	MIME map[string]string
	// Logger receives debug lines for failed reads. Nil discards them.
	Logger *slog.Logger
}

// NewHandler creates a Handler for opts.Root.
func NewHandler(opts Options) (*Handler, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	index := opts.Index
	if index == "" {
		index = DefaultIndex
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		root:  abs,
		index: index,
		types: NewMIMETable(opts.MIME),
		log:   log,
	}, nil
}

// Root returns the absolute directory being served.
func (h *Handler) Root() string { return h.root }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := h.resolve(r.URL.Path)
	if !ok {
		h.notFound(w)
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		h.log.Debug("static.read_failed", "path", r.URL.Path, "file", name, "error", err)
		h.notFound(w)
		return
	}

	w.Header().Set("Content-Type", h.types.TypeFor(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// resolve maps an already-decoded request path to a file below root.
// It reports false for paths that would leave root.
func (h *Handler) resolve(urlPath string) (string, bool) {
	if urlPath == "" || urlPath == "/" {
		return filepath.Join(h.root, h.index), true
	}

	cleaned := path.Clean("/" + urlPath)
	name := filepath.Join(h.root, filepath.FromSlash(cleaned))
	if name != h.root && !strings.HasPrefix(name, h.root+string(filepath.Separator)) {
		return "", false
	}
	return name, true
}

func (h *Handler) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundBody))
}
