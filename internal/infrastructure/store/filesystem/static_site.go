package filesystem

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticSite serves a pre-built single-page UI from disk. Paths that do not
// name a file fall back to index.html so client-side routes resolve.
type StaticSite struct {
	basePath string
	files    http.Handler
}

func (s *StaticSite) GetBasePath() string {
	return s.basePath
}

func NewStaticSite(basePath string) (*StaticSite, error) {
	info, err := os.Stat(basePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("static directory %s does not exist", basePath)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", basePath, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path %s exists but is not a directory", basePath)
	}

	if _, err := os.Stat(filepath.Join(basePath, "index.html")); err != nil {
		return nil, fmt.Errorf("static directory %s has no index.html: %w", basePath, err)
	}

	return &StaticSite{
		basePath: basePath,
		files:    http.FileServer(http.Dir(basePath)),
	}, nil
}

func (s *StaticSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	full := filepath.Join(s.basePath, filepath.FromSlash(clean))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		s.files.ServeHTTP(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(s.basePath, "index.html"))
}
