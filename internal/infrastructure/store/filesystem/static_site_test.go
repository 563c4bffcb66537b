package filesystem

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSite(t *testing.T) *StaticSite {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	site, err := NewStaticSite(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, site.GetBasePath())
	return site
}

func TestStaticSite_ServesFiles(t *testing.T) {
	site := newSite(t)

	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
}

func TestStaticSite_FallsBackToIndex(t *testing.T) {
	site := newSite(t)

	for _, p := range []string{"/", "/history", "/assets/missing.js"} {
		rec := httptest.NewRecorder()
		site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.Equal(t, "<html>app</html>", rec.Body.String(), p)
	}
}

func TestStaticSite_RejectsAPIAndWrites(t *testing.T) {
	site := newSite(t)

	rec := httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	site.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewStaticSite_Invalid(t *testing.T) {
	_, err := NewStaticSite(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = NewStaticSite(t.TempDir())
	assert.Error(t, err, "no index.html")
}
