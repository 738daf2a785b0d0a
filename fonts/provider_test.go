package fonts

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// fontServer 模拟 Google Fonts 下载接口，记录请求次数与 family 参数。
func fontServer(t *testing.T, status int, body []byte) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()
	var hits atomic.Int32
	var family atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		family.Store(r.URL.Query().Get("family"))
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, &family
}

func robotoArchive(t *testing.T) []byte {
	return buildArchive(t, map[string]string{
		"LICENSE.txt":                  "license",
		"OFL.txt":                      "ofl",
		"static/Roboto-Regular.ttf":    "regular-bytes",
		"static/Roboto-Bold.ttf":       "bold-bytes",
		"static/Roboto-BoldItalic.ttf": "bolditalic-bytes",
	})
}

func TestFamilyName(t *testing.T) {
	cases := map[string]string{
		"roboto":          "Roboto",
		"open_sans":       "Open Sans",
		"source-code-pro": "Source Code Pro",
		"ROBOTO mono":     "Roboto Mono",
		"  noto__serif ":  "Noto Serif",
	}
	for in, want := range cases {
		assert.Equal(t, want, FamilyName(in), in)
	}
}

func TestStyleKey(t *testing.T) {
	assert.Equal(t, "regular", styleKey("Roboto-Regular.ttf"))
	assert.Equal(t, "bolditalic", styleKey("static/Roboto-BoldItalic.ttf"))
	assert.Equal(t, "variablefont_wdth,wght", styleKey("Roboto-VariableFont_wdth,wght.ttf"))
}

func TestLoadDownloadsOnceAndCaches(t *testing.T) {
	srv, hits, family := fontServer(t, http.StatusOK, robotoArchive(t))
	dir := t.TempDir()
	p := NewProvider(ProviderOpts{Dir: dir, BaseURL: srv.URL})

	data, err := p.Load(context.Background(), "roboto", "Regular")
	require.NoError(t, err)
	assert.Equal(t, "regular-bytes", string(data))
	assert.Equal(t, "Roboto", family.Load())
	assert.FileExists(t, filepath.Join(dir, "Roboto.zip"))

	data, err = p.Load(context.Background(), "roboto", "bolditalic")
	require.NoError(t, err)
	assert.Equal(t, "bolditalic-bytes", string(data))
	assert.EqualValues(t, 1, hits.Load(), "已缓存的字体包不应重复下载")
}

func TestLoadMissingStyleListsAvailable(t *testing.T) {
	srv, _, _ := fontServer(t, http.StatusOK, robotoArchive(t))
	p := NewProvider(ProviderOpts{Dir: t.TempDir(), BaseURL: srv.URL})

	_, err := p.Load(context.Background(), "roboto", "black")
	require.ErrorIs(t, err, ErrStyleNotFound)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, []string{"bold", "bolditalic", "regular"}, resErr.Available)
	assert.Contains(t, err.Error(), "bold, bolditalic, regular")
}

func TestLoadUnknownFamily(t *testing.T) {
	srv, _, _ := fontServer(t, http.StatusNotFound, []byte("not found"))
	dir := t.TempDir()
	p := NewProvider(ProviderOpts{Dir: dir, BaseURL: srv.URL})

	_, err := p.Load(context.Background(), "no-such-font", "regular")
	require.ErrorIs(t, err, ErrFamilyNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "No Such Font.zip"))
}

func TestDownloadRejectsNonZip(t *testing.T) {
	srv, _, _ := fontServer(t, http.StatusOK, []byte("<html>sign in</html>"))
	dir := t.TempDir()
	p := NewProvider(ProviderOpts{Dir: dir, BaseURL: srv.URL})

	err := p.Download(context.Background(), "roboto")
	require.ErrorIs(t, err, ErrFamilyNotFound)
	assert.NoFileExists(t, p.ArchivePath("roboto"))
}

func TestResolveSources(t *testing.T) {
	p := NewProvider(ProviderOpts{Dir: t.TempDir(), BaseURL: "http://127.0.0.1:0"})
	ctx := context.Background()

	loaded, err := p.Resolve(ctx, Request{File: "builtin:go-bold", Style: "bold"})
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.Data)
	assert.Equal(t, "bold", loaded.Style)

	path := filepath.Join(t.TempDir(), "Custom.ttf")
	require.NoError(t, os.WriteFile(path, []byte("ttf"), 0o644))
	loaded, err = p.Resolve(ctx, Request{File: path})
	require.NoError(t, err)
	assert.Equal(t, "Custom.ttf", loaded.Name)
	assert.Equal(t, "ttf", string(loaded.Data))

	_, err = p.Resolve(ctx, Request{File: filepath.Join(t.TempDir(), "missing.ttf")})
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)

	_, err = p.Resolve(ctx, Request{})
	require.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestBuiltin(t *testing.T) {
	for _, name := range BuiltinNames() {
		data, err := Builtin(BuiltinPrefix + name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	_, err := Builtin("builtin:comic-sans")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, resErr.Available, DefaultBuiltin)
}
