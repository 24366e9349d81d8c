package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

const scoresTSV = "chr\tstart\tend\ttype\tbrain\tliver\theart\n" +
	"chr1\t230\t280\tchia-pet\t0.9\t0.2\t0.5\n" +
	"chr1\t300\t360\tchia-pet\t0.1\t0.8\t0.4\n" +
	"chr1\t420\t480\tchia-pet\t0.6\t0.3\t0.95\n" +
	"chr2\t150\t240\thi-c\t0.3\t0.7\t0.2\n"

func init() {
	gin.SetMode(gin.TestMode)
}

func do(s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func create(t *testing.T, s *Server, mode string) string {
	t.Helper()
	w := do(s, http.MethodPost, "/charts?mode="+mode, "", "")
	if !assert.Equal(t, http.StatusCreated, w.Code) {
		t.FailNow()
	}
	id, _ := decode(t, w)["id"].(string)
	assert.NotEmpty(t, id)
	return id
}

func loaded(t *testing.T, s *Server) string {
	t.Helper()
	id := create(t, s, "heatmap")
	w := do(s, http.MethodPost, "/charts/"+id+"/load", "text/tab-separated-values", scoresTSV)
	if !assert.Equal(t, http.StatusOK, w.Code, w.Body.String()) {
		t.FailNow()
	}
	return id
}

func TestCreateUnknownMode(t *testing.T) {
	s := New()
	w := do(s, http.MethodPost, "/charts?mode=sankey", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoadSummary(t *testing.T) {
	s := New()
	id := create(t, s, "heatmap")
	w := do(s, http.MethodPost, "/charts/"+id+"/load", "text/tab-separated-values", scoresTSV)
	assert.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, "heatmap", out["mode"])
	tracks, _ := out["tracks"].([]any)
	if assert.Len(t, tracks, 1) {
		track := tracks[0].(map[string]any)
		assert.Equal(t, "chr1", track["chr"])
		assert.Equal(t, 50.0, track["offset"])
		assert.Equal(t, 3.0, track["records"])
	}
	assert.Equal(t, []any{180.0, 530.0}, out["domain"])
}

func TestLoadJSONBody(t *testing.T) {
	s := New()
	id := create(t, s, "associations")
	body := `[{"chr": "chr1", "start": 10, "end": 20, "targetChr": "chr1", "targetStart": 40, "targetEnd": 50, "score": 1}]`
	w := do(s, http.MethodPost, "/charts/"+id+"/load", "application/json", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLoadMalformed(t *testing.T) {
	s := New()
	id := create(t, s, "heatmap")
	w := do(s, http.MethodPost, "/charts/"+id+"/load", "", "chr\tstart\tend\ttype\tx\nchr1\tten\t20\tt\t1\n")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(s, http.MethodPost, "/charts/"+id+"/load?url=ftp://example.com/x.tsv", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettings(t *testing.T) {
	s := New()
	id := loaded(t, s)

	w := do(s, http.MethodPatch, "/charts/"+id+"/settings", "application/json", `{"width": 400}`)
	assert.Equal(t, http.StatusOK, w.Code)
	settings, _ := decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, 400.0, settings["width"])

	w = do(s, http.MethodPatch, "/charts/"+id+"/settings", "application/yaml", "type: hi-c\n")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodPatch, "/charts/"+id+"/settings", "application/json", `{"width": -5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, http.MethodPatch, "/charts/"+id+"/settings", "application/json", `{"type": "nope"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(s, http.MethodPost, "/charts/"+id+"/refresh", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	tracks, _ := decode(t, w)["tracks"].([]any)
	if assert.Len(t, tracks, 1) {
		assert.Equal(t, "chr2", tracks[0].(map[string]any)["chr"])
	}
}

func TestClickSorts(t *testing.T) {
	s := New()
	id := loaded(t, s)

	w := do(s, http.MethodPost, "/charts/"+id+"/click", "application/json", `{"x": 150, "y": 75}`)
	assert.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	hit, _ := out["hit"].(map[string]any)
	assert.Equal(t, "scorebox", hit["class"])
	assert.Equal(t, "brain", hit["key"])
	assert.Equal(t, "230-280", out["sortColumn"])
	assert.Equal(t, []any{"liver", "heart", "brain"}, out["sortOrder"])

	w = do(s, http.MethodPost, "/charts/"+id+"/click", "application/json", `{"x": 1, "y": 1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["hit"])

	w = do(s, http.MethodPost, "/charts/"+id+"/click", "application/json", `{"x":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSVG(t *testing.T) {
	s := New()
	id := loaded(t, s)
	w := do(s, http.MethodGet, "/charts/"+id+"/svg", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `data-key="230-280"`)
}

func TestUnknownAndDelete(t *testing.T) {
	s := New()
	w := do(s, http.MethodGet, "/charts/missing/svg", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := create(t, s, "exons")
	w = do(s, http.MethodDelete, "/charts/"+id, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(s, http.MethodDelete, "/charts/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(s, http.MethodPost, "/charts/"+id+"/refresh", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadURLRefusesLocalFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "private.tsv")
	if err := os.WriteFile(path, []byte("chr\tstart\tend\ttype\tsecret_col\nchr1\t1\t2\tt\t42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New()
	s.AllowHosts("localhost", "")
	id := create(t, s, "heatmap")

	for _, target := range []string{path, "file://" + path} {
		w := do(s, http.MethodPost, "/charts/"+id+"/load?url="+url.QueryEscape(target), "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	w := do(s, http.MethodGet, "/charts/"+id+"/svg", "", "")
	assert.NotContains(t, w.Body.String(), "secret_col")
}

func TestLoadURLAllowedHosts(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scoresTSV))
	}))
	defer remote.Close()
	target := "/load?url=" + url.QueryEscape(remote.URL+"/scores.tsv")

	s := New()
	id := create(t, s, "heatmap")
	w := do(s, http.MethodPost, "/charts/"+id+target, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "host not allowed")

	s.AllowHosts("127.0.0.1")
	w = do(s, http.MethodPost, "/charts/"+id+target, "", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
