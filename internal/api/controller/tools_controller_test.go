package controller

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/batch"
	"github.com/bassista/go_core/internal/fileio"
	"github.com/bassista/go_core/internal/logger"
	"github.com/bassista/go_core/internal/store"
)

func newToolsRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	baseDir := t.TempDir()
	st := store.New(fileio.NewManager(logger.Discard()), logger.Discard())
	tc := NewToolsController(baseDir, batch.NewPool(2, st, logger.Discard()))

	router := gin.New()
	router.POST("/tools/keys-by-value", tc.KeysByValue)
	router.POST("/batch/read", tc.BatchRead)
	router.POST("/batch/write", tc.BatchWrite)
	return router, baseDir
}

func TestToolsController_KeysByValue(t *testing.T) {
	router, _ := newToolsRouter(t)

	body := `{"data": {"a": 1, "b": 5, "c": 10}, "threshold": 4, "comparison": "above"}`
	w := do(router, http.MethodPost, "/tools/keys-by-value", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decodeResult(t, w.Body)
	keys := res.Data.([]any)
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "c" {
		t.Errorf("expected [b c], got %v", res.Data)
	}
}

func TestToolsController_KeysByValue_BadComparison(t *testing.T) {
	router, _ := newToolsRouter(t)

	body := `{"data": {"a": 1}, "threshold": 4, "comparison": "near"}`
	w := do(router, http.MethodPost, "/tools/keys-by-value", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestToolsController_BatchWriteThenRead(t *testing.T) {
	router, baseDir := newToolsRouter(t)

	writeBody := `{"jobs": [
		{"path": "one.json", "value": {"n": 1}},
		{"path": "two.json", "value": {"n": 2}, "pretty": true}
	]}`
	w := do(router, http.MethodPost, "/batch/write", writeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("batch write failed: %d: %s", w.Code, w.Body.String())
	}
	for _, name := range []string{"one.json", "two.json"} {
		if _, err := os.Stat(filepath.Join(baseDir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}

	readBody := `{"paths": ["one.json", "missing.json"]}`
	w = do(router, http.MethodPost, "/batch/read", readBody)
	if w.Code != http.StatusOK {
		t.Fatalf("batch read failed: %d: %s", w.Code, w.Body.String())
	}
	res := decodeResult(t, w.Body)
	items := res.Data.([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 results, got %d", len(items))
	}
	first := items[0].(map[string]any)
	if first["success"] != true {
		t.Errorf("expected first read to succeed: %v", first)
	}
	second := items[1].(map[string]any)
	if second["success"] != false {
		t.Errorf("expected second read to fail: %v", second)
	}
}

func TestToolsController_BatchRead_EmptyPaths(t *testing.T) {
	router, _ := newToolsRouter(t)

	w := do(router, http.MethodPost, "/batch/read", `{"paths": []}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
