package controller

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/batch"
	"github.com/bassista/go_core/internal/search"
)

// KeysByValueRequest is the body of POST /tools/keys-by-value.
type KeysByValueRequest struct {
	Data       map[string]any `json:"data" binding:"required"`
	Threshold  any            `json:"threshold"`
	Comparison string         `json:"comparison" binding:"required,oneof=above below equal"`
}

// BatchReadRequest is the body of POST /batch/read. Paths are relative to
// the documents directory.
type BatchReadRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
}

// BatchWriteRequest is the body of POST /batch/write.
type BatchWriteRequest struct {
	Jobs []BatchWriteItem `json:"jobs" binding:"required,min=1,dive"`
}

// BatchWriteItem is one document in a batch write.
type BatchWriteItem struct {
	Path   string `json:"path" binding:"required"`
	Value  any    `json:"value"`
	Pretty bool   `json:"pretty"`
}

// ToolsController exposes the dictionary filter and batch helpers over HTTP.
type ToolsController struct {
	baseDir string
	pool    *batch.Pool
}

// NewToolsController creates a ToolsController rooting batch paths at baseDir.
func NewToolsController(baseDir string, pool *batch.Pool) *ToolsController {
	return &ToolsController{baseDir: baseDir, pool: pool}
}

// KeysByValue handles POST /tools/keys-by-value.
func (tc *ToolsController) KeysByValue(c *gin.Context) {
	var req KeysByValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	respond(c, search.KeysByValue(req.Data, req.Threshold, search.Comparison(req.Comparison)))
}

// resolve maps a relative document path under the documents root.
func (tc *ToolsController) resolve(rel string) string {
	return filepath.Join(tc.baseDir, filepath.Clean("/"+strings.TrimPrefix(rel, "/")))
}

// BatchRead handles POST /batch/read.
func (tc *ToolsController) BatchRead(c *gin.Context) {
	var req BatchReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	paths := make([]string, len(req.Paths))
	for i, p := range req.Paths {
		paths[i] = tc.resolve(p)
	}
	respond(c, tc.pool.ReadAll(c.Request.Context(), paths))
}

// BatchWrite handles POST /batch/write.
func (tc *ToolsController) BatchWrite(c *gin.Context) {
	var req BatchWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	jobs := make([]batch.WriteJob, len(req.Jobs))
	for i, item := range req.Jobs {
		jobs[i] = batch.WriteJob{Path: tc.resolve(item.Path), Value: item.Value, Pretty: item.Pretty}
	}
	respond(c, tc.pool.WriteAll(c.Request.Context(), jobs))
}
