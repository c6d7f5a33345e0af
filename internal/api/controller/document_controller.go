package controller

import (
	"hash/fnv"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/result"
	"github.com/bassista/go_core/internal/store"
)

// DocumentController exposes the JSON store over HTTP, rooted at a documents
// directory. Writes to the same document are serialized in-process through a
// striped lock so HTTP merge-writes do not race each other; the store itself
// stays lock-free.
type DocumentController struct {
	baseDir string
	store   *store.Store
	locks   [32]sync.Mutex
}

// NewDocumentController creates a controller serving documents under baseDir.
func NewDocumentController(baseDir string, st *store.Store) *DocumentController {
	return &DocumentController{baseDir: baseDir, store: st}
}

// resolve maps a request path onto the documents directory, refusing paths
// that would escape it.
func (dc *DocumentController) resolve(rel string) (string, bool) {
	cleaned := filepath.Clean("/" + strings.TrimPrefix(rel, "/"))
	if cleaned == "/" {
		return "", false
	}
	return filepath.Join(dc.baseDir, cleaned), true
}

func (dc *DocumentController) lockFor(path string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(path))
	return &dc.locks[h.Sum32()%uint32(len(dc.locks))]
}

// Get handles GET /documents/*path.
func (dc *DocumentController) Get(c *gin.Context) {
	path, ok := dc.resolve(c.Param("path"))
	if !ok {
		respond(c, result.Failf(result.KindInvalidArgument, "api.documents", "document path is required"))
		return
	}
	respond(c, dc.store.ReadDocument(path))
}

// Put handles PUT /documents/*path with the document value as the JSON body.
// Query parameters: pretty=true for indented output, merge_key=<k> to
// replace a single top-level key of the existing document.
func (dc *DocumentController) Put(c *gin.Context) {
	path, ok := dc.resolve(c.Param("path"))
	if !ok {
		respond(c, result.Failf(result.KindInvalidArgument, "api.documents", "document path is required"))
		return
	}

	var value any
	if err := c.ShouldBindJSON(&value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	opts := store.WriteOptions{Pretty: c.Query("pretty") == "true"}
	if mergeKey, present := c.GetQuery("merge_key"); present {
		if mergeKey == "" {
			respond(c, result.Failf(result.KindInvalidArgument, "api.documents", "merge_key must not be empty"))
			return
		}
		opts.MergeKey = &mergeKey
	}

	lock := dc.lockFor(path)
	lock.Lock()
	res := dc.store.WriteDocument(path, value, opts)
	lock.Unlock()
	respond(c, res)
}

// List handles GET /files/*path, enumerating a directory under the documents
// root. Query parameters: ext (repeatable) filters by extension, names_only
// returns bare stems.
func (dc *DocumentController) List(c *gin.Context) {
	rel := c.Param("path")
	dir := dc.baseDir
	if cleaned, ok := dc.resolve(rel); ok {
		dir = cleaned
	}
	respond(c, dc.store.ListFiles(dir, c.QueryArray("ext"), c.Query("names_only") == "true"))
}
