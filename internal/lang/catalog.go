package lang

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/bassista/go_core/internal/result"
	"github.com/bassista/go_core/internal/store"
)

// Catalog serves localized text from a directory of <lang>.json files, each
// a flat object of key -> text. Language documents are cached on first use;
// StartWatcher drops a cached language when its file changes on disk.
//
// There is no fallback language: callers must ask for a language that exists.
type Catalog struct {
	dir   string
	store *store.Store
	log   *logrus.Entry

	mu    sync.RWMutex
	cache map[string]map[string]any
}

// NewCatalog creates a Catalog reading from dir through st.
func NewCatalog(dir string, st *store.Store, log *logrus.Entry) (*Catalog, error) {
	if dir == "" {
		return nil, errors.New("language dir is required")
	}
	return &Catalog{
		dir:   dir,
		store: st,
		log:   log,
		cache: make(map[string]map[string]any),
	}, nil
}

// Languages lists the languages available on disk (bare file stems of the
// .json files in the catalog directory).
func (c *Catalog) Languages() result.Result {
	return c.store.ListFiles(c.dir, []string{".json"}, true)
}

// Text returns the text for key in lang. The language document is loaded and
// cached on first use. On any lookup failure the cached entry for that
// language is dropped, so a later call re-reads the file.
func (c *Catalog) Text(lang, key string) result.Result {
	const ctx = "lang.Text"

	doc, res := c.language(lang)
	if !res.Success {
		return res
	}

	value, ok := doc[key]
	if !ok {
		c.Invalidate(lang)
		return result.Failf(result.KindNotFound, ctx, "key %q not found in language %q", key, lang)
	}
	return result.Ok(value)
}

// language returns the cached document for lang, loading it if needed.
func (c *Catalog) language(lang string) (map[string]any, result.Result) {
	const ctx = "lang.Text"

	c.mu.RLock()
	doc, ok := c.cache[lang]
	c.mu.RUnlock()
	if ok {
		return doc, result.Ok(nil)
	}

	read := c.store.ReadDocument(filepath.Join(c.dir, lang+".json"))
	if !read.Success {
		return nil, read
	}
	doc, ok = read.Data.(map[string]any)
	if !ok {
		return nil, result.Failf(result.KindParseError, ctx, "language file %q is not a JSON object", lang)
	}

	c.mu.Lock()
	c.cache[lang] = doc
	c.mu.Unlock()
	c.log.Debugf("language %q cached (%d keys)", lang, len(doc))
	return doc, result.Ok(nil)
}

// Invalidate drops the cached document for lang. Safe to call for languages
// that were never cached.
func (c *Catalog) Invalidate(lang string) {
	c.mu.Lock()
	delete(c.cache, lang)
	c.mu.Unlock()
}

// CachedLanguages returns the languages currently held in the cache.
func (c *Catalog) CachedLanguages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	langs := make([]string, 0, len(c.cache))
	for lang := range c.cache {
		langs = append(langs, lang)
	}
	return langs
}

// StartWatcher invalidates cached languages when their files change on disk.
// It watches the catalog directory (not individual files) so atomic replace
// sequences (temp+rename) are still observed. The caller owns ctx: cancel it
// to stop the goroutine and close the watcher.
func (c *Catalog) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch language dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				base := filepath.Base(event.Name)
				if !strings.HasSuffix(strings.ToLower(base), ".json") {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) == 0 {
					continue
				}
				lang := strings.TrimSuffix(base, filepath.Ext(base))
				c.Invalidate(lang)
				c.log.Debugf("language %q invalidated after %s", lang, event.Op)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Errorf("language watcher error: %v", err)
			}
		}
	}()
	return nil
}
