package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bassista/go_core/internal/fileio"
	"github.com/bassista/go_core/internal/result"
)

// Store persists whole-file JSON documents through the atomic writer and
// enumerates directories. It is stateless: the filesystem is the sole owner
// of every document, there is no in-process cache and no locking. Concurrent
// writers to the same path race at the OS rename level (last writer wins);
// callers that need mutual exclusion must serialize externally.
type Store struct {
	files *fileio.Manager
	log   *logrus.Entry
}

// WriteOptions controls how WriteDocument serializes and places a value.
type WriteOptions struct {
	// MergeKey, when non-nil, replaces only that top-level key of the
	// existing document instead of overwriting the whole file. The document
	// must already exist and be a JSON object.
	MergeKey *string
	// Pretty switches from compact output to two-space-indented output.
	Pretty bool
}

// New creates a Store writing through files.
func New(files *fileio.Manager, log *logrus.Entry) *Store {
	return &Store{files: files, log: log}
}

// ReadDocument reads the file at path through the file manager and parses it
// as JSON. The parsed value is returned as the Result data.
func (s *Store) ReadDocument(path string) result.Result {
	const ctx = "store.ReadDocument"

	read := s.files.ReadFile(path)
	if !read.Success {
		return read
	}

	var doc any
	if err := json.Unmarshal([]byte(read.Data.(string)), &doc); err != nil {
		return result.Fail(result.KindParseError, fmt.Errorf("decode %s: %w", path, err), ctx)
	}
	return result.Ok(doc)
}

// WriteDocument serializes value and atomically writes it to path.
//
// With a merge key, the existing document is read first and only that key is
// replaced; a missing or unparsable document fails the whole operation (no
// create-if-absent, so a single-key file can never silently stand in for a
// multi-key one), and a document that is not a JSON object is rejected.
//
// A merge is a read-then-write sequence: two concurrent merges on the same
// document can lose one update. Documented limitation, not a guarantee.
func (s *Store) WriteDocument(path string, value any, opts WriteOptions) result.Result {
	const ctx = "store.WriteDocument"

	final := value
	if opts.MergeKey != nil {
		read := s.ReadDocument(path)
		if !read.Success {
			return read
		}
		doc, ok := read.Data.(map[string]any)
		if !ok {
			return result.Failf(result.KindInvalidArgument, ctx,
				"merge target %s is not a JSON object (got %T)", path, read.Data)
		}
		doc[*opts.MergeKey] = value
		final = doc
	}

	var payload []byte
	var err error
	if opts.Pretty {
		payload, err = json.MarshalIndent(final, "", "  ")
	} else {
		payload, err = json.Marshal(final)
	}
	if err != nil {
		return result.Fail(result.KindInvalidArgument, fmt.Errorf("marshal document: %w", err), ctx)
	}

	if res := s.files.Write(path, payload); !res.Success {
		return res
	}
	s.log.Debugf("document written to %s (pretty=%v, merge=%v)", path, opts.Pretty, opts.MergeKey != nil)
	return result.Ok(fmt.Sprintf("wrote document %s", path))
}

// ListFiles enumerates the immediate entries of dir, keeping regular files
// only. A non-empty extensions list keeps files whose extension matches
// case-insensitively (".json" and "json" are both accepted as filters).
// With namesOnly, bare file stems are returned instead of full paths.
func (s *Store) ListFiles(dir string, extensions []string, namesOnly bool) result.Result {
	const ctx = "store.ListFiles"

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result.Fail(result.KindNotFound, fmt.Errorf("list files: %w", err), ctx)
		}
		return result.Fail(result.KindIOFailure, fmt.Errorf("list files: %w", err), ctx)
	}
	if !info.IsDir() {
		return result.Failf(result.KindInvalidArgument, ctx, "not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result.Fail(result.KindIOFailure, fmt.Errorf("list files: %w", err), ctx)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = true
	}

	files := []string{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if len(wanted) > 0 && !wanted[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if namesOnly {
			files = append(files, strings.TrimSuffix(name, filepath.Ext(name)))
		} else {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return result.Ok(files)
}
