package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/bassista/go_core/internal/result"
)

// Manager performs filesystem operations with atomic-write semantics.
// It holds no state beyond its logger; every call is a pure function of the
// filesystem. All outcomes are reported through result.Result, nothing panics
// across the package boundary.
type Manager struct {
	log    *logrus.Entry
	remove func(string) error
}

// NewManager creates a Manager logging through the given entry.
func NewManager(log *logrus.Entry) *Manager {
	return &Manager{log: log, remove: os.Remove}
}

// Write atomically writes content to path. It creates missing parent
// directories, writes to a uniquely named temp file in the same directory
// (same filesystem, so the final rename is atomic), syncs best-effort and
// renames over the target. A reader never observes a partial file and a
// failed write never touches the prior content of path.
//
// Empty content is rejected: callers persisting an intentionally empty
// document must pass an explicit sentinel such as "{}".
func (m *Manager) Write(path string, content []byte) result.Result {
	const ctx = "fileio.Write"

	if len(content) == 0 {
		return result.Failf(result.KindInvalidArgument, ctx, "content is empty, refusing to write %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result.Fail(result.KindIOFailure, fmt.Errorf("create parent dir: %w", err), ctx)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return result.Fail(result.KindIOFailure, fmt.Errorf("create temp file: %w", err), ctx)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return m.failWrite(tmpPath, fmt.Errorf("write temp file: %w", err), ctx)
	}

	if err := tmp.Sync(); err != nil && !syncUnsupported(err) {
		tmp.Close()
		return m.failWrite(tmpPath, fmt.Errorf("sync temp file: %w", err), ctx)
	}

	if err := tmp.Close(); err != nil {
		return m.failWrite(tmpPath, fmt.Errorf("close temp file: %w", err), ctx)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return m.failWrite(tmpPath, fmt.Errorf("replace target file: %w", err), ctx)
	}

	m.log.Debugf("wrote %d bytes to %s", len(content), path)
	return result.Ok(fmt.Sprintf("wrote %s", path))
}

// failWrite reports a failed write, removing the leftover temp file. Cleanup
// is attempted once; if it also fails, the original error stays primary and
// the cleanup error is attached as secondary detail.
func (m *Manager) failWrite(tmpPath string, cause error, ctx string) result.Result {
	res := result.Fail(result.KindIOFailure, cause, ctx)
	if err := m.remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.log.Errorf("failed to remove temp file %s: %v", tmpPath, err)
		return res.WithDetail(map[string]any{
			"kind":    string(result.KindIOFailure),
			"cause":   cause.Error(),
			"cleanup": fmt.Sprintf("%s: remove %s: %v", result.KindCleanupFailure, tmpPath, err),
		})
	}
	m.log.Errorf("atomic write failed: %v", cause)
	return res
}

// syncUnsupported reports whether a Sync error means the platform or
// filesystem has no durability primitive. Such errors are treated as a no-op,
// not a write failure.
func syncUnsupported(err error) bool {
	return errors.Is(err, syscall.ENOTSUP) || errors.Is(err, syscall.EINVAL)
}

// ReadFile reads the file at path as UTF-8 text.
func (m *Manager) ReadFile(path string) result.Result {
	const ctx = "fileio.ReadFile"

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result.Fail(result.KindNotFound, err, ctx)
		}
		return result.Fail(result.KindIOFailure, err, ctx)
	}
	return result.Ok(string(content))
}

// CreateDir creates the directory at path, including missing parents.
// Creating an already existing directory succeeds.
func (m *Manager) CreateDir(path string) result.Result {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return result.Fail(result.KindIOFailure, err, "fileio.CreateDir")
	}
	return result.Ok(fmt.Sprintf("created %s", path))
}

// DeleteFile removes the file at path. A permission error triggers a single
// chmod-and-retry, for read-only files on filesystems that block unlink.
func (m *Manager) DeleteFile(path string) result.Result {
	const ctx = "fileio.DeleteFile"

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result.Fail(result.KindNotFound, err, ctx)
		}
		return result.Fail(result.KindIOFailure, err, ctx)
	}

	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrPermission) {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
		if chmodErr := os.Chmod(path, 0o600); chmodErr != nil {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
		if err := os.Remove(path); err != nil {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
	}
	return result.Ok(fmt.Sprintf("deleted %s", path))
}

// DeleteDir removes the directory at path and all its contents. On a
// permission error it makes everything under path writable once and retries.
func (m *Manager) DeleteDir(path string) result.Result {
	const ctx = "fileio.DeleteDir"

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result.Fail(result.KindNotFound, err, ctx)
		}
		return result.Fail(result.KindIOFailure, err, ctx)
	}
	if !info.IsDir() {
		return result.Failf(result.KindInvalidArgument, ctx, "not a directory: %s", path)
	}

	if err := os.RemoveAll(path); err != nil {
		if !errors.Is(err, fs.ErrPermission) {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
		makeWritable(path)
		if err := os.RemoveAll(path); err != nil {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
	}
	return result.Ok(fmt.Sprintf("deleted directory %s", path))
}

// makeWritable chmods everything under root so a retried RemoveAll can
// proceed. Errors are ignored, the retry will surface anything fatal.
func makeWritable(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = os.Chmod(p, 0o755)
		} else {
			_ = os.Chmod(p, 0o600)
		}
		return nil
	})
}
