package saves

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/bassista/go_core/internal/fileio"
	"github.com/bassista/go_core/internal/result"
	"github.com/bassista/go_core/internal/store"
)

// Timestamp layout for save metadata. Lexicographic order equals
// chronological order, which LatestSaveID relies on.
const metadataTimeLayout = "2006-01-02,15:04:05"

// ValidationReport is the data payload of ValidateSave.
type ValidationReport struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing_files"`
}

// Manager organizes documents into save slots laid out as
// <baseDir>/<saveID>/<saveType>.json. Layout policy lives here, not in the
// store: the store stays path-agnostic.
type Manager struct {
	baseDir  string
	store    *store.Store
	files    *fileio.Manager
	validate *validator.Validate
	log      *logrus.Entry
	now      func() time.Time
}

// NewManager creates a Manager rooted at baseDir, creating it if missing.
func NewManager(baseDir string, st *store.Store, files *fileio.Manager, log *logrus.Entry) (*Manager, error) {
	if baseDir == "" {
		return nil, errors.New("saves base dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create saves dir: %w", err)
	}
	return &Manager{
		baseDir:  baseDir,
		store:    st,
		files:    files,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}, nil
}

// checkName rejects identifiers that would escape the saves directory.
func (m *Manager) checkName(field, name string) error {
	if name == "." || name == ".." {
		return fmt.Errorf("%s must not be a relative path element", field)
	}
	// 0x2F = '/', 0x5C = '\'
	if err := m.validate.Var(name, "required,max=128,excludesall=0x2F0x5C"); err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, name, err)
	}
	return nil
}

func (m *Manager) dataPath(saveID, saveType string) string {
	return filepath.Join(m.baseDir, saveID, saveType+".json")
}

// LoadData loads <saveID>/<saveType>.json. A saveID of "latest" resolves to
// the most recently written save.
func (m *Manager) LoadData(saveType, saveID string) result.Result {
	const ctx = "saves.LoadData"

	if saveID == "latest" {
		latest := m.LatestSaveID()
		if !latest.Success {
			return latest
		}
		saveID = latest.Data.(string)
	}
	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	if err := m.checkName("save type", saveType); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	return m.store.ReadDocument(m.dataPath(saveID, saveType))
}

// SaveData writes data to <saveID>/<saveType>.json. The saveID must already
// be chosen; use SaveAll to allocate a new slot.
func (m *Manager) SaveData(data any, saveType, saveID string) result.Result {
	const ctx = "saves.SaveData"

	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	if err := m.checkName("save type", saveType); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	return m.store.WriteDocument(m.dataPath(saveID, saveType), data, store.WriteOptions{Pretty: true})
}

// SaveAll writes every item (save type -> document) plus metadata into one
// slot. With an empty saveID, the first free save_N slot is allocated and
// returned as the Result data; otherwise the given slot is overwritten and
// echoed back.
func (m *Manager) SaveAll(items map[string]any, saveID string) result.Result {
	const ctx = "saves.SaveAll"

	if len(items) == 0 {
		return result.Failf(result.KindInvalidArgument, ctx, "no items to save")
	}
	for saveType := range items {
		if err := m.checkName("save type", saveType); err != nil {
			return result.Fail(result.KindInvalidArgument, err, ctx)
		}
	}

	if saveID == "" {
		allocated, err := m.allocateSlot()
		if err != nil {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
		saveID = allocated
	} else {
		if err := m.checkName("save id", saveID); err != nil {
			return result.Fail(result.KindInvalidArgument, err, ctx)
		}
		if err := os.MkdirAll(filepath.Join(m.baseDir, saveID), 0o755); err != nil {
			return result.Fail(result.KindIOFailure, err, ctx)
		}
	}

	if res := m.SaveMetadata(saveID, nil); !res.Success {
		return res
	}
	for saveType, data := range items {
		if res := m.SaveData(data, saveType, saveID); !res.Success {
			return res
		}
	}
	m.log.Infof("saved %d item(s) to slot %s", len(items), saveID)
	return result.Ok(saveID)
}

// allocateSlot creates the first save_N directory that does not exist yet.
func (m *Manager) allocateSlot() (string, error) {
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("save_%d", i)
		path := filepath.Join(m.baseDir, candidate)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("probe slot %s: %w", candidate, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", fmt.Errorf("create slot %s: %w", candidate, err)
		}
		return candidate, nil
	}
}

// SaveMetadata writes <saveID>/metadata.json with the save timestamp plus
// any extra fields.
func (m *Manager) SaveMetadata(saveID string, extra map[string]any) result.Result {
	const ctx = "saves.SaveMetadata"

	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	metadata := map[string]any{
		"timestamp": m.now().Format(metadataTimeLayout),
	}
	for k, v := range extra {
		metadata[k] = v
	}
	return m.store.WriteDocument(m.dataPath(saveID, "metadata"), metadata, store.WriteOptions{Pretty: true})
}

// LoadMetadata reads <saveID>/metadata.json.
func (m *Manager) LoadMetadata(saveID string) result.Result {
	const ctx = "saves.LoadMetadata"

	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	if _, err := os.Stat(filepath.Join(m.baseDir, saveID)); err != nil {
		return result.Failf(result.KindNotFound, ctx, "save %q does not exist", saveID)
	}
	return m.store.ReadDocument(m.dataPath(saveID, "metadata"))
}

// ListSaves returns every save ID under the base directory.
func (m *Manager) ListSaves() result.Result {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return result.Fail(result.KindIOFailure, err, "saves.ListSaves")
	}
	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return result.Ok(ids)
}

// DeleteSave removes a save slot and everything in it.
func (m *Manager) DeleteSave(saveID string) result.Result {
	const ctx = "saves.DeleteSave"

	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	res := m.files.DeleteDir(filepath.Join(m.baseDir, saveID))
	if res.Success {
		m.log.Infof("deleted save %s", saveID)
	}
	return res
}

// SaveExists reports whether a save slot exists (boolean Result data).
func (m *Manager) SaveExists(saveID string) result.Result {
	const ctx = "saves.SaveExists"

	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}
	_, err := os.Stat(filepath.Join(m.baseDir, saveID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return result.Fail(result.KindIOFailure, err, ctx)
	}
	return result.Ok(err == nil)
}

// ValidateSave checks that every required file is present in the slot and
// reports the missing ones.
func (m *Manager) ValidateSave(saveID string, requiredFiles []string) result.Result {
	const ctx = "saves.ValidateSave"

	if len(requiredFiles) == 0 {
		return result.Failf(result.KindInvalidArgument, ctx, "required files list is empty")
	}
	if err := m.checkName("save id", saveID); err != nil {
		return result.Fail(result.KindInvalidArgument, err, ctx)
	}

	list := m.store.ListFiles(filepath.Join(m.baseDir, saveID), nil, false)
	if !list.Success {
		return list
	}
	present := make(map[string]bool)
	for _, path := range list.Data.([]string) {
		present[filepath.Base(path)] = true
	}

	missing := []string{}
	for _, required := range requiredFiles {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return result.Ok(ValidationReport{Valid: len(missing) == 0, Missing: missing})
}

// LatestSaveID returns the save with the most recent metadata timestamp.
// Slots without readable metadata are skipped.
func (m *Manager) LatestSaveID() result.Result {
	const ctx = "saves.LatestSaveID"

	list := m.ListSaves()
	if !list.Success {
		return list
	}

	latestID := ""
	latestStamp := ""
	for _, id := range list.Data.([]string) {
		meta := m.store.ReadDocument(m.dataPath(id, "metadata"))
		if !meta.Success {
			continue
		}
		doc, ok := meta.Data.(map[string]any)
		if !ok {
			continue
		}
		stamp, ok := doc["timestamp"].(string)
		if !ok {
			continue
		}
		if stamp > latestStamp {
			latestStamp = stamp
			latestID = id
		}
	}
	if latestID == "" {
		return result.Failf(result.KindNotFound, ctx, "no saves with metadata found")
	}
	return result.Ok(latestID)
}
