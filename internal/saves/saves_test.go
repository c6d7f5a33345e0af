package saves

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassista/go_core/internal/fileio"
	"github.com/bassista/go_core/internal/logger"
	"github.com/bassista/go_core/internal/result"
	"github.com/bassista/go_core/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	files := fileio.NewManager(logger.Discard())
	st := store.New(files, logger.Discard())
	m, err := NewManager(filepath.Join(t.TempDir(), "saves"), st, files, logger.Discard())
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresBaseDir(t *testing.T) {
	files := fileio.NewManager(logger.Discard())
	st := store.New(files, logger.Discard())
	_, err := NewManager("", st, files, logger.Discard())
	assert.Error(t, err)
}

func TestSaveAndLoadData(t *testing.T) {
	m := newTestManager(t)

	data := map[string]any{"gold": 120.0, "name": "player one"}
	res := m.SaveData(data, "user", "slot1")
	require.True(t, res.Success, "save failed: %v", res.Error)

	loaded := m.LoadData("user", "slot1")
	require.True(t, loaded.Success, "load failed: %v", loaded.Error)
	assert.Equal(t, data, loaded.Data)
}

func TestSaveData_RejectsPathEscapes(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name     string
		saveID   string
		saveType string
	}{
		{"slash in id", "a/b", "user"},
		{"backslash in id", `a\b`, "user"},
		{"dotdot id", "..", "user"},
		{"empty id", "", "user"},
		{"slash in type", "slot1", "../../etc"},
		{"empty type", "slot1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.SaveData(map[string]any{"x": 1}, tt.saveType, tt.saveID)
			require.False(t, res.Success)
			assert.Equal(t, result.KindInvalidArgument, res.Kind())
		})
	}
}

func TestSaveAll_AllocatesSequentialSlots(t *testing.T) {
	m := newTestManager(t)
	items := map[string]any{"user": map[string]any{"gold": 1.0}}

	first := m.SaveAll(items, "")
	require.True(t, first.Success, "save failed: %v", first.Error)
	assert.Equal(t, "save_1", first.Data)

	second := m.SaveAll(items, "")
	require.True(t, second.Success, "save failed: %v", second.Error)
	assert.Equal(t, "save_2", second.Data)

	// metadata.json written alongside the data
	meta := m.LoadMetadata("save_1")
	require.True(t, meta.Success, "metadata load failed: %v", meta.Error)
	doc := meta.Data.(map[string]any)
	assert.NotEmpty(t, doc["timestamp"])
}

func TestSaveAll_OverwritesNamedSlot(t *testing.T) {
	m := newTestManager(t)

	res := m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "campaign")
	require.True(t, res.Success, "save failed: %v", res.Error)
	assert.Equal(t, "campaign", res.Data)

	res = m.SaveAll(map[string]any{"user": map[string]any{"v": 2.0}}, "campaign")
	require.True(t, res.Success, "overwrite failed: %v", res.Error)

	loaded := m.LoadData("user", "campaign")
	require.True(t, loaded.Success)
	assert.Equal(t, map[string]any{"v": 2.0}, loaded.Data)
}

func TestSaveAll_RejectsEmptyItems(t *testing.T) {
	m := newTestManager(t)

	res := m.SaveAll(nil, "")
	require.False(t, res.Success)
	assert.Equal(t, result.KindInvalidArgument, res.Kind())
}

func TestListSaves(t *testing.T) {
	m := newTestManager(t)
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "alpha").Success)
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 2.0}}, "beta").Success)

	res := m.ListSaves()
	require.True(t, res.Success)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, res.Data)
}

func TestDeleteSave(t *testing.T) {
	m := newTestManager(t)
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "doomed").Success)

	res := m.DeleteSave("doomed")
	require.True(t, res.Success, "delete failed: %v", res.Error)

	exists := m.SaveExists("doomed")
	require.True(t, exists.Success)
	assert.Equal(t, false, exists.Data)
}

func TestDeleteSave_NotFound(t *testing.T) {
	m := newTestManager(t)

	res := m.DeleteSave("never-existed")
	require.False(t, res.Success)
	assert.Equal(t, result.KindNotFound, res.Kind())
}

func TestSaveExists(t *testing.T) {
	m := newTestManager(t)
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "here").Success)

	res := m.SaveExists("here")
	require.True(t, res.Success)
	assert.Equal(t, true, res.Data)
}

func TestValidateSave(t *testing.T) {
	m := newTestManager(t)
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "slot").Success)

	res := m.ValidateSave("slot", []string{"user.json", "metadata.json", "stocks.json"})
	require.True(t, res.Success, "validate failed: %v", res.Error)

	report := res.Data.(ValidationReport)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"stocks.json"}, report.Missing)

	res = m.ValidateSave("slot", []string{"user.json", "metadata.json"})
	require.True(t, res.Success)
	assert.True(t, res.Data.(ValidationReport).Valid)
}

func TestValidateSave_RequiresFileList(t *testing.T) {
	m := newTestManager(t)

	res := m.ValidateSave("slot", nil)
	require.False(t, res.Success)
	assert.Equal(t, result.KindInvalidArgument, res.Kind())
}

func TestLatestSaveID(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "older").Success)

	m.now = func() time.Time { return base.Add(time.Hour) }
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 2.0}}, "newer").Success)

	res := m.LatestSaveID()
	require.True(t, res.Success, "latest failed: %v", res.Error)
	assert.Equal(t, "newer", res.Data)
}

func TestLatestSaveID_NoSaves(t *testing.T) {
	m := newTestManager(t)

	res := m.LatestSaveID()
	require.False(t, res.Success)
	assert.Equal(t, result.KindNotFound, res.Kind())
}

func TestLoadData_LatestAlias(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 1.0}}, "first").Success)

	m.now = func() time.Time { return base.Add(time.Minute) }
	require.True(t, m.SaveAll(map[string]any{"user": map[string]any{"v": 2.0}}, "second").Success)

	res := m.LoadData("user", "latest")
	require.True(t, res.Success, "load failed: %v", res.Error)
	assert.Equal(t, map[string]any{"v": 2.0}, res.Data)
}

func TestLoadMetadata_MissingSave(t *testing.T) {
	m := newTestManager(t)

	res := m.LoadMetadata("ghost")
	require.False(t, res.Success)
	assert.Equal(t, result.KindNotFound, res.Kind())

	// nothing should have been created as a side effect
	entries, err := os.ReadDir(filepath.Dir(filepath.Join(m.baseDir, "ghost")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
