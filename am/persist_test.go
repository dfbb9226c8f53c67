package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/jpoet/errors"
)

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Render.IndentChar = IndentTab
	cfg.Render.FileComment = "Generated by jpoet."
	cfg.Output.Sink = SinkDir
	cfg.Output.Dir = "gen"

	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := DefaultConfig()
	cfg.Output.Sink = "ftp"

	err := Save(cfg, path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing written for an invalid config")
}

func TestSaveRotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	// Five saves leave the current file plus three backups
	for i := 1; i <= 5; i++ {
		cfg := DefaultConfig()
		cfg.Render.IndentCount = i
		require.NoError(t, Save(cfg, path))
	}

	current, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, current.Render.IndentCount)

	for n, want := range map[int]int{1: 4, 2: 3, 3: 2} {
		backup, err := LoadFromFile(backupPath(path, n))
		require.NoError(t, err, "backup %d", n)
		assert.Equal(t, want, backup.Render.IndentCount, "backup %d", n)
	}

	_, err = os.Stat(backupPath(path, 4))
	assert.True(t, os.IsNotExist(err), "only three backups are kept")
}

func TestSaveMarksOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, nil, DefaultFilePermissions))

	w, err := NewWatcher(0, path)
	require.NoError(t, err)
	defer w.Stop()

	SetGlobalWatcher(w)
	t.Cleanup(func() { SetGlobalWatcher(nil) })

	require.NoError(t, Save(DefaultConfig(), path))

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.True(t, w.checkOwnWrite(abs))
	assert.True(t, w.checkOwnWrite(abs), "every event in the window is ignored")
}

func TestInitProject(t *testing.T) {
	dir := t.TempDir()

	path, err := InitProject(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), path)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = InitProject(dir)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "already exists")
}
