package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates a small directory tree with a nested file and an
// executable script so mode preservation can be checked.
func writeTree(t *testing.T, root, marker string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lua", "user"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "init.lua"), []byte(marker), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lua", "user", "opts.lua"), []byte("-- "+marker), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "run.sh"), []byte("#!/bin/sh\n"), 0755))
}

func TestNextSlotRotation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nvim")

	assert.Equal(t, dir+".bak", NextSlot(dir))

	require.NoError(t, os.MkdirAll(dir+".bak", 0755))
	assert.Equal(t, dir+".bak.1", NextSlot(dir))

	require.NoError(t, os.MkdirAll(dir+".bak.1", 0755))
	assert.Equal(t, dir+".bak.2", NextSlot(dir))
}

func TestRepeatedBackupsNeverClobber(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nvim")

	// The directory keeps reappearing; each run must land in a fresh slot.
	wantSlots := []string{dir + ".bak", dir + ".bak.1", dir + ".bak.2"}
	for i, want := range wantSlots {
		writeTree(t, dir, string(rune('a'+i)))
		slot, err := RetireOrDelete(dir, true)
		require.NoError(t, err)
		assert.Equal(t, want, slot)
	}

	// Every slot still holds the content from its own run.
	for i, slot := range wantSlots {
		data, err := os.ReadFile(filepath.Join(slot, "init.lua"))
		require.NoError(t, err)
		assert.Equal(t, string(rune('a'+i)), string(data))
	}
}

func TestRetireOrDeleteKeepCopiesThenDeletes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nvim")
	writeTree(t, dir, "original")

	slot, err := RetireOrDelete(dir, true)
	require.NoError(t, err)
	assert.Equal(t, dir+".bak", slot)

	// Original is gone, backup carries the full tree with modes intact.
	_, err = os.Lstat(dir)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(slot, "lua", "user", "opts.lua"))
	require.NoError(t, err)
	assert.Equal(t, "-- original", string(data))

	info, err := os.Stat(filepath.Join(slot, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "executable bit must be preserved")
}

func TestRetireOrDeleteNoKeepDeletesOutright(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nvim")
	writeTree(t, dir, "doomed")

	slot, err := RetireOrDelete(dir, false)
	require.NoError(t, err)
	assert.Empty(t, slot)

	_, err = os.Lstat(dir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(dir + ".bak")
	assert.True(t, os.IsNotExist(err), "no backup slot may be created")
}

func TestRetireOrDeleteMissingDirIsNoOp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-existed")

	slot, err := RetireOrDelete(dir, true)
	require.NoError(t, err)
	assert.Empty(t, slot)

	slot, err = RetireOrDelete(dir, false)
	require.NoError(t, err)
	assert.Empty(t, slot)
}

func TestFailedBackupPreservesOriginal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nvim")
	writeTree(t, dir, "precious")

	// Force the copy step to fail partway through.
	orig := copyTreeFn
	copyTreeFn = func(src, dst string) error {
		require.NoError(t, os.MkdirAll(dst, 0755))
		return os.ErrPermission
	}
	defer func() { copyTreeFn = orig }()

	_, err := RetireOrDelete(dir, true)
	require.Error(t, err)

	// The original tree must still be fully present.
	data, readErr := os.ReadFile(filepath.Join(dir, "init.lua"))
	require.NoError(t, readErr)
	assert.Equal(t, "precious", string(data))

	// The partial slot must have been cleaned up.
	_, statErr := os.Lstat(dir + ".bak")
	assert.True(t, os.IsNotExist(statErr))
}
