package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nvim-bootstrap/internal/pipeline"
	"nvim-bootstrap/internal/platform"
	"nvim-bootstrap/internal/prompt"
)

// failingAction always fails.
type failingAction struct{ desc string }

func (f failingAction) Describe() string { return f.desc }
func (f failingAction) Run() error       { return errors.New(f.desc + " broke") }

// testOptions builds a fully faked run rooted in a temp directory: no
// network, no package manager, no git, no real editor.
func testOptions(t *testing.T, yes, no bool) (Options, string) {
	t.Helper()
	home := t.TempDir()

	gate, err := prompt.NewWithReader(yes, no, strings.NewReader(""))
	require.NoError(t, err)
	p, err := platform.Resolve("linux", "x86_64")
	require.NoError(t, err)

	dirs := Dirs{
		ConfigRoot:  filepath.Join(home, ".config", "nvim"),
		DataDir:     filepath.Join(home, ".local", "share", "nvim"),
		StateDir:    filepath.Join(home, ".local", "state", "nvim"),
		EditorCache: filepath.Join(home, ".cache", "nvim"),
		CacheDir:    filepath.Join(home, ".cache", "nvim-bootstrap"),
		OptDir:      filepath.Join(home, ".local", "opt", "nvim"),
		BinDir:      filepath.Join(home, ".local", "bin"),
		FontDir:     filepath.Join(home, ".local", "share", "fonts"),
		RunDir:      filepath.Join(home, ".local", "state", "nvim-bootstrap"),
	}

	opts := Options{
		Gate:         gate,
		Platform:     p,
		Catalog:      pipeline.DefaultCatalog(),
		Dirs:         dirs,
		PackageTasks: []pipeline.Task{}, // no real package managers in tests
		InstallBinary: func(tmpDir string) (string, error) {
			bin := filepath.Join(dirs.BinDir, "nvim")
			if err := os.MkdirAll(dirs.BinDir, 0755); err != nil {
				return "", err
			}
			return bin, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755)
		},
		Clone: func(repo, dest string) error {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(dest, "init.lua"), []byte("-- starter\n"), 0644)
		},
		InstallFont: func(tmpDir string) ([]string, error) {
			return []string{filepath.Join(dirs.FontDir, "Mono.ttf")}, nil
		},
		ValidateRunner: func(argv []string) error { return nil },
		LookPath:       func(file string) (string, error) { return "", errors.New("not found") },
	}
	return opts, home
}

func TestFreshMachineAlwaysYes(t *testing.T) {
	// Scenario: nothing pre-exists, -y set. Run completes, config root is
	// created, and no backup directories appear.
	opts, _ := testOptions(t, true, false)

	require.NoError(t, Run(opts))

	assert.FileExists(t, filepath.Join(opts.Dirs.ConfigRoot, "init.lua"))
	assert.FileExists(t, filepath.Join(opts.Dirs.ConfigRoot, "lua", "custom", "options.lua"))
	assert.NoDirExists(t, opts.Dirs.ConfigRoot+".bak")
	assert.NoDirExists(t, opts.Dirs.DataDir+".bak")

	// The run record landed in the tool's own state dir.
	assert.FileExists(t, filepath.Join(opts.Dirs.RunDir, "state.json"))
}

func TestExistingConfigBackedUpUnderAlwaysYes(t *testing.T) {
	// Scenario: prior config exists, -y set. Exactly <config>.bak is
	// created, the original is replaced by a fresh tree.
	opts, _ := testOptions(t, true, false)
	require.NoError(t, os.MkdirAll(opts.Dirs.ConfigRoot, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dirs.ConfigRoot, "init.lua"), []byte("-- old\n"), 0644))

	require.NoError(t, Run(opts))

	data, err := os.ReadFile(opts.Dirs.ConfigRoot + ".bak/init.lua")
	require.NoError(t, err)
	assert.Equal(t, "-- old\n", string(data))

	fresh, err := os.ReadFile(filepath.Join(opts.Dirs.ConfigRoot, "init.lua"))
	require.NoError(t, err)
	assert.Equal(t, "-- starter\n", string(fresh))

	assert.NoDirExists(t, opts.Dirs.ConfigRoot+".bak.1", "only one slot per run")
}

func TestExistingConfigDeletedUnderAlwaysNo(t *testing.T) {
	// Scenario: prior config exists, -n set. The original is deleted with
	// no backup, a fresh config root appears in its place.
	opts, _ := testOptions(t, false, true)
	require.NoError(t, os.MkdirAll(opts.Dirs.ConfigRoot, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dirs.ConfigRoot, "init.lua"), []byte("-- old\n"), 0644))

	require.NoError(t, Run(opts))

	assert.NoDirExists(t, opts.Dirs.ConfigRoot+".bak")
	fresh, err := os.ReadFile(filepath.Join(opts.Dirs.ConfigRoot, "init.lua"))
	require.NoError(t, err)
	assert.Equal(t, "-- starter\n", string(fresh))
}

func TestSweepClearsStaleEditorCache(t *testing.T) {
	// The sweep covers the editor's cache root too: a stale plugin cache
	// from a previous install must not survive into the fresh setup.
	opts, _ := testOptions(t, false, true)
	require.NoError(t, os.MkdirAll(opts.Dirs.EditorCache, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dirs.EditorCache, "stale.bin"), []byte("old bytecode"), 0644))

	require.NoError(t, Run(opts))

	assert.NoFileExists(t, filepath.Join(opts.Dirs.EditorCache, "stale.bin"))
	assert.NoDirExists(t, opts.Dirs.EditorCache+".bak", "AlwaysNo deletes without backup")
}

func TestSweepBacksUpEditorCacheUnderAlwaysYes(t *testing.T) {
	opts, _ := testOptions(t, true, false)
	require.NoError(t, os.MkdirAll(opts.Dirs.EditorCache, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.Dirs.EditorCache, "stale.bin"), []byte("old bytecode"), 0644))

	require.NoError(t, Run(opts))

	assert.NoFileExists(t, filepath.Join(opts.Dirs.EditorCache, "stale.bin"))
	assert.FileExists(t, filepath.Join(opts.Dirs.EditorCache+".bak", "stale.bin"))
}

func TestOptionalTaskFailureStillCompletes(t *testing.T) {
	// Scenario: an optional task's primary and fallback both fail; the run
	// still reaches config materialization and reports success.
	opts, _ := testOptions(t, true, false)
	opts.PackageTasks = []pipeline.Task{{
		Name:      "system packages",
		Prompt:    "Install system packages?",
		Primary:   failingAction{desc: "apt-get"},
		Fallbacks: []pipeline.Action{failingAction{desc: "dnf"}},
	}}

	require.NoError(t, Run(opts))
	assert.FileExists(t, filepath.Join(opts.Dirs.ConfigRoot, "lua", "custom", "options.lua"))
}

func TestRequiredBinaryFailureAborts(t *testing.T) {
	opts, _ := testOptions(t, true, false)
	opts.InstallBinary = func(tmpDir string) (string, error) {
		return "", errors.New("download failed")
	}

	err := Run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor binary")

	// The fatal stop happened before the sweep and clone.
	assert.NoDirExists(t, opts.Dirs.ConfigRoot)
}

func TestStarterCloneFailureIsFatal(t *testing.T) {
	opts, _ := testOptions(t, true, false)
	opts.Clone = func(repo, dest string) error {
		return errors.New("remote hung up")
	}

	err := Run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starter configuration")
}

func TestReinstallDeclinedKeepsExistingBinary(t *testing.T) {
	// An existing install gates the binary task; declining must not fail
	// the run, and validation runs against the existing binary.
	opts, _ := testOptions(t, false, true)
	installed := false
	opts.LookPath = func(file string) (string, error) { return "/usr/bin/nvim", nil }
	opts.InstallBinary = func(tmpDir string) (string, error) {
		installed = true
		return "", errors.New("must not be called")
	}

	var validated []string
	opts.ValidateRunner = func(argv []string) error {
		validated = append(validated, argv[0])
		return nil
	}

	require.NoError(t, Run(opts))
	assert.False(t, installed)
	for _, bin := range validated {
		assert.Equal(t, "/usr/bin/nvim", bin)
	}
}

func TestValidationFailureDoesNotFailRun(t *testing.T) {
	opts, _ := testOptions(t, true, false)
	opts.ValidateRunner = func(argv []string) error {
		return errors.New("plugin sync exploded")
	}

	require.NoError(t, Run(opts))
}

func TestRepeatedRunsRotateBackups(t *testing.T) {
	opts, _ := testOptions(t, true, false)

	for i := 0; i < 2; i++ {
		require.NoError(t, os.MkdirAll(opts.Dirs.ConfigRoot, 0755))
		require.NoError(t, Run(opts))
	}

	// First sweep backed up the pre-created dir; the second backed up the
	// tree the first run materialized.
	assert.DirExists(t, opts.Dirs.ConfigRoot+".bak")
	assert.DirExists(t, opts.Dirs.ConfigRoot+".bak.1")
}
