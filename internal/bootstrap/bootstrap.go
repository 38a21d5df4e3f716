// Package bootstrap drives the whole provisioning sequence. Stages run
// strictly in order on one logical thread; every stage after platform
// resolution isolates its own failures so a flaky package ecosystem cannot
// take down the run. Only the editor binary install and the starter config
// clone are must-succeed.
package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/adrg/xdg"

	"nvim-bootstrap/internal/backup"
	"nvim-bootstrap/internal/editorcfg"
	"nvim-bootstrap/internal/installer"
	"nvim-bootstrap/internal/logger"
	"nvim-bootstrap/internal/pipeline"
	"nvim-bootstrap/internal/platform"
	"nvim-bootstrap/internal/prompt"
	"nvim-bootstrap/internal/state"
	"nvim-bootstrap/internal/validate"
)

// Dirs is the filesystem layout a run writes into. The editor's own
// directories (config/data/state/cache) are subject to the backup sweep;
// the tool's cache and state live under the bootstrap's own names and
// survive.
type Dirs struct {
	ConfigRoot  string // editor config tree, e.g. ~/.config/nvim
	DataDir     string // editor data (plugins), e.g. ~/.local/share/nvim
	StateDir    string // editor state, e.g. ~/.local/state/nvim
	EditorCache string // editor cache, e.g. ~/.cache/nvim
	CacheDir    string // bootstrap cache (navigation index), e.g. ~/.cache/nvim-bootstrap
	OptDir     string // installed release tree, e.g. ~/.local/opt/nvim
	BinDir     string // where the nvim link goes, e.g. ~/.local/bin
	FontDir    string // per-user font dir
	RunDir     string // bootstrap's own state (run log, state file)
}

// DefaultDirs resolves the conventional locations through XDG base dirs.
func DefaultDirs(p platform.Platform) Dirs {
	return Dirs{
		ConfigRoot:  filepath.Join(xdg.ConfigHome, "nvim"),
		DataDir:     filepath.Join(xdg.DataHome, "nvim"),
		StateDir:    filepath.Join(xdg.StateHome, "nvim"),
		EditorCache: filepath.Join(xdg.CacheHome, "nvim"),
		CacheDir:    filepath.Join(xdg.CacheHome, "nvim-bootstrap"),
		OptDir:      filepath.Join(xdg.Home, ".local", "opt", "nvim"),
		BinDir:      filepath.Join(xdg.Home, ".local", "bin"),
		FontDir:     p.FontDir(xdg.Home),
		RunDir:      filepath.Join(xdg.StateHome, "nvim-bootstrap"),
	}
}

// Options wires a run together. The function fields default to the real
// implementations; tests inject fakes so the full sequence runs without
// touching the network or a package manager.
type Options struct {
	Gate     *prompt.Gate
	Platform platform.Platform
	Catalog  pipeline.Catalog
	Dirs     Dirs

	// PackageTasks overrides the package-manager task groups when non-nil.
	PackageTasks []pipeline.Task

	InstallBinary  func(tmpDir string) (string, error)
	Clone          func(repo, dest string) error
	InstallFont    func(tmpDir string) ([]string, error)
	ValidateRunner validate.Runner
	LookPath       func(file string) (string, error)
}

func (o *Options) fillDefaults() {
	if o.InstallBinary == nil {
		o.InstallBinary = func(tmpDir string) (string, error) {
			return installer.InstallNeovim(o.Platform, tmpDir, o.Dirs.OptDir, o.Dirs.BinDir)
		}
	}
	if o.Clone == nil {
		o.Clone = editorcfg.CloneStarter
	}
	if o.InstallFont == nil {
		o.InstallFont = func(tmpDir string) ([]string, error) {
			return installer.InstallFont(o.Catalog.FontName, o.Catalog.FontURL, tmpDir, o.Dirs.FontDir)
		}
	}
	if o.ValidateRunner == nil {
		o.ValidateRunner = validate.ExecRunner
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
}

// Run executes the bootstrap sequence: editor binary → package task groups →
// navigation index → backup sweep → starter clone → config artifacts →
// fonts → validation → state save. It returns an error only for the fatal
// conditions: a required task exhausting its chain or the starter clone
// failing. Everything else degrades to warnings.
func Run(opts Options) error {
	opts.fillDefaults()

	// All downloads and extractions happen under one process-scoped temp
	// directory, removed on the normal exit path. A crash leaves it behind
	// for the OS to reclaim.
	tmpDir, err := os.MkdirTemp("", "nvim-bootstrap-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		logger.Debug("[DEBUG] Removing temp directory %s\n", tmpDir)
		_ = os.RemoveAll(tmpDir)
	}()

	runner := &pipeline.Runner{Gate: opts.Gate}
	st := state.Load(filepath.Join(opts.Dirs.RunDir, "state.json"))
	st.Platform = opts.Platform.String()

	// Editor binary. When an install is already on PATH the task is gated
	// behind a reinstall question; declining skips it, which is not a
	// failure even though the task is required.
	editorBin, _ := opts.LookPath("nvim")
	binaryTask := pipeline.Task{
		Name:     "editor binary",
		Required: true,
		Primary: pipeline.Func{
			Desc: fmt.Sprintf("download and install nvim for %s", opts.Platform),
			Fn: func() error {
				path, err := opts.InstallBinary(tmpDir)
				if err != nil {
					return err
				}
				editorBin = path
				st.Editor = state.EditorState{Version: platform.Release, InstallPath: path}
				return nil
			},
		},
	}
	if editorBin != "" {
		binaryTask.Prompt = fmt.Sprintf("nvim is already installed at %s. Reinstall?", editorBin)
	}
	if _, err := runner.Run(binaryTask); err != nil {
		return err
	}

	// Package task groups: system packages, toolchains, formatters. All
	// optional; each failure is isolated.
	tasks := opts.PackageTasks
	if tasks == nil {
		tasks = pipeline.PackageTasks(opts.Platform, opts.Catalog)
	}
	tasks = append(tasks, indexTask(opts.Dirs, editorBin))
	if _, err := runner.RunAll(tasks); err != nil {
		return err
	}

	// Backup/delete sweep of pre-existing editor state. Declining the
	// backup means the directory is deleted outright; "no backup" and
	// "please delete" are deliberately the same answer here.
	for _, dir := range []string{opts.Dirs.ConfigRoot, opts.Dirs.DataDir, opts.Dirs.StateDir, opts.Dirs.EditorCache} {
		if _, err := os.Lstat(dir); os.IsNotExist(err) {
			continue
		}
		keep := opts.Gate.Ask(fmt.Sprintf("Back up %s before replacing it (no = delete it without backup)?", dir))
		if _, err := backup.RetireOrDelete(dir, keep); err != nil {
			logger.Warn("[WARN] Could not clear %s: %v\n", dir, err)
		}
	}

	// Starter configuration clone. This is the foundation everything after
	// it builds on, so failure is fatal.
	if err := opts.Clone(opts.Catalog.StarterRepo, opts.Dirs.ConfigRoot); err != nil {
		logger.Record("starter clone", "failed", err)
		return fmt.Errorf("failed to fetch starter configuration: %w", err)
	}
	logger.Record("starter clone", "success", nil)

	// Generated config artifacts, written over whatever the clone brought.
	if err := editorcfg.Materialize(opts.Dirs.ConfigRoot, editorcfg.Artifacts()); err != nil {
		logger.Warn("[WARN] Config materialization incomplete: %v\n", err)
		logger.Record("config artifacts", "failed", err)
	} else {
		logger.Record("config artifacts", "success", nil)
	}

	// Fonts, gated and optional.
	fontTask := pipeline.Task{
		Name:   "nerd font",
		Prompt: fmt.Sprintf("Install the %s Nerd Font?", opts.Catalog.FontName),
		Primary: pipeline.Func{
			Desc: "download and install " + opts.Catalog.FontName,
			Fn: func() error {
				files, err := opts.InstallFont(tmpDir)
				if err != nil {
					return err
				}
				st.FontFiles = files
				return nil
			},
		},
	}
	if _, err := runner.Run(fontTask); err != nil {
		return err
	}

	// Post-install validation, best-effort both stages.
	if editorBin == "" {
		editorBin = "nvim"
	}
	for _, r := range validate.Validate(editorBin, opts.ValidateRunner) {
		st.Validation[string(r.Stage)] = r.Passed
	}

	state.Save(filepath.Join(opts.Dirs.RunDir, "state.json"), st)
	logger.Ok("[OK] Bootstrap complete\n")
	return nil
}

// indexTask builds the optional navigation-index task: a ctags index of the
// installed release tree (runtime files and docs) written into the cache
// dir, with headless helptags generation as the fallback.
func indexTask(dirs Dirs, editorBin string) pipeline.Task {
	if editorBin == "" {
		editorBin = "nvim"
	}
	return pipeline.Task{
		Name:   "navigation index",
		Prompt: "Generate a navigation index for the editor runtime?",
		Primary: pipeline.Func{
			Desc: "ctags index into " + dirs.CacheDir,
			Fn: func() error {
				if err := os.MkdirAll(dirs.CacheDir, 0755); err != nil {
					return err
				}
				return pipeline.Command{
					Desc: "ctags",
					Argv: []string{"ctags", "-R", "-f", filepath.Join(dirs.CacheDir, "tags"), dirs.OptDir},
				}.Run()
			},
		},
		Fallbacks: []pipeline.Action{
			pipeline.Command{
				Desc: "headless helptags generation",
				Argv: []string{editorBin, "--headless", "+helptags ALL", "+qa"},
			},
		},
	}
}
