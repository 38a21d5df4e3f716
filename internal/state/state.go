package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"nvim-bootstrap/internal/logger"
)

// EditorState records the editor install produced by a run.
type EditorState struct {
	Version     string `json:"version"`      // Release version that was installed
	InstallPath string `json:"install_path"` // Path of the installed nvim binary/link
}

// RunState is the persisted record of the last bootstrap run: what platform
// it resolved, where the editor landed, which font files were installed and
// how validation went. It exists for inspection and re-runs, not as a lock;
// a missing or corrupt file never blocks a run.
type RunState struct {
	Platform   string          `json:"platform"`
	Editor     EditorState     `json:"editor"`
	FontFiles  []string        `json:"font_files"`
	Validation map[string]bool `json:"validation"` // stage name -> passed
}

// Load reads the saved run state from path. If the file does not exist or
// cannot be parsed, it returns a fresh empty state; the maps are always
// non-nil.
func Load(path string) *RunState {
	st := &RunState{Validation: make(map[string]bool)}

	file, err := os.ReadFile(path)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(file, st)
	if st.Validation == nil {
		st.Validation = make(map[string]bool)
	}
	return st
}

// Save writes the run state to path as indented JSON, creating the parent
// directory if needed. Errors are logged but not propagated; losing the
// state record must not fail an otherwise successful run.
func Save(path string, st *RunState) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("[ERROR] Failed to create state directory: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s\n", path)
	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
