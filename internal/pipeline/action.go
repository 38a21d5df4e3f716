package pipeline

import (
	"fmt"
	"os/exec"
	"strings"

	"nvim-bootstrap/internal/logger"
)

// Command is an Action that runs an external program and treats a non-zero
// exit as failure. Output is captured and attached to the error so a failed
// package-manager invocation is diagnosable from the warning alone.
type Command struct {
	Desc string
	Argv []string
}

// Describe returns the human-readable label for this command.
func (c Command) Describe() string { return c.Desc }

// Run executes the command synchronously. There is no timeout; a hang in an
// external tool hangs the pipeline, matching the single-threaded model.
func (c Command) Run() error {
	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\nOutput: %s", strings.Join(c.Argv, " "), err, output)
	}
	return nil
}

// Func is an Action backed by a Go function, used for steps implemented
// in-process (the editor binary download/extract/install, index generation).
type Func struct {
	Desc string
	Fn   func() error
}

func (f Func) Describe() string { return f.Desc }
func (f Func) Run() error       { return f.Fn() }
