// Package validate exercises the freshly installed editor to confirm the
// provisioning actually produced a working setup. Both checks are
// best-effort diagnostics: a failure is reported to the user and recorded,
// never escalated, and never gates the overall success of the run.
package validate

import (
	"fmt"
	"os/exec"

	"nvim-bootstrap/internal/logger"
)

// Stage names the two validation passes.
type Stage string

const (
	// Minimal starts the editor headlessly and quits immediately; it proves
	// the binary runs at all without touching plugins.
	Minimal Stage = "minimal"
	// Full triggers the plugin manager's sync, exercising the starter
	// config, network access and the language-tool plugins.
	Full Stage = "full"
)

// Result records the outcome of one stage.
type Result struct {
	Stage  Stage
	Passed bool
	Err    error
}

// Runner executes an editor invocation; injectable for tests.
type Runner func(argv []string) error

// ExecRunner runs the invocation through os/exec, capturing output into the
// error for failed runs.
func ExecRunner(argv []string) error {
	output, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v\nOutput: %s", err, output)
	}
	return nil
}

// Validate runs the minimal stage then the full stage against the installed
// binary. The stages are independent; the full stage runs even when the
// minimal one failed, so the user gets both diagnostics from one pass.
func Validate(bin string, run Runner) []Result {
	stages := []struct {
		stage Stage
		argv  []string
	}{
		{Minimal, []string{bin, "--headless", "+q"}},
		{Full, []string{bin, "--headless", "+Lazy! sync", "+qa"}},
	}

	results := make([]Result, 0, len(stages))
	for _, s := range stages {
		logger.Info("[INFO] Validation (%s): running %s headlessly\n", s.stage, bin)
		err := run(s.argv)
		if err != nil {
			logger.Warn("[WARN] Validation (%s) failed: %v\n", s.stage, err)
		} else {
			logger.Ok("[OK] Validation (%s) passed\n", s.stage)
		}
		logger.Record("validation/"+string(s.stage), outcome(err), err)
		results = append(results, Result{Stage: s.stage, Passed: err == nil, Err: err})
	}
	return results
}

func outcome(err error) string {
	if err != nil {
		return "fail"
	}
	return "pass"
}
