// Package pipeline runs install tasks with confirmation gating and ordered
// fallback chains. Every "ask then act" site in the bootstrap funnels through
// one executor so the try/fallback/warn/continue behavior is uniform and
// testable with fake actions.
package pipeline

import (
	"fmt"

	"nvim-bootstrap/internal/logger"
	"nvim-bootstrap/internal/prompt"
)

// Action is an opaque installation step. The pipeline interprets nothing
// about an action beyond success or failure of Run.
type Action interface {
	Describe() string
	Run() error
}

// Task is one logical unit of provisioning work: a primary action plus an
// ordered chain of fallbacks tried strictly in declaration order, stopping
// at the first success. Required tasks abort the whole run when the chain is
// exhausted; optional tasks degrade to a warning.
type Task struct {
	Name      string
	Prompt    string // gate question for this category of work; empty skips gating
	Primary   Action
	Fallbacks []Action
	Required  bool
}

// Kind classifies the result of running a task.
type Kind int

const (
	// Success means the primary action succeeded.
	Success Kind = iota
	// Degraded means a fallback succeeded after earlier attempts failed.
	Degraded
	// Skipped means the gate declined the task; nothing was attempted.
	Skipped
	// Failed means the primary and every fallback failed.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Degraded:
		return "degraded"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome records how a task finished. FallbackUsed is the index into
// Fallbacks of the action that succeeded, or -1 when the primary succeeded
// or nothing ran.
type Outcome struct {
	Kind         Kind
	FallbackUsed int
	Err          error // last attempt's error when Kind is Failed
}

// Runner executes tasks against a confirmation gate.
type Runner struct {
	Gate *prompt.Gate
}

// Run executes one task. The gate is consulted first when the task carries a
// prompt; declining yields Skipped without attempting any action, and a skip
// is never treated as a failure, required or not. Otherwise the primary is
// attempted, then each fallback in order, stopping at the first success;
// later fallbacks are never attempted once one succeeds.
//
// The returned error is non-nil only for a required task whose entire chain
// failed; that is the caller's signal to abort the run. Optional failures
// are logged as warnings and surface only through the Outcome.
func (r *Runner) Run(task Task) (Outcome, error) {
	if task.Prompt != "" && !r.Gate.Ask(task.Prompt) {
		logger.Info("[INFO] Skipping %s\n", task.Name)
		logger.Record(task.Name, Skipped.String(), nil)
		return Outcome{Kind: Skipped, FallbackUsed: -1}, nil
	}

	logger.Info("[INFO] %s: %s\n", task.Name, task.Primary.Describe())
	err := task.Primary.Run()
	if err == nil {
		logger.Ok("[OK] %s done\n", task.Name)
		logger.Record(task.Name, Success.String(), nil)
		return Outcome{Kind: Success, FallbackUsed: -1}, nil
	}
	logger.Warn("[WARN] %s: %s failed: %v\n", task.Name, task.Primary.Describe(), err)

	for i, fb := range task.Fallbacks {
		logger.Info("[INFO] %s: trying fallback: %s\n", task.Name, fb.Describe())
		if ferr := fb.Run(); ferr == nil {
			logger.Ok("[OK] %s done (via fallback: %s)\n", task.Name, fb.Describe())
			logger.Record(task.Name, Degraded.String(), nil)
			return Outcome{Kind: Degraded, FallbackUsed: i}, nil
		} else {
			logger.Warn("[WARN] %s: %s failed: %v\n", task.Name, fb.Describe(), ferr)
			err = ferr
		}
	}

	logger.Record(task.Name, Failed.String(), err)
	if task.Required {
		return Outcome{Kind: Failed, FallbackUsed: -1, Err: err},
			fmt.Errorf("required task %q failed: %w", task.Name, err)
	}
	logger.Warn("[WARN] %s failed on all attempts, continuing: %v\n", task.Name, err)
	return Outcome{Kind: Failed, FallbackUsed: -1, Err: err}, nil
}

// RunAll executes tasks in order. Each task's failure is isolated: an
// optional failure never stops later tasks. The first required failure
// aborts and is returned.
func (r *Runner) RunAll(tasks []Task) (map[string]Outcome, error) {
	outcomes := make(map[string]Outcome, len(tasks))
	for _, task := range tasks {
		out, err := r.Run(task)
		outcomes[task.Name] = out
		if err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}
