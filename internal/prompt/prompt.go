package prompt

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"nvim-bootstrap/internal/logger"
)

// Mode selects how the gate answers yes/no questions for the whole run.
type Mode int

const (
	// Interactive prompts the user on the terminal for every question.
	Interactive Mode = iota
	// AlwaysYes answers every question with yes without prompting.
	AlwaysYes
	// AlwaysNo answers every question with no without prompting.
	AlwaysNo
)

// Gate is the single confirmation policy for a run. Every decision point in
// the bootstrap (reinstall? back up? install this category?) goes through
// Ask, so the -y/-n flags behave uniformly everywhere. The gate is
// constructed once at startup and never mutated afterwards.
type Gate struct {
	mode Mode
	in   *bufio.Reader
}

// ErrConflictingModes is returned when both auto-answer modes are requested
// at once. This is checked at construction, before any other action runs.
var ErrConflictingModes = errors.New("cannot use --yes and --no together")

// New builds a Gate from the -y and -n flags. Requesting both is a
// configuration error. Interactive input is read from stdin.
func New(alwaysYes, alwaysNo bool) (*Gate, error) {
	return NewWithReader(alwaysYes, alwaysNo, os.Stdin)
}

// NewWithReader is New with an injectable input source for tests.
func NewWithReader(alwaysYes, alwaysNo bool, in io.Reader) (*Gate, error) {
	if alwaysYes && alwaysNo {
		return nil, ErrConflictingModes
	}
	g := &Gate{mode: Interactive, in: bufio.NewReader(in)}
	if alwaysYes {
		g.mode = AlwaysYes
	}
	if alwaysNo {
		g.mode = AlwaysNo
	}
	return g, nil
}

// Mode reports the gate's answer mode.
func (g *Gate) Mode() Mode { return g.mode }

// Ask answers a yes/no question according to the gate's mode.
//
// In the auto modes the fixed answer is returned immediately and the prompt
// is echoed with an auto-answered annotation, so a -y/-n transcript still
// shows which decisions were taken. In interactive mode any input other than
// a case-insensitive y/yes/n/no re-prompts; malformed input is a loop
// condition, never an error. EOF on the input counts as declining, so a
// closed stdin cannot hang the run.
func (g *Gate) Ask(question string) bool {
	switch g.mode {
	case AlwaysYes:
		logger.Info("[INFO] %s [auto-answered: yes]\n", question)
		return true
	case AlwaysNo:
		logger.Info("[INFO] %s [auto-answered: no]\n", question)
		return false
	}

	for {
		logger.Info("[INFO] %s [y/n]: ", question)
		line, err := g.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if err != nil {
			// Input is exhausted; treat the unanswered question as a no.
			logger.Warn("[WARN] No answer on stdin, assuming no\n")
			return false
		}
		logger.Warn("[WARN] Please answer 'y' or 'n'\n")
	}
}
