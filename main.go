package main

import (
	"nvim-bootstrap/cmd" // CLI definition and execution logic
)

// main is the program entry point. It delegates to cmd.Execute() which
// handles command line argument parsing and execution.
//
// nvim-bootstrap provisions a complete Neovim development environment on a
// local machine:
//   - Resolves the OS/architecture to a concrete release download, failing
//     fast on unsupported platforms
//   - Gates every destructive or time-consuming step behind one uniform
//     confirmation policy (-y / -n / interactive)
//   - Preserves prior user state via rotating .bak backups before overwrite
//   - Installs system packages, language toolchains and formatters through
//     multi-tier fallback chains that degrade gracefully per task
//   - Clones a starter configuration, writes generated config artifacts and
//     installs a Nerd Font
//   - Validates the result by running the editor headlessly in minimal and
//     full modes, reporting failures without failing the run
//
// Error handling strategy: only platform resolution, flag conflicts and the
// must-succeed tasks (editor binary, starter config clone) abort the run
// with a non-zero exit. Every other failure is logged and isolated so a
// partially-failed run is still useful and can simply be re-invoked.
func main() {
	cmd.Execute()
}
