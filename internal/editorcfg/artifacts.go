// Package editorcfg materializes the generated configuration artifacts into
// the editor's config root. The artifact contents are static data, kept out
// of the orchestration logic so they can be checked for well-formedness on
// their own.
package editorcfg

// Artifact is one generated configuration file: where it goes relative to
// the config root, its verbatim content, and whether it needs the execute
// bit. Writes always overwrite; there is no merging and no per-file backup
// (the directory-level backup already happened before materialization).
type Artifact struct {
	Path       string
	Content    string
	Executable bool
}

// Artifacts returns the fixed set of files written on every run, in no
// particular order; each write is independent.
func Artifacts() []Artifact {
	return []Artifact{
		{
			Path: "lua/custom/options.lua",
			Content: `-- Local option overrides, loaded after the starter config.
vim.opt.relativenumber = true
vim.opt.scrolloff = 8
vim.opt.undofile = true
vim.opt.clipboard = 'unnamedplus'
`,
		},
		{
			Path: "lua/custom/plugins/init.lua",
			Content: `-- Extra plugin specs picked up by the plugin manager.
return {
  { 'tpope/vim-sleuth' },
  { 'numToStr/Comment.nvim', opts = {} },
  {
    'lewis6991/gitsigns.nvim',
    opts = {
      signs = {
        add = { text = '+' },
        change = { text = '~' },
        delete = { text = '_' },
      },
    },
  },
}
`,
		},
		{
			Path:       "scripts/update-plugins.sh",
			Executable: true,
			Content: `#!/bin/sh
# Refresh all plugins headlessly.
exec nvim --headless "+Lazy! sync" +qa
`,
		},
		{
			Path:       "scripts/health-check.sh",
			Executable: true,
			Content: `#!/bin/sh
# Dump checkhealth output for bug reports.
exec nvim --headless "+checkhealth" "+w! /tmp/nvim-health.txt" +qa
`,
		},
	}
}
