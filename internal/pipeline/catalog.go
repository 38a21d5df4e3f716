package pipeline

import (
	"fmt"
	"os"
	"os/exec"

	"gopkg.in/yaml.v3"

	"nvim-bootstrap/internal/logger"
	"nvim-bootstrap/internal/platform"
)

// Catalog holds everything about a run that is data rather than logic: the
// package lists per task category, the starter configuration repository, and
// the font release to install. Defaults cover a stock Neovim setup; a YAML
// file supplied with --config can override any of it.
type Catalog struct {
	SystemPackages    []string `yaml:"system_packages"`
	ToolchainPackages []string `yaml:"toolchain_packages"`
	FormatterPackages []string `yaml:"formatter_packages"`
	StarterRepo       string   `yaml:"starter_repo"`
	FontName          string   `yaml:"font_name"`
	FontURL           string   `yaml:"font_url"`
}

// DefaultCatalog returns the built-in provisioning catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		SystemPackages:    []string{"git", "curl", "unzip", "ripgrep", "fd-find"},
		ToolchainPackages: []string{"nodejs", "npm", "python3", "python3-pip"},
		FormatterPackages: []string{"shellcheck"},
		StarterRepo:       "https://github.com/nvim-lua/kickstart.nvim",
		FontName:          "JetBrainsMono",
		FontURL:           "https://github.com/ryanoasis/nerd-fonts/releases/download/v3.3.0/JetBrainsMono.zip",
	}
}

// LoadCatalog reads a YAML override file and merges it over the defaults.
// Only keys present in the file replace the default values; unknown keys are
// ignored. A path that cannot be read or parsed is an error, since the user
// named the file explicitly.
func LoadCatalog(path string) (Catalog, error) {
	cat := DefaultCatalog()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	// Wrapper struct so the file reads as `catalog: {...}` at the top level.
	var wrapper struct {
		Catalog Catalog `yaml:"catalog"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return Catalog{}, fmt.Errorf("failed to unmarshal catalog %s: %w", path, err)
	}

	o := wrapper.Catalog
	if len(o.SystemPackages) > 0 {
		cat.SystemPackages = o.SystemPackages
	}
	if len(o.ToolchainPackages) > 0 {
		cat.ToolchainPackages = o.ToolchainPackages
	}
	if len(o.FormatterPackages) > 0 {
		cat.FormatterPackages = o.FormatterPackages
	}
	if o.StarterRepo != "" {
		cat.StarterRepo = o.StarterRepo
	}
	if o.FontName != "" {
		cat.FontName = o.FontName
	}
	if o.FontURL != "" {
		cat.FontURL = o.FontURL
	}
	return cat, nil
}

// managers lists the package managers probed per OS, in preference order.
// The first one present on PATH becomes the primary; the rest become
// fallbacks for each package task.
var managers = map[string][][]string{
	"linux": {
		{"sudo", "apt-get", "install", "-y"},
		{"sudo", "dnf", "install", "-y"},
		{"sudo", "pacman", "-S", "--noconfirm"},
		{"sudo", "zypper", "install", "-y"},
	},
	"darwin": {
		{"brew", "install"},
	},
}

// lookPath is swapped out in tests to control manager detection.
var lookPath = exec.LookPath

// detectManagers returns the install command prefixes for every package
// manager present on this host, detected primary first.
func detectManagers(p platform.Platform) [][]string {
	var found [][]string
	for _, argv := range managers[p.OS] {
		// argv[0] may be sudo; the manager binary is the first non-sudo word.
		bin := argv[0]
		if bin == "sudo" {
			bin = argv[1]
		}
		if _, err := lookPath(bin); err == nil {
			found = append(found, argv)
		}
	}
	return found
}

// packageTask builds one gated package-install task: the detected manager is
// the primary and every other available manager is a fallback, in order.
func packageTask(name, question string, prefixes [][]string, packages []string) (Task, error) {
	if len(prefixes) == 0 {
		return Task{}, fmt.Errorf("no supported package manager found")
	}

	build := func(prefix []string) Action {
		manager := prefix[0]
		if manager == "sudo" {
			manager = prefix[1]
		}
		argv := append(append([]string{}, prefix...), packages...)
		return Command{Desc: fmt.Sprintf("install via %s", manager), Argv: argv}
	}

	task := Task{Name: name, Prompt: question, Primary: build(prefixes[0])}
	for _, prefix := range prefixes[1:] {
		task.Fallbacks = append(task.Fallbacks, build(prefix))
	}
	return task, nil
}

// styluaTask builds the lua-formatter install chain. stylua is not shipped
// by the system package managers, so the primary goes through cargo and the
// fallback through npm's prebuilt binary package.
func styluaTask() Task {
	return Task{
		Name:   "stylua",
		Prompt: "Install stylua (lua formatter)?",
		Primary: Command{
			Desc: "install via cargo",
			Argv: []string{"cargo", "install", "stylua"},
		},
		Fallbacks: []Action{
			Command{
				Desc: "install via npm",
				Argv: []string{"npm", "install", "-g", "@johnnymorganz/stylua-bin"},
			},
		},
	}
}

// PackageTasks assembles the optional task groups: system packages, language
// toolchains, and formatters/linters (package-manager shellcheck plus the
// cargo/npm stylua chain). When no package manager can be detected the
// manager-backed groups are omitted with a warning; the stylua chain does
// not need one and is always built.
func PackageTasks(p platform.Platform, cat Catalog) []Task {
	var tasks []Task

	prefixes := detectManagers(p)
	if len(prefixes) == 0 {
		logger.Warn("[WARN] No supported package manager found, skipping package-manager tasks\n")
	} else {
		groups := []struct {
			name     string
			question string
			packages []string
		}{
			{"system packages", "Install system packages (git, curl, ripgrep, ...)?", cat.SystemPackages},
			{"language toolchains", "Install language toolchains (node, python)?", cat.ToolchainPackages},
			{"formatters and linters", "Install formatters and linters?", cat.FormatterPackages},
		}

		for _, g := range groups {
			task, err := packageTask(g.name, g.question, prefixes, g.packages)
			if err != nil {
				logger.Warn("[WARN] Cannot build task %s: %v\n", g.name, err)
				continue
			}
			tasks = append(tasks, task)
		}
	}

	tasks = append(tasks, styluaTask())
	return tasks
}
