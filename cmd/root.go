package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"nvim-bootstrap/internal/bootstrap"
	"nvim-bootstrap/internal/logger"
	"nvim-bootstrap/internal/pipeline"
	"nvim-bootstrap/internal/platform"
	"nvim-bootstrap/internal/prompt"
)

// Flag values bound to the root command. yes/no select the auto-answer
// confirmation modes; supplying both is rejected before anything runs.
var (
	yes        bool
	no         bool
	debug      bool
	configPath string
)

// rootCmd is the whole CLI: a single flat command that provisions Neovim and
// its tooling ecosystem on this machine.
var rootCmd = &cobra.Command{
	Use:   "nvim-bootstrap",
	Short: "Provision Neovim and its language-tooling ecosystem",
	Long: `nvim-bootstrap installs the Neovim release for this platform, the system
packages and language toolchains its ecosystem needs, a starter
configuration, generated config overrides and a Nerd Font, then validates
the result headlessly. Pre-existing configuration is moved to rotating
.bak backups before anything is overwritten.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The gate conflict check runs first: -y -n must fail before any
		// other action, platform resolution included.
		gate, err := prompt.New(yes, no)
		if err != nil {
			return err
		}

		// Platform resolution is the only other early-fatal condition;
		// every later stage depends on a valid download URL.
		p, err := platform.Current()
		if err != nil {
			return err
		}

		dirs := bootstrap.DefaultDirs(p)
		logger.Init(debug, dirs.RunDir)
		logger.Info("[INFO] Bootstrapping Neovim for %s\n", p)

		catalog := pipeline.DefaultCatalog()
		if configPath != "" {
			catalog, err = pipeline.LoadCatalog(configPath)
			if err != nil {
				return err
			}
		}

		return bootstrap.Run(bootstrap.Options{
			Gate:     gate,
			Platform: p,
			Catalog:  catalog,
			Dirs:     dirs,
		})
	},
}

// Execute parses flags and runs the bootstrap. Any error (conflicting
// flags, unknown flag, unsupported platform, required-task failure) exits
// non-zero; a completed run exits zero even when optional tasks degraded.
func Execute() {
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Answer yes to every prompt")
	rootCmd.Flags().BoolVarP(&no, "no", "n", false, "Answer no to every prompt")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML catalog override file")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
