package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version    string
	configPath string
	snapshot   bool
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "truefocus",
	Short: "Animated focus highlight for the terminal",
	Long: `truefocus - frames one item at a time with an animated highlight.

Words of a sentence take turns on their own (sequence mode), or any set of
text blocks lights up under the pointer (group mode).

Settings come from ~/.config/truefocus/config.toml, TRUEFOCUS_* environment
variables and flags, in increasing order of precedence.`,
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWords(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $TRUEFOCUS_CONFIG or ~/.config/truefocus/config.toml)")
	pf.String("log-file", "", "write JSON logs to this file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&snapshot, "snapshot", false, "print one settled frame and exit")

	addWordsFlags(rootCmd.Flags())
	addDisplayFlags(rootCmd.Flags())
}
