package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toonlab/toon/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toon",
	Short: "TOON - structural digests for Python codebases",
	Long: `Toon walks Python source files and emits one compact TOON line per
declaration: functions, methods, classes, and typed variables, with
signatures, return types, and condensed docstrings. The digests give
LLM coding assistants a cheap structural view of a codebase.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .toon/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// loadProjectConfig loads the project configuration, honoring the
// global --config flag when set.
func loadProjectConfig(rootDir string) (*config.Config, error) {
	if cfgFile != "" {
		return config.NewLoaderWithFile(rootDir, cfgFile).Load()
	}
	return config.LoadConfigFromDir(rootDir)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err == nil {
			if verbose {
				fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
			}
		}
	}

	viper.AutomaticEnv() // read in environment variables that match
}
