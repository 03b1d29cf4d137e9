package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amd-chrissosa/SHARK-Platform/internal/config"
	"github.com/amd-chrissosa/SHARK-Platform/internal/logging"
)

var (
	cfgFile        string
	verbose        bool
	quiet          bool
	deviceOverride int

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shortfin",
	Short: "A host and device storage runtime",
	Long: `Shortfin manages storage for systems that pair host memory with
accelerator devices: byte-accounted memory arenas, asynchronous device
timelines, host mappings and snapshot dump/restore.

Device operations retire strictly in submission order; host access to
storage bytes goes through explicitly acquired mappings.`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shortfin/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet mode")
	rootCmd.PersistentFlags().IntVar(&deviceOverride, "devices", 0, "device count (overrides config)")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig loads configuration and brings up logging
func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if quiet {
		level = "error"
	}

	if err := logging.Init(level, cfg.Logging.File, cfg.Logging.Console); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
}
