package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kamusis/codesearch/internal/config"
)

var (
	flagConfig  string
	flagVerbose bool

	// cfg is loaded once per invocation in PersistentPreRunE.
	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:          "codesearch",
	Short:        "Index a tree of text files and look up which files contain a word",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `codesearch builds an inverted index of every alphabetic word in the text
files under a directory and answers exact, case-sensitive single-word lookups.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}
		cfg = c
		return setupLogging(c.LogLevel, flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.codesearch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug information to stderr")
}

// setupLogging configures the shared logger. Logs always go to stderr so
// search results on stdout stay machine-readable.
func setupLogging(level string, verbose bool) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return nil
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return nil
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
