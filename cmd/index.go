package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamusis/codesearch/internal/indexer"
)

var (
	flagIndexOut    string
	flagIndexIgnore []string
)

var indexCmd = &cobra.Command{
	Use:   "index <directory>",
	Short: "Create a search index",
	Long: `Walk <directory>, collect every alphabetic word of every UTF-8 file and
write the index to --out. Files that are not valid UTF-8 are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagIndexOut, "out", "", "Index file to write (default: index_file from config or $CODESEARCH_INDEX)")
	indexCmd.Flags().StringSliceVar(&flagIndexIgnore, "ignore", nil, "Extra basenames to skip, in addition to .git, .venv and the config's ignore list")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	out, err := cfg.ResolveIndexFile(flagIndexOut)
	if err != nil {
		return err
	}
	ix := newIndexer(out)
	if err := buildIndex(cmd.Context(), ix, args[0]); err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	return nil
}

// newIndexer returns an indexer writing to out with the merged ignore set.
func newIndexer(out string) *indexer.Indexer {
	return indexer.New(out,
		indexer.WithIgnore(ignoreSet()...),
		indexer.WithLogger(log.WithField("component", "indexer")),
	)
}

// ignoreSet merges the built-in, configured and flag-provided basenames.
func ignoreSet() []string {
	seen := map[string]bool{}
	var out []string
	for _, group := range [][]string{indexer.DefaultIgnore, cfg.Ignore, flagIndexIgnore} {
		for _, name := range group {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func buildIndex(ctx context.Context, ix *indexer.Indexer, directory string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ix.MakeIndex(ctx, directory); err != nil {
		return err
	}
	return ix.Save()
}
