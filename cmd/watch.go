package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/codesearch/internal/watch"
)

var (
	flagWatchOut      string
	flagWatchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Rebuild the index whenever files under a directory change",
	Long: `Build the index for <directory>, then rebuild it from scratch after every
burst of changes until interrupted. Each rebuild replaces the index file
atomically, so searches can run at any time.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchOut, "out", "", "Index file to write (default: index_file from config or $CODESEARCH_INDEX)")
	watchCmd.Flags().StringSliceVar(&flagIndexIgnore, "ignore", nil, "Extra basenames to skip, in addition to .git, .venv and the config's ignore list")
	watchCmd.Flags().DurationVar(&flagWatchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a rebuild starts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	out, err := cfg.ResolveIndexFile(flagWatchOut)
	if err != nil {
		return err
	}
	root := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ignorer := newIndexer(out)
	ignore := func(p string) bool {
		return ignorer.ShouldIgnorePath(p) || isIndexArtifact(p, out)
	}
	rebuild := func(ctx context.Context) error {
		// A fresh indexer per build: nothing carries over between runs.
		ix := newIndexer(out)
		if err := buildIndex(ctx, ix, root); err != nil {
			return err
		}
		st := ix.Stats()
		printOK("", fmt.Sprintf("index written: %s (%d words, %d files)", out, ix.Index().Len(), st.FilesIndexed))
		return nil
	}

	printInfo("", fmt.Sprintf("watching %s (Ctrl-C to stop)", root))
	w := watch.New(root, ignore, rebuild,
		watch.WithDebounce(flagWatchDebounce),
		watch.WithLogger(log.WithField("component", "watch")),
	)
	if err := w.Run(ctx); err != nil {
		return err
	}
	printInfo("", "stopped")
	return nil
}

// isIndexArtifact reports whether p is the index file or one of the temp and
// lock files Save creates beside it. Events on these must not trigger a rebuild.
func isIndexArtifact(p, indexFile string) bool {
	absP, err1 := filepath.Abs(p)
	absIdx, err2 := filepath.Abs(indexFile)
	if err1 != nil || err2 != nil {
		return false
	}
	if filepath.Dir(absP) != filepath.Dir(absIdx) {
		return false
	}
	base, idx := filepath.Base(absP), filepath.Base(absIdx)
	return base == idx || base == idx+".lock" || strings.HasPrefix(base, idx+".tmp-")
}
