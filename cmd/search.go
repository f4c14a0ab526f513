package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kamusis/codesearch/internal/searcher"
)

var flagSearchIndex string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for files containing a word",
	Long: `Print the path of every indexed file that contains <query> as a whole
word, one per line. Matching is exact and case-sensitive; nothing is printed
when the word is not in the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchIndex, "index", "", "Index file to read (default: index_file from config or $CODESEARCH_INDEX)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	indexFile, err := cfg.ResolveIndexFile(flagSearchIndex)
	if err != nil {
		return err
	}
	s, err := searcher.New(indexFile)
	if err != nil {
		return err
	}

	paths := s.Search(args[0])
	log.WithField("component", "search").WithFields(logrus.Fields{
		"query":   args[0],
		"results": len(paths),
	}).Debug("search finished")

	w := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	return nil
}
