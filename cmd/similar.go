package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var similarLimit int

var similarCmd = &cobra.Command{
	Use:   "similar <text>",
	Short: "Find semantically similar content in recent history",
	Long: `Similar embeds the given text and scans recent screen activity and
clipboard history for semantically similar content. Requires a working
embedding backend; in lexical-only mode it reports nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if !engine.SemanticReady() {
			fmt.Println("semantic search unavailable: no embedding backend configured or reachable")
			return nil
		}

		results, err := engine.FindSimilar(cmd.Context(), strings.Join(args, " "), similarLimit)
		if err != nil {
			return fmt.Errorf("finding similar content: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("(nothing similar found)")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%.2f  [%s] %s: %s\n",
				r.Similarity, r.CreatedAt.Format(time.DateTime), r.Source, r.Text)
		}
		return nil
	},
}

func init() {
	similarCmd.Flags().IntVar(&similarLimit, "limit", 10, "maximum number of results")
	rootCmd.AddCommand(similarCmd)
}
