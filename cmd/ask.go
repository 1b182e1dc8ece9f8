package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koopa0/recall/internal/rag"
)

var askMaxChars int

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Assemble the model context block for a query",
	Long: `Ask runs the full retrieval pipeline for a query and prints the
character-budgeted context block exactly as it would be inserted into
the model prompt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		queryText := strings.Join(args, " ")
		result, err := engine.RetrieveContext(cmd.Context(), queryText,
			rag.WithMaxChars(askMaxChars))
		if err != nil {
			return fmt.Errorf("retrieving context: %w", err)
		}

		if result.IsEmpty() {
			fmt.Println("(no relevant context found)")
			return nil
		}
		fmt.Println(result.ContextString)
		logger.Debug("retrieval summary",
			"items", result.TotalItems(),
			"semantic", result.UsedSemanticSearch,
			"keywords", strings.Join(result.Keywords, ","))
		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&askMaxChars, "max-chars", 0, "character budget for the context block (default from config)")
	rootCmd.AddCommand(askCmd)
}
