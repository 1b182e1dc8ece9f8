package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer a recall question about your device history",
	Long: `Query routes a natural-language question ("what did I copy
yesterday?", "which apps did I use today?") to the matching history
source and prints a direct, human-readable answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		answer, err := engine.AnswerRecallQuery(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("answering recall query: %w", err)
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
