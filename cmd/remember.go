package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koopa0/recall/internal/rag"
)

var (
	rememberCategory   string
	rememberImportance int
)

var rememberCmd = &cobra.Command{
	Use:   "remember <key> <value>",
	Short: "Store a fact in memory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		err = db.Memories().Upsert(cmd.Context(), rag.MemoryItem{
			Key:        args[0],
			Value:      args[1],
			Category:   rememberCategory,
			Importance: rememberImportance,
		})
		if err != nil {
			return fmt.Errorf("storing memory: %w", err)
		}
		fmt.Printf("remembered %s\n", args[0])
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <key>",
	Short: "Delete a remembered fact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := db.Memories().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("deleting memory: %w", err)
		}
		fmt.Printf("forgot %s\n", args[0])
		return nil
	},
}

func init() {
	rememberCmd.Flags().StringVar(&rememberCategory, "category", "", "memory category")
	rememberCmd.Flags().IntVar(&rememberImportance, "importance", 5, "importance from 1 to 10")
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(forgetCmd)
}
