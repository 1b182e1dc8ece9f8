package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// The ingest commands are the write path the capture layer uses. They
// also make local testing possible without a device: pipe observed
// clipboard, screen, and search events into the history database.

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Record history events (capture-layer write path)",
}

var clipPinned bool

var ingestClipCmd = &cobra.Command{
	Use:   "clip <content>",
	Short: "Record a clipboard snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		item, err := db.Clipboard().Add(cmd.Context(), args[0], clipPinned)
		if err != nil {
			return fmt.Errorf("recording clipboard item: %w", err)
		}
		fmt.Printf("recorded clip %s\n", item.Hash[:12])
		return nil
	},
}

var (
	activityTitle string
	activityText  string
)

var ingestActivityCmd = &cobra.Command{
	Use:   "activity <app-name>",
	Short: "Record a screen-activity snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		item, err := db.Activity().Add(cmd.Context(), args[0], activityTitle, activityText)
		if err != nil {
			return fmt.Errorf("recording activity: %w", err)
		}
		fmt.Printf("recorded activity %s\n", item.EntryID)
		return nil
	},
}

var searchApp string

var ingestSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Record a search query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		item, err := db.Searches().Add(cmd.Context(), args[0], searchApp)
		if err != nil {
			return fmt.Errorf("recording search: %w", err)
		}
		fmt.Printf("recorded search %s\n", item.EntryID)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete activity snapshots past the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RetentionDays <= 0 {
			fmt.Println("pruning disabled (retention_days is 0)")
			return nil
		}
		_, db, cleanup, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		n, err := db.Activity().Prune(cmd.Context(), cutoff)
		if err != nil {
			return fmt.Errorf("pruning activity: %w", err)
		}
		fmt.Printf("pruned %d activity entries older than %s\n", n, cutoff.Format(time.DateOnly))
		return nil
	},
}

func init() {
	ingestClipCmd.Flags().BoolVar(&clipPinned, "pinned", false, "pin this snippet")
	ingestActivityCmd.Flags().StringVar(&activityTitle, "title", "", "screen title")
	ingestActivityCmd.Flags().StringVar(&activityText, "text", "", "visible text")
	ingestSearchCmd.Flags().StringVar(&searchApp, "app", "", "source app")

	ingestCmd.AddCommand(ingestClipCmd, ingestActivityCmd, ingestSearchCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(pruneCmd)
}
