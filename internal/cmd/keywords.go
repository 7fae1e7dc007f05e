package cmd

import (
	"fmt"

	"github.com/Iron-Ham/lectern/internal/config"
	"github.com/Iron-Ham/lectern/internal/keywords"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show the canonical keyword list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store := keywords.NewStore(config.ExpandPath(cfg.Paths.KeywordsFile))
		entries := store.Load()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "keyword list is empty")
			return nil
		}
		for _, kw := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), kw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
