package cmd

import (
	"fmt"

	"github.com/Iron-Ham/lectern/internal/config"
	"github.com/Iron-Ham/lectern/internal/taxonomy"
	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Show the category tree built up by past analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store := taxonomy.NewStore(config.ExpandPath(cfg.Paths.TaxonomyFile))
		list := store.PromptList()
		if list == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "taxonomy is empty")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}
