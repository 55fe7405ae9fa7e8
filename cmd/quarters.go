package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quartersCmd = &cobra.Command{
	Use:   "quarters",
	Short: "List selectable quarters and their sales files",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		for i, q := range catalog.Quarters() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", i, q.Label, q.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quartersCmd)
}
