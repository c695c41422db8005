package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var databaseURL string

func main() {
	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply and inspect the Postgres schema migrations",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection URL (defaults to DATABASE_URL)")

	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
