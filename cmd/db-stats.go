package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display how many users, posts, tournaments, registrations and winners are stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db := openStore()
		defer db.Close() //nolint: errcheck

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %d\n", stats.Users)
		fmt.Printf("Posts: %d\n", stats.Posts)
		fmt.Printf("Tournaments: %d\n", stats.Tournaments)
		fmt.Printf("Registrations: %d\n", stats.Registrations)
		fmt.Printf("Winners: %d\n", stats.Winners)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
