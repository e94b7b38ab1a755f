package cmd

import (
	"fmt"
	"strconv"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/seed"
	"github.com/spf13/cobra"
)

var postsCmdFlags struct {
	Yes  bool
	Seed uint64
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Generate or delete news posts",
}

var postsGenerateCmd = &cobra.Command{
	Use:     "generate N",
	Short:   "Generate N fake news posts",
	Long:    `Generate N fake news posts authored by the first administrator.`,
	Example: `ipba posts generate 20`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("N must be a positive number, got %q", args[0])
		}

		_, db := openStore()
		defer db.Close() //nolint: errcheck

		created, err := seed.New(postsCmdFlags.Seed, nil).GeneratePosts(cmd.Context(), db, n)
		if err != nil {
			return err
		}
		fmt.Printf("Created %d posts.\n", created)
		return nil
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all news posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !postsCmdFlags.Yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete ALL posts?") {
			fmt.Println("Aborted.")
			return nil
		}

		_, db := openStore()
		defer db.Close() //nolint: errcheck

		removed, err := db.DeleteAllPosts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}
		fmt.Printf("Deleted %d posts.\n", removed)
		return nil
	},
}

func init() {
	postsGenerateCmd.Flags().Uint64Var(&postsCmdFlags.Seed, "seed", 0, "Seed for the fake data generator (0 picks a random one)")
	postsDeleteCmd.Flags().BoolVarP(&postsCmdFlags.Yes, "yes", "y", false, "Do not ask for confirmation")

	postsCmd.AddCommand(postsGenerateCmd, postsDeleteCmd)
	rootCmd.AddCommand(postsCmd)
}
