package cmd

import (
	"fmt"
	"strconv"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/seed"
	"github.com/spf13/cobra"
)

var tournamentsCmdFlags struct {
	Yes  bool
	Seed uint64
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "Generate or delete tournaments",
}

var tournamentsGenerateCmd = &cobra.Command{
	Use:   "generate N",
	Short: "Generate N fake tournaments",
	Long: `Generate N fake tournaments starting within 60 days before or after today.
Each lasts one to three days and takes 16, 32 or 64 players.`,
	Example: `ipba tournaments generate 10`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("N must be a positive number, got %q", args[0])
		}

		_, db := openStore()
		defer db.Close() //nolint: errcheck

		created, err := seed.New(tournamentsCmdFlags.Seed, nil).GenerateTournaments(cmd.Context(), db, n)
		if err != nil {
			return err
		}
		fmt.Printf("Created %d tournaments.\n", created)
		return nil
	},
}

var tournamentsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete all tournaments with their registrations and winners",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tournamentsCmdFlags.Yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete ALL tournaments, registrations and winners?") {
			fmt.Println("Aborted.")
			return nil
		}

		_, db := openStore()
		defer db.Close() //nolint: errcheck

		removed, err := db.DeleteAllTournaments(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to delete tournaments: %w", err)
		}
		fmt.Printf("Deleted %d tournaments.\n", removed)
		return nil
	},
}

func init() {
	tournamentsGenerateCmd.Flags().Uint64Var(&tournamentsCmdFlags.Seed, "seed", 0, "Seed for the fake data generator (0 picks a random one)")
	tournamentsDeleteCmd.Flags().BoolVarP(&tournamentsCmdFlags.Yes, "yes", "y", false, "Do not ask for confirmation")

	tournamentsCmd.AddCommand(tournamentsGenerateCmd, tournamentsDeleteCmd)
	rootCmd.AddCommand(tournamentsCmd)
}
