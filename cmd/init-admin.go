package cmd

import (
	"errors"
	"fmt"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/spf13/cobra"
)

var initAdminCmdFlags struct {
	Email string
}

var initAdminCmd = &cobra.Command{
	Use:   "init-admin",
	Short: "Promote a registered user to administrator",
	Long:  `Promote the account registered with admin_email (or --email) to administrator and mark its e-mail address as verified.`,
	Example: `ipba init-admin
ipba init-admin --email admin@ipba.pl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db := openStore()
		defer db.Close() //nolint: errcheck

		address := initAdminCmdFlags.Email
		if address == "" {
			address = cfg.AdminEmail
		}
		if address == "" {
			return errors.New("no admin e-mail given, set admin_email or pass --email")
		}

		e, err := engine.New(cmd.Context(), cfg, db)
		if err != nil {
			return fmt.Errorf("failed to create engine: %w", err)
		}
		user, err := e.PromoteAdmin(cmd.Context(), address)
		if errors.Is(err, engine.ErrNotFound) {
			return fmt.Errorf("no user registered with %s, sign up on the site first", address)
		}
		if err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}

		fmt.Printf("%s (%s) is now an administrator.\n", user.Username, user.Email)
		return nil
	},
}

func init() {
	initAdminCmd.Flags().StringVar(&initAdminCmdFlags.Email, "email", "", "E-mail of the account to promote (default: admin_email from the config)")
	rootCmd.AddCommand(initAdminCmd)
}
