package cmd

import (
	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/charmbracelet/log"
)

// openStore loads the config and opens the migrated database. Failures are fatal.
func openStore() (*config.Config, *database.Client) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	return cfg, db
}
