package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/just-nibble/bounty-service/internal/adapters/db"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/service"
	"github.com/just-nibble/bounty-service/internal/http/handlers"
	"github.com/just-nibble/bounty-service/internal/routes"
	"github.com/just-nibble/bounty-service/internal/seeder"
	"github.com/just-nibble/bounty-service/pkg/clock"
	"github.com/just-nibble/bounty-service/pkg/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the platform HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var commitStore db.CommitStore
		var tournamentStore db.TournamentStore
		if cfg.InMemory {
			store := db.NewMemoryStore()
			commitStore, tournamentStore = store, store
		} else {
			gdb, err := db.InitDB(cfg.DSN())
			if err != nil {
				return err
			}
			commitStore = db.NewGormCommitStore(gdb)
			tournamentStore = db.NewGormTournamentStore(gdb)
		}

		bank := treasury.NewInMemory()
		clk := clock.System{}

		commits := service.NewCommitService(commitStore, bank, clk)
		tournaments := service.NewTournamentService(tournamentStore, commits, bank, clk)

		ctx := context.Background()
		if err := commits.Rehydrate(ctx); err != nil {
			return err
		}
		if err := tournaments.Rehydrate(ctx); err != nil {
			return err
		}

		// Seed the platform if necessary
		if cfg.SeedFile != "" {
			if err := seeder.SeedPlatform(ctx, cfg.SeedFile, tournamentStore, tournaments, bank); err != nil {
				log.Fatalf("Failed to seed platform: %v", err)
			}
		}

		router := routes.NewRouter(
			handlers.NewTournamentHandler(tournaments),
			handlers.NewCommitHandler(commits),
		)

		log.Printf("Server is running on port %s", cfg.Port)
		return http.ListenAndServe(":"+cfg.Port, router)
	},
}
