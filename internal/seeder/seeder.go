package seeder

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/just-nibble/bounty-service/internal/adapters/db"
	"github.com/just-nibble/bounty-service/internal/adapters/treasury"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/internal/core/service"
	"gopkg.in/yaml.v3"
)

// Seed describes the demo state loaded when the store is empty.
type Seed struct {
	Accounts []struct {
		Address string `yaml:"address"`
		Balance uint64 `yaml:"balance"`
	} `yaml:"accounts"`

	Tournament struct {
		Owner    string `yaml:"owner"`
		Content  string `yaml:"content"`
		Bounty   uint64 `yaml:"bounty"`
		EntryFee uint64 `yaml:"entry_fee"`
		Round    struct {
			Start    int64  `yaml:"start"`
			Duration int64  `yaml:"duration"`
			Review   int64  `yaml:"review"`
			Bounty   uint64 `yaml:"bounty"`
		} `yaml:"round"`
	} `yaml:"tournament"`
}

// SeedPlatform funds the seed accounts and creates a demo tournament from the
// yaml seed file if no tournament exists yet
func SeedPlatform(ctx context.Context, path string, store db.TournamentStore, tournaments *service.TournamentService, bank *treasury.InMemory) error {
	count, err := store.CountTournaments(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	log.Println("Seeding platform with demo tournament...")

	for _, a := range seed.Accounts {
		bank.Mint(entities.Address(a.Address), a.Balance)
	}

	t, err := tournaments.CreateTournament(ctx,
		entities.Address(seed.Tournament.Owner),
		seed.Tournament.Content,
		seed.Tournament.Bounty,
		seed.Tournament.EntryFee,
		entities.RoundData{
			Start:    seed.Tournament.Round.Start,
			Duration: seed.Tournament.Round.Duration,
			Review:   seed.Tournament.Round.Review,
			Bounty:   seed.Tournament.Round.Bounty,
		},
	)
	if err != nil {
		return fmt.Errorf("seed tournament: %w", err)
	}

	log.Printf("Platform seeding completed with tournament %s", t.ID)
	return nil
}
