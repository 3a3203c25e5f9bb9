package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/finsight/backend/internal/service"
)

var (
	flagSeedDays int
	flagSeedRand int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample transaction history for the user",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagSeedDays, "days", 180, "Days of history to generate")
	seedCmd.Flags().Int64Var(&flagSeedRand, "rand-seed", 1, "Random seed for reproducible data")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	_, st, cleanup, err := newService()
	if err != nil {
		return err
	}
	defer cleanup()

	rng := rand.New(rand.NewSource(flagSeedRand))
	created, err := service.SeedSampleData(cmd.Context(), st, flagUser, flagSeedDays, today(), rng)
	if err != nil {
		return err
	}
	fmt.Printf("Created %d sample transactions for user %s\n", created, flagUser)
	return nil
}
