package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"courtside/cmd"
	"courtside/database"

	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatalf("Migration error: %v", err)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "simulate" {
		if err := handleSimulateCommand(); err != nil {
			log.Fatalf("Simulation error: %v", err)
		}
		return
	}

	// Normal bot operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: courtside migrate [up|down|status] [args...]")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		return database.MigrateStatus(databaseURL)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleSimulateCommand runs: courtside simulate [rounds] [stake] [seed]
func handleSimulateCommand() error {
	opts := cmd.SimulationOptions{Rounds: 10000, Stake: 100, Seed: 1}

	args := os.Args[2:]
	if len(args) > 0 {
		rounds, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid rounds %q: %w", args[0], err)
		}
		opts.Rounds = rounds
	}
	if len(args) > 1 {
		stake, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid stake %q: %w", args[1], err)
		}
		opts.Stake = stake
	}
	if len(args) > 2 {
		seed, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", args[2], err)
		}
		opts.Seed = seed
	}

	reports, err := cmd.Simulate(context.Background(), opts)
	if err != nil {
		return err
	}
	cmd.WriteReports(os.Stdout, reports)
	return nil
}
