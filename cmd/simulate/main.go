package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/delminho/tabletop-holdem/internal/simulator"
)

type CLI struct {
	Tables     int    `default:"8" help:"Number of tables to run in parallel"`
	Hands      int    `default:"1000" help:"Number of hands per table"`
	Players    int    `default:"4" help:"Players seated at each table"`
	SmallBlind int    `default:"5" help:"Small blind"`
	Strategy   string `default:"rand" enum:"rand,call,fold" help:"Bot strategy: rand, call, fold"`
	Seed       int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose    bool   `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Simulating %d tables x %d hands, %d players, %s bots (seed %d)\n",
		cli.Tables, cli.Hands, cli.Players, cli.Strategy, cli.Seed)

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Tables:        cli.Tables,
		HandsPerTable: cli.Hands,
		Players:       cli.Players,
		SmallBlind:    cli.SmallBlind,
		Strategy:      cli.Strategy,
		Seed:          cli.Seed,
		Logger:        logger,
	})
	stats, err := sim.Run(ctx)
	if err != nil {
		log.Fatal("Simulation failed", "error", err)
	}
	duration := time.Since(start)

	handsPerSec := float64(stats.Hands) / duration.Seconds()
	fmt.Printf("\nHands played:   %d in %v (%.0f hands/sec)\n",
		stats.Hands, duration.Round(time.Millisecond), handsPerSec)
	fmt.Printf("Showdowns:      %d (%.1f%%)\n",
		stats.Showdowns, percent(stats.Showdowns, stats.Hands))
	fmt.Printf("Fold-outs:      %d (%.1f%%)\n",
		stats.FoldOuts, percent(stats.FoldOuts, stats.Hands))
	fmt.Printf("Mean pot:       %.1f chips\n", stats.MeanPot())
	fmt.Printf("Largest pot:    %d chips\n", stats.MaxPot)

	kctx.Exit(0)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
