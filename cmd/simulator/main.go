package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boom-blog/internal/utils"
	"boom-blog/simulator"
)

func main() {
	cfg := simulator.DefaultSimConfig()
	flag.StringVar(&cfg.EngineURL, "url", cfg.EngineURL, "base URL of the blog API")
	flag.IntVar(&cfg.NumUsers, "users", cfg.NumUsers, "number of simulated accounts")
	flag.IntVar(&cfg.NumPosts, "posts", cfg.NumPosts, "posts seeded before activity starts")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent activity workers")
	flag.DurationVar(&cfg.SimulationTime, "duration", cfg.SimulationTime, "how long to run activity once setup is done")
	flag.DurationVar(&cfg.RequestInterval, "interval", cfg.RequestInterval, "minimum gap between requests")
	flag.Float64Var(&cfg.ZipfS, "zipf", cfg.ZipfS, "Zipf exponent for post popularity (> 1)")
	debug := flag.Bool("debug", false, "log every failed activity")
	flag.Parse()

	logger := utils.NewLogger(os.Stderr, *debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation",
		"url", cfg.EngineURL,
		"users", cfg.NumUsers,
		"posts", cfg.NumPosts,
		"workers", cfg.Workers,
		"duration", cfg.SimulationTime,
		"zipf", cfg.ZipfS,
	)

	sim := simulator.NewSimulator(cfg, logger)
	if err := sim.Run(ctx); err != nil {
		logger.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	m := sim.GetMetrics()
	logger.Info("Simulation completed",
		"users", m.TotalUsers,
		"active_users", m.ActiveUsers,
		"posts", m.TotalPosts,
		"comments", m.TotalComments,
		"views", m.TotalViews,
		"likes", m.TotalLikes,
		"unlikes", m.TotalUnlikes,
		"relogins", m.Relogins,
		"avg_latency", m.AverageLatency.Round(time.Microsecond),
		"errors", m.ErrorCount,
	)
}
