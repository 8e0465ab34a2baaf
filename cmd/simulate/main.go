package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/deke/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumLines   = 10000
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
	defaultSeed       = 1
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numLines = flag.Int("lines", defaultNumLines, "Number of stat lines to generate and submit")
		topN     = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Int64("seed", defaultSeed, "Random seed for stat-line generation")
		verbose  = flag.Bool("verbose", false, "Print the retrieved leaderboard")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:  *baseURL,
		NumLines: *numLines,
		TopN:     *topN,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		Verbose:  *verbose,
	}

	if err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
