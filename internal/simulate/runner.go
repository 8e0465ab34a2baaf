package simulate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// drainWait gives the async workers time to empty the queue before the
// leaderboard is read back.
const drainWait = 2 * time.Second

// Run executes the full simulation: generate, submit, read back, verify.
func Run(ctx context.Context, cfg *Config) error {
	client := newHTTPClient(cfg.Timeout)

	if err := checkServiceHealth(ctx, cfg, client); err != nil {
		return err
	}

	stats := &Stats{}
	lines := generateLines(cfg, stats)
	logf("generated %d stat lines", len(lines))

	start := time.Now()
	submitLines(ctx, cfg, client, lines, stats)
	logf("submitted %d lines in %s (rejected=%d errors=%d)",
		stats.Submitted.Load(), time.Since(start).Round(time.Millisecond),
		stats.Rejected.Load(), stats.Errors.Load())

	select {
	case <-time.After(drainWait):
	case <-ctx.Done():
		return fmt.Errorf("simulation cancelled: %w", ctx.Err())
	}

	var leaderboard []Entry
	url := fmt.Sprintf("%s/leaderboard?limit=%d", cfg.BaseURL, cfg.TopN)
	if err := client.getJSON(ctx, url, &leaderboard); err != nil {
		return fmt.Errorf("fetching leaderboard: %w", err)
	}
	if err := verifyLeaderboard(leaderboard); err != nil {
		return err
	}
	logf("leaderboard verified: %d entries", len(leaderboard))

	if len(leaderboard) > 0 {
		var entry Entry
		ratingURL := cfg.BaseURL + "/rating/" + leaderboard[0].EntityID
		if err := client.getJSON(ctx, ratingURL, &entry); err != nil {
			return fmt.Errorf("fetching top rating: %w", err)
		}
		if entry.Rank != 1 {
			return fmt.Errorf("top leaderboard entry reports rank %d", entry.Rank)
		}
	}

	if err := runLineup(ctx, cfg, client); err != nil {
		return err
	}

	if cfg.Verbose {
		displayTop(leaderboard)
	}
	return nil
}

// runLineup submits a generated roster and verifies the optimizer output.
func runLineup(ctx context.Context, cfg *Config, client *httpClient) error {
	roster := generateRoster(cfg.Seed)
	req := map[string]any{"players": roster}

	var res lineupResult
	status, err := client.postJSON(ctx, cfg.BaseURL+"/lineup", req, &res)
	if err != nil {
		return fmt.Errorf("submitting lineup: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("lineup request returned status %d", status)
	}
	if err := verifyLineup(roster, res); err != nil {
		return err
	}
	logf("lineup verified: fullPos=%.1f bestPos=%.1f (+%.1f)",
		res.FullPosRating, res.BestPosRating, res.ImprovementPoints)
	return nil
}

func checkServiceHealth(ctx context.Context, cfg *Config, client *httpClient) error {
	if err := client.getJSON(ctx, cfg.BaseURL+"/healthz", nil); err != nil {
		return fmt.Errorf("service not healthy at %s: %w", cfg.BaseURL, err)
	}
	return nil
}

func displayTop(leaderboard []Entry) {
	for _, e := range leaderboard {
		logf("  #%-4d %-14s %.2f", e.Rank, e.EntityID, e.Rating)
	}
}

func logf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
