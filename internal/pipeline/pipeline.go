// Package pipeline drives one extraction run: it walks the configured
// item range sequentially, fetches each item through the rate-limited
// client, extracts the configured fields, and checkpoints the result map
// so progress survives throttling and forced termination.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/repolens/gh-miner/internal/config"
	"github.com/repolens/gh-miner/internal/extract"
	"github.com/repolens/gh-miner/internal/github"
	"github.com/repolens/gh-miner/internal/store"
	"github.com/repolens/gh-miner/pkg/models"
)

// State is the pipeline's lifecycle phase.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSuspended State = "suspended"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Kind selects which item category a run walks.
type Kind string

const (
	KindIssues Kind = "issues"
	KindPRs    Kind = "prs"
)

// Pipeline walks an inclusive numeric range of issues or pull requests.
// It owns the result map for the duration of one run.
type Pipeline struct {
	cfg       *config.Config
	src       extract.Source
	extractor *extract.Extractor
	clock     Clock

	org     string
	repo    string
	outPath string
	state   State
	verbose bool
	results *store.Results
}

// New creates a pipeline for the given validated configuration.
func New(cfg *config.Config, src extract.Source) (*Pipeline, error) {
	org, repo, err := models.ParseRepo(cfg.Repo)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		src:       src,
		extractor: extract.New(src, org, repo, cfg.State),
		clock:     realClock{},
		org:       org,
		repo:      repo,
		outPath:   store.OutputPath(cfg.OutputDir, repo),
		state:     StateIdle,
	}, nil
}

// SetClock replaces the wall clock. Useful for testing suspensions.
func (p *Pipeline) SetClock(c Clock) {
	p.clock = c
}

// SetVerbose enables per-item progress output.
func (p *Pipeline) SetVerbose(v bool) {
	p.verbose = v
}

// State returns the pipeline's current lifecycle phase.
func (p *Pipeline) State() State {
	return p.state
}

// OutputPath returns the location of the run's output document.
func (p *Pipeline) OutputPath() string {
	return p.outPath
}

// Run walks the configured range in ascending order with no skips and no
// parallelism. Throttling suspends the walk (after a checkpoint) until
// the quota window resets; any other error fails the run after a
// best-effort checkpoint. Per-item missing-item failures are skipped
// when the configuration says so.
func (p *Pipeline) Run(ctx context.Context, kind Kind) (*models.ExtractStats, error) {
	start := time.Now()
	low, high := p.cfg.RangeLow(), p.cfg.RangeHigh()

	stats := &models.ExtractStats{
		RunID:     models.NewRunID(),
		Repo:      p.cfg.Repo,
		RangeLow:  low,
		RangeHigh: high,
	}

	// Resume from any prior output before fetching anything.
	results, err := store.Load(p.outPath)
	if err != nil {
		p.state = StateFailed
		return stats, err
	}
	p.results = results
	if results.Len() > 0 {
		fmt.Printf("Resuming with %d previously collected items from %s\n", results.Len(), p.outPath)
	}

	p.state = StateRunning
	fmt.Printf("Extracting %s %d..%d from %s\n", kind, low, high, p.cfg.Repo)

	n := low
	for n <= high {
		fields, err := p.processItem(ctx, kind, n)

		switch {
		case err == nil:
			p.results.Merge(strconv.Itoa(n), fields)
			stats.Visited++
			stats.Extracted++
			if p.verbose {
				fmt.Printf("  #%d: %d fields\n", n, len(fields))
			}
			n++

		case github.IsRateLimited(err):
			// Checkpoint before suspending so a kill during the wait
			// loses nothing.
			if perr := p.suspend(ctx, err); perr != nil {
				p.state = StateFailed
				stats.DurationMs = int(time.Since(start).Milliseconds())
				return stats, perr
			}
			stats.Suspended++
			// Retry the same number after the window resets.

		case p.skippable(err):
			log.Printf("skipping #%d: %v", n, err)
			stats.Visited++
			stats.Skipped++
			n++

		default:
			p.fail(err)
			stats.DurationMs = int(time.Since(start).Milliseconds())
			return stats, err
		}
	}

	if err := store.Save(p.outPath, p.results); err != nil {
		p.state = StateFailed
		stats.DurationMs = int(time.Since(start).Milliseconds())
		return stats, err
	}

	p.state = StateCompleted
	stats.DurationMs = int(time.Since(start).Milliseconds())
	return stats, nil
}

// processItem fetches item n and extracts its field set.
func (p *Pipeline) processItem(ctx context.Context, kind Kind, n int) (map[string]any, error) {
	switch kind {
	case KindIssues:
		issue, err := p.src.GetIssue(ctx, p.org, p.repo, n)
		if err != nil {
			return nil, err
		}
		if issue.IsPullRequest() {
			return nil, fmt.Errorf("#%d: %w (number belongs to a pull request)", n, github.ErrItemNotFound)
		}
		return p.extractor.Issue(ctx, issue, p.cfg.IssueFields)

	case KindPRs:
		pr, err := p.src.GetPullRequest(ctx, p.org, p.repo, n)
		if err != nil {
			return nil, err
		}
		return p.extractor.PullRequest(ctx, pr, p.cfg.PRFields, p.cfg.CommitFields)

	default:
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
}

// suspend checkpoints the result map, then blocks until the reported
// reset time plus the configured safety margin.
func (p *Pipeline) suspend(ctx context.Context, cause error) error {
	p.state = StateSuspended

	if err := store.Save(p.outPath, p.results); err != nil {
		return err
	}

	var rlErr *github.RateLimitError
	if !errors.As(cause, &rlErr) {
		return cause
	}

	wait := rlErr.ResetAt.Sub(p.clock.Now())
	if wait < 0 {
		wait = 0
	}
	wait += p.cfg.SafetyMargin()

	fmt.Printf("Rate limit reached; results saved. Sleeping %s until quota resets...\n", wait.Round(time.Second))
	if err := p.clock.Sleep(ctx, wait); err != nil {
		return err
	}

	p.state = StateRunning
	return nil
}

// skippable reports whether a per-item error continues the walk.
func (p *Pipeline) skippable(err error) bool {
	return p.cfg.SkipMissingItems() && github.IsNotFound(err)
}

// fail checkpoints whatever has been merged so far and marks the run
// failed. The save error, if any, is secondary to the cause.
func (p *Pipeline) fail(cause error) {
	p.state = StateFailed
	if err := store.Save(p.outPath, p.results); err != nil {
		log.Printf("failed to save partial results: %v (after: %v)", err, cause)
	}
}
