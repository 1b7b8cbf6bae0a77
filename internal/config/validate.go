package config

import (
	"fmt"
	"strings"

	"github.com/repolens/gh-miner/internal/extract"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors. Field lists are resolved
// against the extraction registry here so an unknown field name fails
// before any API call is made.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Repo == "" {
		errs = append(errs, ValidationError{"repo", "required"})
	} else if !strings.Contains(cfg.Repo, "/") {
		errs = append(errs, ValidationError{"repo", "must be in format 'owner/repo'"})
	}

	switch cfg.State {
	case "open", "closed", "all":
	default:
		errs = append(errs, ValidationError{"state", "must be 'open', 'closed', or 'all'"})
	}

	if len(cfg.Range) != 2 {
		errs = append(errs, ValidationError{"range", "must be [low, high]"})
	} else {
		if cfg.Range[0] < 1 {
			errs = append(errs, ValidationError{"range", "low bound must be positive"})
		}
		if cfg.Range[0] > cfg.Range[1] {
			errs = append(errs, ValidationError{"range", "low bound exceeds high bound"})
		}
	}

	if cfg.OutputDir == "" {
		errs = append(errs, ValidationError{"output_dir", "required"})
	}

	if err := extract.ValidateFields(extract.CategoryCommit, cfg.CommitFields); err != nil {
		errs = append(errs, ValidationError{"commit_fields", err.Error()})
	}
	if err := extract.ValidateFields(extract.CategoryIssue, cfg.IssueFields); err != nil {
		errs = append(errs, ValidationError{"issue_fields", err.Error()})
	}
	if err := extract.ValidateFields(extract.CategoryPR, cfg.PRFields); err != nil {
		errs = append(errs, ValidationError{"pr_fields", err.Error()})
	}

	if cfg.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{"rate_limit.requests_per_second", "must not be negative"})
	}
	if cfg.RateLimit.MinRemaining < 0 {
		errs = append(errs, ValidationError{"rate_limit.min_remaining", "must not be negative"})
	}

	return errs
}
