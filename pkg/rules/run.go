package rules

import (
	"context"

	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/types"
)

// Reserved rule tags
const (
	TagAlways = "always"
	TagNever  = "never"
	TagAll    = "all"
)

// RuleReporter is implemented by outputs that announce each rule
type RuleReporter interface {
	RuleStart(nr int, name string)
}

// RunOptions configures a run over a list of rules
type RunOptions struct {
	Simulate bool
	Output   types.Output
	Tags     []string
	SkipTags []string
}

// ShouldExecute reports whether a rule tagged ruleTags is selected by the
// requested tags and skip tags
func ShouldExecute(ruleTags, tags, skipTags []string) bool {
	if contains(ruleTags, TagAlways) && !contains(skipTags, TagAlways) {
		return true
	}
	if contains(ruleTags, TagNever) && !contains(tags, TagNever) {
		return false
	}
	if len(tags) == 0 && len(skipTags) == 0 {
		return true
	}
	if len(ruleTags) == 0 && len(tags) > 0 {
		return false
	}

	shouldRun := len(tags) == 0 || contains(tags, TagAll) || containsAny(tags, ruleTags)
	shouldSkip := contains(skipTags, TagAll) || containsAny(skipTags, ruleTags)
	return shouldRun && !shouldSkip
}

// Run executes the enabled, tag-selected rules in order and returns the
// accumulated summary. Rule numbers start at 0. The first configuration
// error aborts the run.
func Run(ctx context.Context, rules []*Rule, opts RunOptions) (Summary, error) {
	logger := logging.GetLogger("rules.run")
	reporter, _ := opts.Output.(RuleReporter)

	var total Summary
	for nr, rule := range rules {
		if !rule.Enabled {
			logger.Debug().Int("rule", nr).Msg("Rule disabled")
			continue
		}
		if !ShouldExecute(rule.Tags, opts.Tags, opts.SkipTags) {
			logger.Debug().Int("rule", nr).Strs("tags", rule.Tags).Msg("Rule not selected by tags")
			continue
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}

		if reporter != nil {
			reporter.RuleStart(nr, rule.DisplayName(nr))
		}
		summary, err := rule.Execute(ctx, ExecuteOptions{
			Simulate: opts.Simulate,
			Output:   opts.Output,
			RuleNr:   nr,
		})
		total.Add(summary)
		if err != nil {
			return total, err
		}
	}

	logger.Info().
		Int("success", total.Success).
		Int("errors", total.Errors).
		Bool("simulate", opts.Simulate).
		Msg("Run finished")
	return total, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsAny(list, candidates []string) bool {
	for _, c := range candidates {
		if contains(list, c) {
			return true
		}
	}
	return false
}
