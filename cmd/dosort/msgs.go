package dosort

import (
	"embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A rule based file organizer"
	MsgRunShort        = "Organize files according to the rules file"
	MsgSimShort        = "Show what run would do without changing any file"
	MsgCheckShort      = "Validate the rules file"
	MsgListShort       = "List the available filters and actions"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgVersionFormat    = "dosort version %s\n  commit: %s\n  built:  %s\n"
	MsgCheckOK          = "%s: %d rule(s), no problems found\n"
	MsgCheckRuleFormat  = "  %s: %s\n"
	MsgListHeaderFilter = "Filters:"
	MsgListHeaderAction = "Actions:"
	MsgListItemFormat   = "  %-14s %-24s %s\n"
	MsgNoRules          = "No rules found in %s\n"

	// Error messages
	MsgErrSettings  = "failed to load settings: %w"
	MsgErrLoadRules = "failed to load rules: %w"
	MsgErrRun       = "run aborted: %w"
	MsgErrOutput    = "failed to create output: %w"
	MsgErrResources = "%d resource(s) failed"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Rules file (default $XDG_CONFIG_HOME/dosort/config.yaml)"
	MsgFlagFormat   = "Output format: console or json"
	MsgFlagNoColor  = "Disable colored output"
	MsgFlagTags     = "Only run rules with these tags"
	MsgFlagSkipTags = "Skip rules with these tags"
)

// topicFiles holds the markdown documents served by "dosort help <topic>"
//
//go:embed topics/*.md
var topicFiles embed.FS

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")

	//go:embed msgs/sim-long.txt
	msgSimLongRaw string
	MsgSimLong    = strings.TrimSpace(msgSimLongRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
