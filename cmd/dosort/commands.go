package dosort

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dosort/internal/version"
	"github.com/arthur-debert/dosort/pkg/cobrax/topics"
	"github.com/arthur-debert/dosort/pkg/config"
	"github.com/arthur-debert/dosort/pkg/logging"
	"github.com/arthur-debert/dosort/pkg/output"
	"github.com/arthur-debert/dosort/pkg/registry"
	"github.com/arthur-debert/dosort/pkg/rules"
)

// globalOptions holds the persistent flags shared by all commands
type globalOptions struct {
	verbosity int
	config    string
	format    string
	noColor   bool
	tags      []string
	skipTags  []string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "dosort",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.config, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.format, "format", output.FormatConsole, MsgFlagFormat)
	flags.BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)
	flags.StringSliceVar(&opts.tags, "tags", nil, MsgFlagTags)
	flags.StringSliceVar(&opts.skipTags, "skip-tags", nil, MsgFlagSkipTags)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newSimCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	initTopics(rootCmd)

	return rootCmd
}

// initTopics installs the help command serving the embedded topics
func initTopics(rootCmd *cobra.Command) {
	source, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.Initialize(rootCmd, source, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	rootCmd.SetHelpCommandGroupID("misc")
}

// settings loads the layered settings with the flags the user actually set
// applied on top
func (o *globalOptions) settings(cmd *cobra.Command) (*config.Settings, error) {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("config") {
		overrides["config"] = o.config
	}
	if cmd.Flags().Changed("format") {
		overrides["format"] = o.format
	}
	if cmd.Flags().Changed("no-color") {
		overrides["no_color"] = o.noColor
	}
	if cmd.Flags().Changed("tags") {
		overrides["tags"] = o.tags
	}
	if cmd.Flags().Changed("skip-tags") {
		overrides["skip_tags"] = o.skipTags
	}

	settings, err := config.LoadSettings(config.LoadOptions{Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrSettings, err)
	}
	return settings, nil
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, opts, false)
		},
	}
}

func newSimCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "sim",
		Short:   MsgSimShort,
		Long:    MsgSimLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, opts, true)
		},
	}
}

func runRules(cmd *cobra.Command, opts *globalOptions, simulate bool) error {
	logger := logging.GetLogger("cmd.run")

	settings, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	logger.Info().
		Str("config", settings.Config).
		Bool("simulate", simulate).
		Strs("tags", settings.Tags).
		Strs("skipTags", settings.SkipTags).
		Msg("Starting run")

	loaded, err := config.LoadRules(nil, settings.Config)
	if err != nil {
		return fmt.Errorf(MsgErrLoadRules, err)
	}

	report, err := output.New(settings.Format, cmd.OutOrStdout(), settings.NoColor)
	if err != nil {
		return fmt.Errorf(MsgErrOutput, err)
	}

	report.Start(simulate)
	summary, err := rules.Run(cmd.Context(), loaded, rules.RunOptions{
		Simulate: simulate,
		Output:   report,
		Tags:     settings.Tags,
		SkipTags: settings.SkipTags,
	})
	report.Summary(summary.Success, summary.Errors)
	if err != nil {
		return fmt.Errorf(MsgErrRun, err)
	}
	if summary.Errors > 0 {
		return fmt.Errorf(MsgErrResources, summary.Errors)
	}
	return nil
}

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			loaded, err := config.LoadRules(nil, settings.Config)
			if err != nil {
				return fmt.Errorf(MsgErrLoadRules, err)
			}

			out := cmd.OutOrStdout()
			if len(loaded) == 0 {
				fmt.Fprintf(out, MsgNoRules, settings.Config)
				return nil
			}
			fmt.Fprintf(out, MsgCheckOK, settings.Config, len(loaded))
			for nr, r := range loaded {
				fmt.Fprintf(out, MsgCheckRuleFormat, r.DisplayName(nr), describeRule(r))
			}
			return nil
		},
	}
}

// describeRule summarizes the shape of a validated rule
func describeRule(r *rules.Rule) string {
	var parts []string
	if r.IsStandalone() {
		parts = append(parts, "standalone")
	} else {
		parts = append(parts, fmt.Sprintf("%d location(s), %s", len(r.Locations), r.Targets))
	}
	if len(r.GroupFilters) > 0 {
		names := make([]string, 0, len(r.GroupFilters))
		for _, g := range r.GroupFilters {
			names = append(names, g.Name)
		}
		parts = append(parts, "groups: "+strings.Join(names, ", "))
	} else {
		parts = append(parts, fmt.Sprintf("%d filter(s) (%s)", len(r.Filters), r.FilterMode))
	}
	parts = append(parts, fmt.Sprintf("%d action(s)", len(r.Actions)+len(r.GroupActions)))
	if !r.Enabled {
		parts = append(parts, "disabled")
	}
	if len(r.Tags) > 0 {
		parts = append(parts, "tags: "+strings.Join(r.Tags, ", "))
	}
	return strings.Join(parts, "; ")
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, MsgListHeaderFilter)
			for _, spec := range registry.Filters() {
				caps := capabilities(spec.Config.Files, spec.Config.Dirs, false)
				fmt.Fprintf(out, MsgListItemFormat, spec.Config.Name, caps, spec.Description)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, MsgListHeaderAction)
			for _, spec := range registry.Actions() {
				caps := capabilities(spec.Config.Files, spec.Config.Dirs, spec.Config.Standalone)
				fmt.Fprintf(out, MsgListItemFormat, spec.Config.Name, caps, spec.Description)
			}
			return nil
		},
	}
}

func capabilities(files, dirs, standalone bool) string {
	var caps []string
	if files {
		caps = append(caps, "files")
	}
	if dirs {
		caps = append(caps, "dirs")
	}
	if standalone {
		caps = append(caps, "standalone")
	}
	return "[" + strings.Join(caps, ",") + "]"
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
