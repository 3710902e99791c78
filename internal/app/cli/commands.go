package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandHelp CommandType = iota
	CommandWatch
	CommandExport
	CommandStats
	CommandVersion
)

// Options contains the parsed command-line arguments
type Options struct {
	Type     CommandType
	Folder   string
	Level    entry.Level
	Category entry.Category
	Search   string
	Out      string
	JSON     bool
	Paused   bool
}

// Filter returns the filter state requested on the command line
func (o *Options) Filter() filter.State {
	return filter.State{Level: o.Level, Category: o.Category, Search: o.Search}
}

// Apply copies command-line overrides into cfg
func (o *Options) Apply(cfg *config.Config) {
	if o.Out != "" {
		cfg.Export.Dir = o.Out
	}
}

// rootFlags holds flag values for the root command
type rootFlags struct {
	version  bool
	level    string
	category string
}

// Parse parses command-line args and returns a Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{
		Type:     CommandHelp,
		Level:    filter.AllLevels,
		Category: filter.AllCategories,
	}

	var flags rootFlags

	root := buildRootCommand(result, &flags)
	root.AddCommand(
		buildWatchCommand(result),
		buildExportCommand(result),
		buildStatsCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	if flags.version {
		result.Type = CommandVersion
	}

	level, err := filter.ParseLevel(flags.level)
	if err != nil {
		return nil, err
	}

	category, err := filter.ParseCategory(flags.category)
	if err != nil {
		return nil, err
	}

	result.Level = level
	result.Category = category

	return result, nil
}

// buildRootCommand creates the root cobra command
func buildRootCommand(result *Options, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Live log aggregation and filtering for structured log folders",
		Long: `Logscope loads the JSON log files of a folder, keeps them newest first
and streams appended lines while you filter by level, category and text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: '%s'", errors.ErrUnknownCommand, args[0])
			}

			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandHelp
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVarP(&flags.level, "level", "l", "", "Show only entries of this level")
	cmd.PersistentFlags().StringVarP(&flags.category, "category", "c", "", "Show only entries of this category")
	cmd.PersistentFlags().StringVarP(&result.Search, "search", "s", "", "Show only entries containing this text")
	cmd.PersistentFlags().StringVarP(&result.Out, "out", "o", "", "Export directory or .json file")
	cmd.PersistentFlags().BoolVar(&result.JSON, "json", false, "Print output as JSON")
	cmd.Flags().BoolVarP(&flags.version, "version", "v", false, "Show version information")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
	})

	return cmd
}

// folderArg requires exactly one folder argument
func folderArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w for '%s'", errors.ErrFolderRequired, cmd.Name())
	}

	return nil
}

// buildWatchCommand creates the watch subcommand
func buildWatchCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch <folder>",
		Aliases: []string{"w"},
		Short:   "Stream new entries of a folder until interrupted",
		Args:    folderArg,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandWatch
			result.Folder = args[0]
		},
	}

	cmd.Flags().BoolVarP(&result.Paused, "paused", "p", false, "Start with ingestion paused")

	return cmd
}

// buildExportCommand creates the export subcommand
func buildExportCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export <folder>",
		Aliases: []string{"e"},
		Short:   "Write the filtered entries of a folder to a JSON file",
		Args:    folderArg,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandExport
			result.Folder = args[0]
		},
	}

	return cmd
}

// buildStatsCommand creates the stats subcommand
func buildStatsCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <folder>",
		Short: "Print level and category counts of a folder",
		Args:  folderArg,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandStats
			result.Folder = args[0]
		},
	}

	return cmd
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}

	return cmd
}
