package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/config"
	// Compiled-in plugins register themselves.
	_ "tableflip.dev/worklog/pkg/plugin/logsink"
)

func New() *cobra.Command {
	v := config.NewViper()
	so := &options.SessionOptions{}
	vo := &options.VersionOptions{}

	cmd := &cobra.Command{
		Use:   "worklog",
		Short: base.Wrap80("Track time spent on tasks and browse it by month, date and task."),
		Long: base.Wrap80("worklog opens a full-screen browser over your logged work. " +
			"Selecting months narrows the dates, selecting dates narrows the tasks, and the " +
			"worklog table shows the entries matching the selected dates and tasks."),
		Example: `
worklog
worklog --store diskv --db ~/.worklog.d
worklog --log-file /tmp/worklog.log
worklog --version
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if vo.Version {
				printVersion(cmd.OutOrStdout(), vo)
				return nil
			}
			cfg, err := config.Load(v, so.ConfigFile, config.SearchPaths()...)
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), cmd.ErrOrStderr(), cfg)
		},
	}

	if err := options.AddSessionArgs(cmd, so, v); err != nil {
		// Only fails when a flag name above is misspelled.
		panic(err)
	}
	options.AddVersionArgs(cmd, vo)
	return cmd
}
