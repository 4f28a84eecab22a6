package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/worklog/pkg/config"
)

// SessionOptions
type SessionOptions struct {
	ConfigFile string
}

// AddSessionArgs registers the session flags and binds every flag except
// --config onto v, so flags win over the config file and the environment.
func AddSessionArgs(cmd *cobra.Command, o *SessionOptions, v *viper.Viper) error {
	flags := cmd.Flags()
	flags.StringVar(&o.ConfigFile, "config", "",
		"Config file. Defaults to .worklog.yaml in $WORKLOG_CONFIG_PATH, ./ or $HOME.")
	flags.String("store", "",
		"Store driver. One of 'sqlite', 'diskv' or 'memory'.")
	flags.String("db", "",
		"Store location: the sqlite database file or the diskv directory.")
	flags.StringSlice("plugins", nil,
		"Plugins notified when an entry is created, e.g. --plugins=log.")
	flags.String("log-file", "",
		"Write structured logs to this file.")

	for key, flag := range map[string]string{
		config.KeyStoreDriver: "store",
		config.KeyStorePath:   "db",
		config.KeyPlugins:     "plugins",
		config.KeyLogFile:     "log-file",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}
