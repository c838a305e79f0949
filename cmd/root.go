// Package cmd defines the CLI commands for pubcfg.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/pubcfg/internal/config"
	"github.com/donaldgifford/pubcfg/internal/engine"
	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/source"
	"github.com/donaldgifford/pubcfg/internal/strategy"
)

var (
	verbose bool
	noColor bool
	cfgFile string
)

// rootCmd is the base command for the pubcfg CLI.
var rootCmd = &cobra.Command{
	Use:   "pubcfg",
	Short: "Configure a Maven project for central publishing",
	Long: `Pubcfg loads plugin, dependency and license configuration, validates it,
and applies it to a pom.xml in order so the project can be published to
Maven Central.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		initLogger()

		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.StringVar(&cfgFile, "config", "", "settings file (yaml)")

	pf.String("config-dir", ".", "directory holding the domain configuration files")
	pf.String("paths-file", "", "path override properties file (default <config-dir>/"+config.DefaultPathsFile+")")
	pf.String("discovery", "", "strategy discovery manifest")
	pf.StringSlice("kind", nil, "domains to load (plugin, dependency, license)")
	pf.Bool("remote", false, "allow remote configuration sources")
	pf.String("cache-dir", source.DefaultCacheDir(), "cache directory for remote sources")

	pf.String("gpg-keyname", "", "gpg key name used for signing")
	pf.String("server-id", "", "publishing server id from settings.xml")
	pf.String("wait-until", "", "central publishing waitUntil (uploaded, validated, published)")
	pf.Bool("auto-publish", false, "publish automatically once validated")

	for _, name := range []string{
		"config-dir", "paths-file", "discovery", "kind", "remote", "cache-dir",
		"gpg-keyname", "server-id", "wait-until", "auto-publish",
	} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// initConfig layers the settings file and PUBCFG_* environment variables
// under the flags. The gpg passphrase is only read from there.
func initConfig() error {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}

	viper.SetConfigFile(cfgFile)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading settings %s: %w", cfgFile, err)
	}

	slog.Debug("settings loaded", "path", viper.ConfigFileUsed())

	return nil
}

func settingsFromConfig() strategy.Settings {
	return strategy.Settings{
		GPGKeyname:         viper.GetString("gpg-keyname"),
		GPGPassphrase:      viper.GetString("gpg-passphrase"),
		PublishingServerID: viper.GetString("server-id"),
		AutoPublish:        viper.GetBool("auto-publish"),
		WaitUntil:          viper.GetString("wait-until"),
		Properties:         viper.GetStringMapString("properties"),
	}
}

func engineOpts() (engine.Opts, error) {
	opts := engine.Opts{
		ConfigDir:     viper.GetString("config-dir"),
		PathsFile:     viper.GetString("paths-file"),
		DiscoveryFile: viper.GetString("discovery"),
		Remote:        viper.GetBool("remote"),
		CacheDir:      viper.GetString("cache-dir"),
		Settings:      settingsFromConfig(),
		Logger:        slog.Default(),
	}

	for _, k := range viper.GetStringSlice("kind") {
		kind, err := model.ParseKind(k)
		if err != nil {
			return engine.Opts{}, err
		}

		opts.Kinds = append(opts.Kinds, kind)
	}

	return opts, nil
}
