package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgforge/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "PKG"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	CachePath  string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "pkgforge",
		Short:   "VFX/DCC tooling package resolver and environment composer",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.CachePath, "cache-path", "", "Definition cache file path (defaults to next to the executable)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("cache_path", cmd.PersistentFlags().Lookup("cache-path"))

	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newEnvCommand())
	cmd.AddCommand(newCacheCommand())
	cmd.AddCommand(newToolsetCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("pkgforge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/pkgforge")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService wires the default app.Service, honoring an explicit
// --cache-path/config override before falling back to
// app.DefaultCachePath.
func newAppService() app.Service {
	return app.NewService(viper.GetString("cache_path"))
}

// exitCodeForError maps the errbuilder taxonomy (SPEC_FULL.md §7) onto
// non-zero exit codes: 2 for invalid arguments, 3 for other not-found
// errors (env, app, file), 4 for a requirement with no matching
// version and for every failed precondition (solver NoSolution, strict
// expansion failure), 5 for internal errors, and 1 for anything else.
func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	message := errorMessage(err)
	switch code {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeNotFound:
		if strings.Contains(message, "no matching version") {
			return 4
		}
		return 3
	case errbuilder.CodeFailedPrecondition:
		// Solver NoSolution, strict-expansion failure (unresolved
		// token/cycle/depth): all surface as the same "could not
		// produce an environment" exit condition.
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
