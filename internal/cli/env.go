package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgforge/internal/app"
)

type envOptions struct {
	Roots        []string
	Exclude      []string
	Requirements []string
	EnvName      string
	Stamp        bool
	Strict       bool
	Passthrough  []string
}

func newEnvCommand() *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env [requirements...]",
		Short: "Resolve requirements and print the composed environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Requirements = args
			}
			return runEnv(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Roots, "root", nil, "Repository root(s) to scan")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob pattern(s) of base names to exclude")
	cmd.Flags().StringSliceVar(&opts.Requirements, "require", nil, "Requirement string(s)")
	cmd.Flags().StringVar(&opts.EnvName, "env", "default", "Env name to compose")
	cmd.Flags().BoolVar(&opts.Stamp, "stamp", false, "Inject PKG_<BASE>=<version> identity variables")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail on tokens that resolve to no value")
	cmd.Flags().StringSliceVar(&opts.Passthrough, "passthrough", nil, "Identifier(s) allowed to fall back to the ambient environment in strict mode")
	_ = viper.BindPFlag("roots", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("requirements", cmd.Flags().Lookup("require"))
	_ = viper.BindPFlag("env_name", cmd.Flags().Lookup("env"))
	_ = viper.BindPFlag("stamp", cmd.Flags().Lookup("stamp"))
	_ = viper.BindPFlag("strict", cmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("passthrough", cmd.Flags().Lookup("passthrough"))
	return cmd
}

func runEnv(ctx context.Context, cmd *cobra.Command, opts envOptions) error {
	service := newAppService()
	requirements := opts.Requirements
	if len(requirements) == 0 {
		requirements = resolveStrings(cmd, nil, "requirements", "require")
	}
	result, err := service.EffectiveEnv(ctx, app.EffectiveEnvRequest{
		Roots:        resolveStrings(cmd, opts.Roots, "roots", "root"),
		Exclude:      resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
		Requirements: requirements,
		EnvName:      resolveString(cmd, opts.EnvName, "env_name", "env"),
		Stamp:        resolveBool(cmd, opts.Stamp, "stamp", "stamp"),
		Strict:       resolveBool(cmd, opts.Strict, "strict", "strict"),
		Passthrough:  resolveStrings(cmd, opts.Passthrough, "passthrough", "passthrough"),
	})
	if err != nil {
		return err
	}
	names := make([]string, 0, len(result.Env))
	for name := range result.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s=%s\n", name, result.Env[name])
	}
	return nil
}
