package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgforge/internal/app"
)

type toolsetOptions struct {
	ToolsetPath string
	Roots       []string
	Exclude     []string
	EnvName     string
	Stamp       bool
	Strict      bool
	Passthrough []string
}

func newToolsetCommand() *cobra.Command {
	opts := toolsetOptions{}
	cmd := &cobra.Command{
		Use:   "toolset <path>",
		Short: "Resolve a .toolsets/*.toml file and print its composed environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ToolsetPath = args[0]
			return runToolset(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Roots, "root", nil, "Repository root(s) to scan")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob pattern(s) of base names to exclude")
	cmd.Flags().StringVar(&opts.EnvName, "env", "default", "Env name to compose")
	cmd.Flags().BoolVar(&opts.Stamp, "stamp", false, "Inject PKG_<BASE>=<version> identity variables")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail on tokens that resolve to no value")
	cmd.Flags().StringSliceVar(&opts.Passthrough, "passthrough", nil, "Identifier(s) allowed to fall back to the ambient environment in strict mode")
	_ = viper.BindPFlag("roots", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("env_name", cmd.Flags().Lookup("env"))
	_ = viper.BindPFlag("stamp", cmd.Flags().Lookup("stamp"))
	_ = viper.BindPFlag("strict", cmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("passthrough", cmd.Flags().Lookup("passthrough"))
	return cmd
}

func runToolset(ctx context.Context, cmd *cobra.Command, opts toolsetOptions) error {
	service := newAppService()
	result, err := service.ResolveToolset(ctx, app.ToolsetRequest{
		ToolsetPath: opts.ToolsetPath,
		Roots:       resolveStrings(cmd, opts.Roots, "roots", "root"),
		Exclude:     resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
		EnvName:     resolveString(cmd, opts.EnvName, "env_name", "env"),
		Stamp:       resolveBool(cmd, opts.Stamp, "stamp", "stamp"),
		Strict:      resolveBool(cmd, opts.Strict, "strict", "strict"),
		Passthrough: resolveStrings(cmd, opts.Passthrough, "passthrough", "passthrough"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("toolset: %s\n", result.Name)
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
