package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgforge/internal/app"
)

type resolveOptions struct {
	Roots        []string
	Exclude      []string
	Requirements []string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve [requirements...]",
		Short: "Resolve a set of requirements against scanned repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Requirements = args
			}
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Roots, "root", nil, "Repository root(s) to scan")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob pattern(s) of base names to exclude")
	cmd.Flags().StringSliceVar(&opts.Requirements, "require", nil, "Requirement string(s), e.g. maya@>=2024.0.0")
	_ = viper.BindPFlag("roots", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("requirements", cmd.Flags().Lookup("require"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	requirements := opts.Requirements
	if len(requirements) == 0 {
		requirements = resolveStrings(cmd, nil, "requirements", "require")
	}
	result, err := service.Resolve(ctx, app.ResolveRequest{
		Roots:        resolveStrings(cmd, opts.Roots, "roots", "root"),
		Exclude:      resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
		Requirements: requirements,
	})
	if err != nil {
		return err
	}
	bases := make([]string, 0, len(result.Versions))
	for base := range result.Versions {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	for _, base := range bases {
		fmt.Printf("%s-%s\n", base, result.Versions[base].String())
	}
	return nil
}
