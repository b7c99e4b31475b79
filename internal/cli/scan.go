package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgforge/internal/app"
)

type scanOptions struct {
	Roots   []string
	Exclude []string
}

func newScanCommand() *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan repository roots and report discovered packages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Roots, "root", nil, "Repository root(s) to scan")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob pattern(s) of base names to exclude")
	_ = viper.BindPFlag("roots", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	return cmd
}

func runScan(ctx context.Context, cmd *cobra.Command, opts scanOptions) error {
	service := newAppService()
	result, err := service.Scan(ctx, app.ScanRequest{
		Roots:   resolveStrings(cmd, opts.Roots, "roots", "root"),
		Exclude: resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
	})
	if err != nil {
		return err
	}
	bases := result.Index.Bases()
	sort.Strings(bases)
	for _, base := range bases {
		for _, full := range result.Index.Versions(base) {
			fmt.Println(full)
		}
	}
	for _, warning := range result.Index.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	return nil
}
