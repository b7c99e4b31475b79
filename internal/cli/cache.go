package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgforge/internal/app"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the definition cache",
	}
	cmd.AddCommand(newCachePruneCommand())
	return cmd
}

type cachePruneOptions struct {
	Roots   []string
	Exclude []string
}

func newCachePruneCommand() *cobra.Command {
	opts := cachePruneOptions{}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Rescan repository roots and drop cache entries for definitions no longer present",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCachePrune(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Roots, "root", nil, "Repository root(s) to scan")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Glob pattern(s) of base names to exclude")
	_ = viper.BindPFlag("roots", cmd.Flags().Lookup("root"))
	_ = viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	return cmd
}

func runCachePrune(ctx context.Context, cmd *cobra.Command, opts cachePruneOptions) error {
	service := newAppService()
	result, err := service.PruneCache(ctx, app.CachePruneRequest{
		Roots:   resolveStrings(cmd, opts.Roots, "roots", "root"),
		Exclude: resolveStrings(cmd, opts.Exclude, "exclude", "exclude"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("packages indexed after prune: %d\n", result.KeptEntries)
	return nil
}
