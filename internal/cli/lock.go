package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqlock/internal/app"
)

type lockOptions struct {
	Manifest     string
	Environment  string
	PackageIndex string
	Overrides    string
	OutputDir    string
}

func newLockCommand() *cobra.Command {
	opts := lockOptions{}
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Pin applicable declarations against a package index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLock(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "requirements.txt", "Manifest path")
	cmd.Flags().StringVar(&opts.Environment, "environment", "", "Environment YAML file (defaults to host)")
	cmd.Flags().StringVar(&opts.PackageIndex, "package-index", "", "Package index file")
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Overrides file path (optional)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("environment", cmd.Flags().Lookup("environment"))
	_ = viper.BindPFlag("package_index", cmd.Flags().Lookup("package-index"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runLock(ctx context.Context, cmd *cobra.Command, opts lockOptions) error {
	service := newAppService()
	result, err := service.Lock(ctx, app.LockRequest{
		ManifestPath:    resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		EnvironmentFile: resolveString(cmd, opts.Environment, "environment", "environment"),
		PackageIndex:    resolveString(cmd, opts.PackageIndex, "package_index", "package-index"),
		OverridesPath:   resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		OutputDir:       resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("locked: %d packages (outputs in %s)\n", result.LockedCount, result.OutputDir)
	return nil
}
