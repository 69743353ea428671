package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqlock/internal/app"
)

type evaluateOptions struct {
	Manifest    string
	Environment string
	OutputDir   string
}

func newEvaluateCommand() *cobra.Command {
	opts := evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate environment markers against a target environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "requirements.txt", "Manifest path")
	cmd.Flags().StringVar(&opts.Environment, "environment", "", "Environment YAML file (defaults to host)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("environment", cmd.Flags().Lookup("environment"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runEvaluate(ctx context.Context, cmd *cobra.Command, opts evaluateOptions) error {
	service := newAppService()
	result, err := service.Evaluate(ctx, app.EvaluateRequest{
		ManifestPath:    resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		EnvironmentFile: resolveString(cmd, opts.Environment, "environment", "environment"),
		OutputDir:       resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("evaluated: %d applicable, %d skipped (report in %s)\n",
		result.Applicable, result.Skipped, result.OutputDir)
	return nil
}
