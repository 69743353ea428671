package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqlock/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect lock outputs and override records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("requirements.lock entries: %d\n", result.LockCount)
	for _, entry := range result.Locks {
		if entry.Marker != "" {
			fmt.Printf("- %s==%s ; %s\n", entry.Package, entry.Version, entry.Marker)
			continue
		}
		fmt.Printf("- %s==%s\n", entry.Package, entry.Version)
	}
	fmt.Printf("resolution.report records: %d\n", len(result.ResolutionRecords))
	for _, record := range result.ResolutionRecords {
		fmt.Printf("- %s %s %s (owner=%s)\n", record.Dependency, record.Action, record.Value, record.Owner)
	}
	return nil
}
