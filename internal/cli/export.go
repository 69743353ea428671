package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqlock/internal/app"
)

type exportOptions struct {
	Manifest      string
	Environment   string
	PackageIndex  string
	MappingFiles  []string
	OutputDir     string
	AllowUnmapped bool
}

func newExportCommand() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export applicable declarations as Debian package pins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "requirements.txt", "Manifest path")
	cmd.Flags().StringVar(&opts.Environment, "environment", "", "Environment YAML file (defaults to host)")
	cmd.Flags().StringVar(&opts.PackageIndex, "package-index", "", "Package index file")
	cmd.Flags().StringSliceVar(&opts.MappingFiles, "mapping", nil, "Debian mapping file(s), later files win")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().BoolVar(&opts.AllowUnmapped, "allow-unmapped", false, "Skip declarations without a Debian mapping instead of failing")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("environment", cmd.Flags().Lookup("environment"))
	_ = viper.BindPFlag("package_index", cmd.Flags().Lookup("package-index"))
	_ = viper.BindPFlag("mappings", cmd.Flags().Lookup("mapping"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("allow_unmapped", cmd.Flags().Lookup("allow-unmapped"))
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, opts exportOptions) error {
	service := newAppService()
	result, err := service.Export(ctx, app.ExportRequest{
		ManifestPath:    resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		EnvironmentFile: resolveString(cmd, opts.Environment, "environment", "environment"),
		PackageIndex:    resolveString(cmd, opts.PackageIndex, "package_index", "package-index"),
		MappingFiles:    resolveStrings(cmd, opts.MappingFiles, "mappings", "mapping"),
		OutputDir:       resolveString(cmd, opts.OutputDir, "output", "output"),
		AllowUnmapped:   resolveBool(cmd, opts.AllowUnmapped, "allow_unmapped", "allow-unmapped"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("exported: %d debian packages (outputs in %s)\n", result.ExportedCount, result.OutputDir)
	if len(result.Unmapped) > 0 {
		fmt.Printf("unmapped: %s\n", strings.Join(result.Unmapped, ", "))
	}
	return nil
}
