package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqlock/internal/app"
)

type fmtOptions struct {
	Manifest string
	Write    bool
}

func newFmtCommand() *cobra.Command {
	opts := fmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Render a manifest in canonical form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFmt(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "requirements.txt", "Manifest path")
	cmd.Flags().BoolVar(&opts.Write, "write", false, "Rewrite the manifest in place instead of printing")
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("fmt_write", cmd.Flags().Lookup("write"))
	return cmd
}

func runFmt(ctx context.Context, cmd *cobra.Command, opts fmtOptions) error {
	service := newAppService()
	result, err := service.Fmt(ctx, app.FmtRequest{
		ManifestPath: resolveString(cmd, opts.Manifest, "manifest", "manifest"),
		Write:        resolveBool(cmd, opts.Write, "fmt_write", "write"),
	})
	if err != nil {
		return err
	}
	if opts.Write {
		if result.Changed {
			fmt.Printf("formatted: %s\n", result.ManifestPath)
		} else {
			fmt.Printf("already formatted: %s\n", result.ManifestPath)
		}
		return nil
	}
	fmt.Print(result.Formatted)
	return nil
}
