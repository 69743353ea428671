package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqlock/internal/app"
)

type indexOptions struct {
	Output           string
	PyPIIndex        string
	PyPIUser         string
	PyPIAPIKey       string
	Packages         []string
	MaxPackages      int
	Workers          int
	DebianEndpoint   string
	DebianSuite      string
	DebianComponent  string
	DebianArch       string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

func newIndexCommand() *cobra.Command {
	opts := indexOptions{}
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate a package index from PyPI and Debian feeds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "package-index.yaml", "Output path for package index YAML")
	cmd.Flags().StringVar(&opts.PyPIIndex, "pypi-index", "", "PyPI simple index base URL")
	cmd.Flags().StringVar(&opts.PyPIUser, "pypi-user", "", "PyPI basic auth user (defaults to api)")
	cmd.Flags().StringVar(&opts.PyPIAPIKey, "pypi-api-key", "", "PyPI basic auth password/API key")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Limit indexing to specified package(s)")
	cmd.Flags().IntVar(&opts.MaxPackages, "max-packages", 0, "Maximum number of packages to index (0 = all)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 8, "Concurrent fetch workers (0 = default)")
	cmd.Flags().StringVar(&opts.DebianEndpoint, "debian-endpoint", "", "Debian repository base URL (optional)")
	cmd.Flags().StringVar(&opts.DebianSuite, "debian-suite", "", "Debian suite (e.g., noble)")
	cmd.Flags().StringVar(&opts.DebianComponent, "debian-component", "main", "Debian component")
	cmd.Flags().StringVar(&opts.DebianArch, "debian-arch", "amd64", "Debian architecture")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP timeout in seconds (0 = default)")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "HTTP retries (0 = default)")
	cmd.Flags().IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay-ms", 200, "HTTP retry base delay in ms (0 = default)")

	_ = viper.BindPFlag("index_output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("pypi_index", cmd.Flags().Lookup("pypi-index"))
	_ = viper.BindPFlag("pypi_user", cmd.Flags().Lookup("pypi-user"))
	_ = viper.BindPFlag("pypi_api_key", cmd.Flags().Lookup("pypi-api-key"))
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("max_packages", cmd.Flags().Lookup("max-packages"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("debian_endpoint", cmd.Flags().Lookup("debian-endpoint"))
	_ = viper.BindPFlag("debian_suite", cmd.Flags().Lookup("debian-suite"))
	_ = viper.BindPFlag("debian_component", cmd.Flags().Lookup("debian-component"))
	_ = viper.BindPFlag("debian_arch", cmd.Flags().Lookup("debian-arch"))
	_ = viper.BindPFlag("http_timeout_sec", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", cmd.Flags().Lookup("http-retry-delay-ms"))

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, opts indexOptions) error {
	service := newAppService()
	result, err := service.Index(ctx, app.IndexRequest{
		Output:           resolveString(cmd, opts.Output, "index_output", "output"),
		PyPIIndex:        resolveString(cmd, opts.PyPIIndex, "pypi_index", "pypi-index"),
		PyPIUser:         resolveString(cmd, opts.PyPIUser, "pypi_user", "pypi-user"),
		PyPIAPIKey:       resolveString(cmd, opts.PyPIAPIKey, "pypi_api_key", "pypi-api-key"),
		Packages:         resolveStrings(cmd, opts.Packages, "packages", "package"),
		MaxPackages:      resolveInt(cmd, opts.MaxPackages, "max_packages", "max-packages"),
		Workers:          resolveInt(cmd, opts.Workers, "workers", "workers"),
		DebianEndpoint:   resolveString(cmd, opts.DebianEndpoint, "debian_endpoint", "debian-endpoint"),
		DebianSuite:      resolveString(cmd, opts.DebianSuite, "debian_suite", "debian-suite"),
		DebianComponent:  resolveString(cmd, opts.DebianComponent, "debian_component", "debian-component"),
		DebianArch:       resolveString(cmd, opts.DebianArch, "debian_arch", "debian-arch"),
		HTTPTimeoutSec:   resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout_sec", "http-timeout"),
		HTTPRetries:      resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		HTTPRetryDelayMs: resolveInt(cmd, opts.HTTPRetryDelayMs, "http_retry_delay_ms", "http-retry-delay-ms"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote package index: %s (%d pypi, %d debian)\n",
		result.OutputPath, result.PyPICount, result.DebianCount)
	return nil
}
