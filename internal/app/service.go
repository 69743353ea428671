package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"reqlock/internal/adapters"
	"reqlock/internal/ports"
	"reqlock/internal/types"
)

type Service struct {
	Manifests      ports.ManifestPort
	ManifestWriter ports.ManifestWriterPort
	Environments   ports.EnvironmentPort
	Overrides      ports.OverridesPort
	OutputReader   ports.OutputReaderPort
	IndexBuilder   ports.IndexBuilderPort
	IndexWriter    ports.IndexWriterPort
	Clock          func() time.Time
}

func NewService() Service {
	return Service{
		Manifests:      adapters.NewManifestFileAdapter(),
		ManifestWriter: adapters.NewManifestWriterAdapter(),
		Environments:   adapters.NewEnvironmentAdapter(),
		Overrides:      adapters.NewOverridesFileAdapter(),
		OutputReader:   adapters.NewOutputReaderAdapter(),
		IndexBuilder:   adapters.NewIndexBuilderAdapter(),
		IndexWriter:    adapters.NewIndexWriterAdapter(),
		Clock:          time.Now,
	}
}

// warnExpiredOverrides logs directives whose expires_at date has
// passed. Expired directives still apply; the owner named on the
// directive is expected to renew or remove them.
func (s Service) warnExpiredOverrides(ctx context.Context, overrides []types.OverrideDirective) {
	now := s.Clock()
	for _, directive := range overrides {
		if directive.ExpiresAt == "" {
			continue
		}
		expires, err := time.Parse("2006-01-02", directive.ExpiresAt)
		if err != nil {
			continue
		}
		if expires.Before(now) {
			log.Ctx(ctx).Warn().
				Str("dependency", directive.Dependency).
				Str("owner", directive.Owner).
				Str("expires_at", directive.ExpiresAt).
				Msg("override directive has expired")
		}
	}
}
