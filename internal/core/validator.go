package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/rs/zerolog/log"

	"reqlock/internal/policies"
	"reqlock/internal/types"
)

type ManifestValidator struct{}

func NewManifestValidator() ManifestValidator {
	return ManifestValidator{}
}

// ValidateManifest checks everything the parser cannot reject on a
// per-line basis: duplicate declarations, specifier sets that do not
// form valid PEP 440 specifiers, and malformed installer option
// values.
func (v ManifestValidator) ValidateManifest(ctx context.Context, manifest types.Manifest) error {
	assert.NotEmpty(ctx, manifest.Path, "manifest path must be set")

	seen := map[string]string{}
	for _, decl := range manifest.Declarations {
		key := decl.Name + ";" + decl.Marker
		if prev, ok := seen[key]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate declaration %s (%s and %s)", decl.Name, prev, decl.Source))
		}
		seen[key] = decl.Source

		for _, constraint := range decl.Constraints {
			if constraint.Op == types.ConstraintOpNone {
				continue
			}
			if _, err := pep440.NewSpecifiers(toPep440Spec(constraint)); err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid specifier for %s: %s%s", decl.Name, constraint.Op, constraint.Version)).
					WithCause(err)
			}
		}
	}

	if err := validateOptions(manifest.Options); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("manifest", manifest.Path).Msg("manifest validated")
	return nil
}

func validateOptions(opts types.InstallerOptions) error {
	for _, raw := range append([]string{opts.IndexURL}, opts.ExtraIndexURLs...) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("index URL must be http(s): %s", raw))
		}
	}
	for _, host := range opts.TrustedHosts {
		if strings.TrimSpace(host) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("trusted host must not be empty")
		}
	}
	for _, pattern := range append(append([]string{}, opts.OnlyBinary...), opts.NoBinary...) {
		if err := policies.ValidateBinaryPattern(pattern); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOverrides checks the override directives a lock run may
// apply. Every directive needs an owner and a reason so exceptions
// stay auditable.
func (v ManifestValidator) ValidateOverrides(ctx context.Context, overrides []types.OverrideDirective) error {
	for _, directive := range overrides {
		if err := validateOverrideDirective(directive); err != nil {
			return err
		}
	}
	log.Ctx(ctx).Debug().Int("overrides", len(overrides)).Msg("overrides validated")
	return nil
}

func validateOverrideDirective(directive types.OverrideDirective) error {
	if strings.TrimSpace(directive.Dependency) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive dependency must not be empty")
	}
	action := strings.ToLower(strings.TrimSpace(directive.Action))
	if action == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive action must not be empty")
	}
	switch action {
	case policies.ActionForce, policies.ActionRelax, policies.ActionReplace, policies.ActionBlock:
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("override directive has invalid action: %s", directive.Action))
	}
	if strings.TrimSpace(directive.Reason) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive reason must not be empty")
	}
	if strings.TrimSpace(directive.Owner) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive owner must not be empty")
	}
	if (action == policies.ActionForce || action == policies.ActionReplace) && strings.TrimSpace(directive.Value) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive value must not be empty for force/replace actions")
	}
	return nil
}
