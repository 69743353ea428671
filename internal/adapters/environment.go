package adapters

import (
	"os"
	"runtime"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"reqlock/internal/ports"
	"reqlock/internal/types"
)

// EnvironmentAdapter supplies the target environment markers are
// evaluated against: either host-shaped defaults or a YAML profile
// merged over them.
type EnvironmentAdapter struct{}

func NewEnvironmentAdapter() EnvironmentAdapter {
	return EnvironmentAdapter{}
}

// Detect builds a default environment from the host platform. Python
// attributes default to the interpreter the tool targets; platform
// attributes follow the host OS.
func (a EnvironmentAdapter) Detect() types.Environment {
	env := types.Environment{
		PythonVersion:         "3.12",
		PythonFullVersion:     "3.12.0",
		ImplementationName:    "cpython",
		ImplementationVersion: "3.12.0",
		PlatformPythonImpl:    "CPython",
		PlatformMachine:       platformMachine(runtime.GOARCH),
	}
	switch runtime.GOOS {
	case "windows":
		env.OSName = "nt"
		env.SysPlatform = "win32"
		env.PlatformSystem = "Windows"
	case "darwin":
		env.OSName = "posix"
		env.SysPlatform = "darwin"
		env.PlatformSystem = "Darwin"
	default:
		env.OSName = "posix"
		env.SysPlatform = "linux"
		env.PlatformSystem = "Linux"
	}
	return env
}

// LoadFile merges an environment YAML profile over the given base.
// Fields present in the file win; absent fields keep the base value.
func (a EnvironmentAdapter) LoadFile(path string, base types.Environment) (types.Environment, error) {
	if strings.TrimSpace(path) == "" {
		return types.Environment{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("environment file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Environment{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read environment file").
			WithCause(err)
	}
	merged := base
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return types.Environment{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse environment file").
			WithCause(err)
	}
	return merged, nil
}

func platformMachine(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	default:
		return goarch
	}
}

var _ ports.EnvironmentPort = EnvironmentAdapter{}
