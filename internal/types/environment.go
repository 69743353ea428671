package types

// Environment is the set of platform attributes a marker expression can
// reference. Field names follow the marker variable vocabulary.
type Environment struct {
	PythonVersion         string `yaml:"python_version"`
	PythonFullVersion     string `yaml:"python_full_version"`
	OSName                string `yaml:"os_name"`
	SysPlatform           string `yaml:"sys_platform"`
	PlatformMachine       string `yaml:"platform_machine"`
	PlatformPythonImpl    string `yaml:"platform_python_implementation"`
	PlatformRelease       string `yaml:"platform_release"`
	PlatformSystem        string `yaml:"platform_system"`
	PlatformVersion       string `yaml:"platform_version"`
	ImplementationName    string `yaml:"implementation_name"`
	ImplementationVersion string `yaml:"implementation_version"`
	Extra                 string `yaml:"extra,omitempty"`
}

// Lookup returns the value of a marker variable and whether the name is
// part of the marker vocabulary at all.
func (e Environment) Lookup(name string) (string, bool) {
	switch name {
	case "python_version":
		return e.PythonVersion, true
	case "python_full_version":
		return e.PythonFullVersion, true
	case "os_name", "os.name":
		return e.OSName, true
	case "sys_platform", "sys.platform":
		return e.SysPlatform, true
	case "platform_machine":
		return e.PlatformMachine, true
	case "platform_python_implementation", "platform.python_implementation":
		return e.PlatformPythonImpl, true
	case "platform_release":
		return e.PlatformRelease, true
	case "platform_system":
		return e.PlatformSystem, true
	case "platform_version", "platform.version":
		return e.PlatformVersion, true
	case "implementation_name":
		return e.ImplementationName, true
	case "implementation_version":
		return e.ImplementationVersion, true
	case "extra":
		return e.Extra, true
	default:
		return "", false
	}
}

// VersionVariables names the marker variables whose values compare
// under PEP 440 rather than as plain strings.
var VersionVariables = map[string]struct{}{
	"python_version":         {},
	"python_full_version":    {},
	"implementation_version": {},
}
