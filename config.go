package vizh

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds build-wide settings normally supplied on the command
// line, loadable from a vizh.yml file so a project can commit its
// preferred settings instead of retyping flags every build.
type Config struct {
	// CC is the C compiler/linker to invoke. Defaults to "cc".
	CC string `yaml:"cc"`
	// LibDir points at the directory containing libv.a/libv.lib and
	// crtv.o/crtv.obj.
	LibDir string `yaml:"lib_dir"`
	// Workers caps how many source files are parsed concurrently. 0
	// means "use all CPUs".
	Workers int `yaml:"workers"`
	// Output is the default executable name, overridden by -o.
	Output string `yaml:"output"`
	// DebugParser enables static annotated-PNG output for files that
	// fail to parse.
	DebugParser bool `yaml:"debug_parser"`
}

// DefaultConfig returns the configuration used when no vizh.yml is
// present.
func DefaultConfig() Config {
	return Config{CC: "cc", LibDir: "libv", Workers: 0, Output: "", DebugParser: false}
}

// LoadConfig reads and parses a vizh.yml file at path. A missing file
// is not an error: DefaultConfig is returned instead, since a project
// without a vizh.yml simply means "use the defaults".
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg back to path as YAML, e.g. for `vizhc config init`.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
