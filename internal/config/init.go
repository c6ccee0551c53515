package config

import (
	"fmt"
	"os"
)

// InitConfig writes a sample config file to the default location,
// returning the path written. It fails if a file already exists there
// unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes a sample config file to path, failing if one
// already exists there unless force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := GetDefaultConfig()
	if err := SaveConfig(cfg, path); err != nil {
		return err
	}

	return appendSampleHeader(path)
}

// appendSampleHeader prepends an explanatory comment header to the
// freshly written YAML file, the way the teacher's generated config
// files open with a one-line banner before the sections.
func appendSampleHeader(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	header := "# Parsec Configuration File\n" +
		"#\n" +
		"# Generated by `parsecd init`. Edit to customize, then run\n" +
		"# `parsecd start --config " + path + "`.\n" +
		"#\n" +
		"# Every key can also be set via a PARSECD_<SECTION>_<KEY> environment\n" +
		"# variable, e.g. PARSECD_LOGGING_LEVEL=DEBUG.\n\n"

	return os.WriteFile(path, append([]byte(header), data...), 0600)
}
