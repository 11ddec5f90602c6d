package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// projectConfig is the optional efu.yaml next to the input file. It
// supplies defaults only; flags always win.
type projectConfig struct {
	Target  string `yaml:"target"`
	Runtime string `yaml:"runtime"`
	Out     string `yaml:"out"`
}

func loadProjectConfig(dir string) (projectConfig, error) {
	var cfg projectConfig

	data, err := os.ReadFile(filepath.Join(dir, "efu.yaml"))
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
