package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	sim "github.com/shard-sim/shard-sim/sim"
)

// applyOverrides overlays the optional YAML config file onto a preset
// scenario Config. Only fields present in the file change; everything else
// keeps its preset value. Returns the config unchanged when no file is set.
func applyOverrides(cfg sim.Config) sim.Config {
	if configFile == "" {
		return cfg
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		logrus.Fatalf("unable to read config file %s: %v", configFile, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Fatalf("unable to parse config file %s: %v", configFile, err)
	}
	return cfg
}
