package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source identifies one configured feed within a scan.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type feedsFile struct {
	Feeds []Source `yaml:"feeds"`
}

// Load reads the feed source list from a YAML file. It is called before
// every scan so edits to the file take effect without a restart.
func Load(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var parsed feedsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	for i, source := range parsed.Feeds {
		if source.Name == "" {
			return nil, fmt.Errorf("feed at index %d has no name", i)
		}
		if source.URL == "" {
			return nil, fmt.Errorf("feed %q has no URL", source.Name)
		}
	}

	return parsed.Feeds, nil
}
