package project

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/autorelease/domain"
)

const yamlFilename = "module.yaml"

var yamlVersionPattern = regexp.MustCompile(`(?m)^(version:[ \t]*["']?)[^"'\s]+(["']?)`)

// YAMLFormat handles "module.yaml" manifests.
type YAMLFormat struct{}

// NewYAMLFormat creates the YAML manifest format.
func NewYAMLFormat() *YAMLFormat {
	return &YAMLFormat{}
}

type yamlManifest struct {
	Name         string   `yaml:"name"`
	Version      string   `yaml:"version"`
	Dependencies []string `yaml:"dependencies"`
}

func (*YAMLFormat) Filename() string {
	return yamlFilename
}

func (*YAMLFormat) Parse(data []byte) (domain.ModuleDefinition, error) {
	var manifest yamlManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return domain.ModuleDefinition{}, fmt.Errorf("failed to parse %s: %w", yamlFilename, err)
	}

	return domain.ModuleDefinition{
		Name:         manifest.Name,
		Version:      manifest.Version,
		Dependencies: manifest.Dependencies,
	}, nil
}

func (*YAMLFormat) SetVersion(data []byte, version domain.Version) ([]byte, error) {
	updated, ok := replaceVersionValue(yamlVersionPattern, data, version)
	if !ok {
		return nil, fmt.Errorf("no version entry found in %s", yamlFilename)
	}
	return updated, nil
}
