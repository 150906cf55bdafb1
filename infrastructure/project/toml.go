package project

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/rios0rios0/autorelease/domain"
)

const tomlFilename = "module.toml"

var tomlVersionPattern = regexp.MustCompile(`(?m)^(version[ \t]*=[ \t]*")[^"]*(")`)

// TOMLFormat handles "module.toml" manifests.
type TOMLFormat struct{}

// NewTOMLFormat creates the TOML manifest format.
func NewTOMLFormat() *TOMLFormat {
	return &TOMLFormat{}
}

type tomlManifest struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Dependencies []string `toml:"dependencies"`
}

func (*TOMLFormat) Filename() string {
	return tomlFilename
}

func (*TOMLFormat) Parse(data []byte) (domain.ModuleDefinition, error) {
	var manifest tomlManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return domain.ModuleDefinition{}, fmt.Errorf("failed to parse %s: %w", tomlFilename, err)
	}

	return domain.ModuleDefinition{
		Name:         manifest.Name,
		Version:      manifest.Version,
		Dependencies: manifest.Dependencies,
	}, nil
}

func (*TOMLFormat) SetVersion(data []byte, version domain.Version) ([]byte, error) {
	updated, ok := replaceVersionValue(tomlVersionPattern, data, version)
	if !ok {
		return nil, fmt.Errorf("no version entry found in %s", tomlFilename)
	}
	return updated, nil
}
