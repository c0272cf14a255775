package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is looked up inside the template folder
const ManifestFileName = "templates.yaml"

// OffsetDef is a per-template click offset in native pixels
type OffsetDef struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// TemplateDef carries optional per-template settings from the manifest
type TemplateDef struct {
	Name      string    `yaml:"name"`
	Offset    OffsetDef `yaml:"offset,omitempty"`
	Threshold float64   `yaml:"threshold,omitempty"`
}

// Manifest is the optional templates.yaml file inside a template folder. It
// attaches click offsets and threshold overrides to template image files;
// images without an entry use zero offset and the engine threshold.
type Manifest struct {
	Templates []TemplateDef `yaml:"templates"`
}

// Lookup finds a definition by template file name
func (m *Manifest) Lookup(name string) (TemplateDef, bool) {
	for _, def := range m.Templates {
		if def.Name == name {
			return def, true
		}
	}
	return TemplateDef{}, false
}

// LoadManifest reads the manifest from dir. A missing manifest is not an
// error and yields an empty manifest.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, def := range manifest.Templates {
		if def.Name == "" {
			return nil, fmt.Errorf("template %d in %s: name cannot be empty", i+1, path)
		}
		if def.Threshold < 0 || def.Threshold > 1 {
			return nil, fmt.Errorf("template %s: threshold %v outside [0, 1]", def.Name, def.Threshold)
		}
	}

	return &manifest, nil
}
