package sound

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// manifestFile is the on-disk layout of a sound manifest:
//
//	sounds:
//	  - name: alarm
//	    display_name: Default
//	  - name: chime
type manifestFile struct {
	Sounds []manifestEntry `yaml:"sounds"`
}

type manifestEntry struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name,omitempty"`
}

// LoadManifest reads a YAML sound manifest.
func LoadManifest(path string) ([]Sound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sound manifest: %w", err)
	}
	sounds, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sounds, nil
}

// ParseManifest decodes manifest data. Entries without a display name get
// the capitalized machine name.
func ParseManifest(data []byte) ([]Sound, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse sound manifest: %w", err)
	}
	if len(mf.Sounds) == 0 {
		return nil, ErrEmptyCatalog
	}

	sounds := make([]Sound, 0, len(mf.Sounds))
	for i, e := range mf.Sounds {
		if e.Name == "" {
			return nil, fmt.Errorf("sound manifest entry %d: missing name", i)
		}
		s := NewSound(e.Name)
		if e.DisplayName != "" {
			s.DisplayName = e.DisplayName
		}
		sounds = append(sounds, s)
	}
	return sounds, nil
}
