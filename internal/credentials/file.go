package credentials

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk credentials format
//
//	applications:
//	  - key: a32e5a8d-f7d8-411c-9645-9038e8dd051d
//	    secret: ax8hTTQJF0OPXL32r1LHMA==
type File struct {
	Applications []Application `yaml:"applications"`
}

// Application is one application key and its base64-encoded secret
type Application struct {
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`
}

// LoadFile reads a YAML credentials file into a new Store
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials from %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML credentials into a new Store
func Parse(data []byte) (*Store, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	s := NewStore()
	for i, app := range f.Applications {
		if app.Key == "" {
			return nil, fmt.Errorf("credentials entry %d: key is required", i)
		}
		if app.Secret == "" {
			return nil, fmt.Errorf("credentials entry %d (%s): secret is required", i, app.Key)
		}
		s.Add(app.Key, app.Secret)
	}
	return s, nil
}
