package pricing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadTable reads a price table from a TOML or YAML file, chosen by
// extension (.toml, .yaml, .yml). The file maps model names to prompt and
// completion rates:
//
//	["gpt-4-turbo"]
//	prompt = 0.01
//	completion = 0.03
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}

	var t Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse TOML price table %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse YAML price table %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported price table format %q (want .toml, .yaml, or .yml)", ext)
	}

	if err := validate(t); err != nil {
		return nil, fmt.Errorf("price table %s: %w", path, err)
	}
	return t, nil
}

// validate rejects tables that would produce nonsense costs.
func validate(t Table) error {
	if len(t) == 0 {
		return fmt.Errorf("table is empty")
	}
	for name, p := range t {
		if name == "" {
			return fmt.Errorf("entry with empty model name")
		}
		if p.Prompt < 0 || p.Completion < 0 {
			return fmt.Errorf("model %s has negative rates", name)
		}
	}
	return nil
}
